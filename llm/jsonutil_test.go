package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string // if non-empty, check this key exists in parsed JSON
		wantErr bool
	}{
		{
			name:    "plain JSON",
			input:   `{"company": "nike"}`,
			wantKey: "company",
		},
		{
			name:    "markdown code block",
			input:   "```json\n{\"company\": \"nike\"}\n```",
			wantKey: "company",
		},
		{
			name:    "code block without language tag",
			input:   "```\n{\"company\": \"nike\"}\n```",
			wantKey: "company",
		},
		{
			name:    "markdown block with trailing prose",
			input:   "```json\n{\"company\": \"nike\"}\n```\n\nI identified the company from the letterhead.",
			wantKey: "company",
		},
		{
			name:    "JSON surrounded by prose",
			input:   "Here is the analysis:\n{\"subject\": \"invoice\"}\nLet me know if you need more.",
			wantKey: "subject",
		},
		{
			name:    "JS comments in values",
			input:   "```json\n{\n  \"company\": \"nike\",   // from the header\n  \"subject\": \"invoice\"  // document type\n}\n```",
			wantKey: "company",
		},
		{
			name:    "trailing commas",
			input:   "```json\n{\n  \"company\": \"nike\",\n  \"subject\": \"invoice\",\n}\n```",
			wantKey: "company",
		},
		{
			name:    "URL in string not stripped",
			input:   `{"description": "order from http://example.com/shop"}`,
			wantKey: "description",
		},
		{
			name:    "URL in string with comment after",
			input:   "{\"description\": \"http://example.com/path\"} // trailing",
			wantKey: "description",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not determine any components for this file.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)

			if tt.wantErr {
				if got != "" {
					t.Errorf("ExtractJSON() = %q, want empty", got)
				}
				return
			}

			var parsed map[string]any
			if err := json.Unmarshal([]byte(got), &parsed); err != nil {
				t.Fatalf("extracted JSON does not parse: %v\nextracted: %q", err, got)
			}
			if tt.wantKey != "" {
				if _, ok := parsed[tt.wantKey]; !ok {
					t.Errorf("key %q missing from parsed JSON: %v", tt.wantKey, parsed)
				}
			}
		})
	}
}

func TestStripLineComment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no comment", `  "company": "nike",`, `  "company": "nike",`},
		{"comment after value", `  "company": "nike", // from header`, `  "company": "nike",`},
		{"url inside string", `  "url": "http://example.com",`, `  "url": "http://example.com",`},
		{"url then comment", `  "url": "http://a.com", // note`, `  "url": "http://a.com",`},
		{"escaped quote in string", `  "text": "say \"hi\" // not a comment",`, `  "text": "say \"hi\" // not a comment",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripLineComment(tt.input); got != tt.want {
				t.Errorf("stripLineComment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
