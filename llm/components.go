// Package llm provides the analyzer client for tidyname: it sends document
// content or images to a local OpenAI-compatible model server and parses the
// semi-structured response into filename components.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Components holds the semantic naming fields extracted from file content.
// Values equal (case-insensitively) to the literal string "null" are treated
// as absent; ParseComponents scrubs them to empty strings.
type Components struct {
	Company     string `json:"company"`
	Brand       string `json:"brand"`
	Project     string `json:"project"`
	Subject     string `json:"subject"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Ordered returns the component values in naming priority order:
// company, brand, project, subject, type, description.
func (c Components) Ordered() []string {
	return []string{c.Company, c.Brand, c.Project, c.Subject, c.Type, c.Description}
}

// IsEmpty reports whether no component carries a value.
func (c Components) IsEmpty() bool {
	for _, v := range c.Ordered() {
		if v != "" {
			return false
		}
	}
	return true
}

// ParseComponents parses a raw model response into Components.
// The response may be wrapped in markdown code fences and may contain
// JS-style comments or trailing commas; ExtractJSON normalizes all of that
// before unmarshalling. Unknown keys are ignored. A response with no
// parseable JSON object is an error (recoverable per-file, never fatal to a run).
func ParseComponents(raw string) (Components, error) {
	extracted := ExtractJSON(raw)
	if extracted == "" {
		return Components{}, fmt.Errorf("no JSON object in model response")
	}

	var c Components
	if err := json.Unmarshal([]byte(extracted), &c); err != nil {
		return Components{}, fmt.Errorf("parse model response: %w", err)
	}

	c.Company = scrubNull(c.Company)
	c.Brand = scrubNull(c.Brand)
	c.Project = scrubNull(c.Project)
	c.Subject = scrubNull(c.Subject)
	c.Type = scrubNull(c.Type)
	c.Description = scrubNull(c.Description)

	return c, nil
}

// scrubNull maps the literal string "null" (any case) to absent.
func scrubNull(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}
