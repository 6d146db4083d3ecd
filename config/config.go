// Package config provides configuration loading and management for tidyname.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tidyname configuration.
// It is constructed once at startup and passed to component constructors;
// nothing reads configuration ambiently.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Naming     NamingConfig     `yaml:"naming"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Processing ProcessingConfig `yaml:"processing"`
	FileTypes  FileTypesConfig  `yaml:"file_types"`
	Prompts    PromptsConfig    `yaml:"prompts"`
}

// ServerConfig configures the local model server connection.
type ServerConfig struct {
	// BaseURL is the OpenAI-compatible API endpoint (LM Studio, Ollama, vLLM).
	BaseURL string `yaml:"base_url"`
	// TextModel is the model used for document content analysis.
	TextModel string `yaml:"text_model"`
	// VisionModel is the model used for image analysis.
	VisionModel string `yaml:"vision_model"`
	// Temperature controls randomness (0.0-1.0).
	Temperature float64 `yaml:"temperature"`
	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens"`
	// Timeout is the maximum time to wait for a model response.
	Timeout time.Duration `yaml:"timeout"`
}

// NamingConfig configures how new filenames are built.
type NamingConfig struct {
	// CaseStyle is one of: kebab, snake, camel, pascal, lower.
	CaseStyle string `yaml:"case_style"`
	// DateFormat is one of: yyyymmdd, yyyy-mm-dd, yymmdd, ddmmyyyy.
	DateFormat string `yaml:"date_format"`
	// DatePosition is one of: start, end, none.
	DatePosition string `yaml:"date_position"`
	// MaxLength is the hard cap on generated filename stems.
	MaxLength int `yaml:"max_length"`
}

// ExtractionConfig bounds content extraction.
type ExtractionConfig struct {
	// MaxTextLength caps the characters extracted from any document.
	MaxTextLength int `yaml:"max_text_length"`
	// MaxPDFPages caps how many PDF pages are read.
	MaxPDFPages int `yaml:"max_pdf_pages"`
	// MaxImageWidth is the width images are downscaled to before analysis.
	MaxImageWidth int `yaml:"max_image_width"`
}

// ProcessingConfig configures the rename run itself.
type ProcessingConfig struct {
	// BatchSize is the number of files analyzed between pauses.
	BatchSize int `yaml:"batch_size"`
	// BatchPause is the pause inserted between batches.
	BatchPause time.Duration `yaml:"batch_pause"`
	// SkipAlreadyFormatted skips files whose names already follow the convention.
	SkipAlreadyFormatted bool `yaml:"skip_already_formatted"`
	// SkipHidden skips dotfiles during discovery.
	SkipHidden bool `yaml:"skip_hidden"`
}

// FileTypesConfig lists the extensions tidyname will process.
type FileTypesConfig struct {
	// Documents are routed through text extraction then text analysis.
	Documents []string `yaml:"documents"`
	// Images are routed to vision analysis.
	Images []string `yaml:"images"`
}

// PromptsConfig holds the analysis instructions sent to the model.
type PromptsConfig struct {
	TextInstruction   string `yaml:"text_instruction"`
	VisionInstruction string `yaml:"vision_instruction"`
}

// defaultTextInstruction asks the model for the six semantic components as JSON.
const defaultTextInstruction = `You are a file naming assistant. Analyze the document content and extract
naming components. Respond with ONLY a JSON object with these keys:
company, brand, project, subject, type, description.
Use the string "null" for components that do not apply.
Keep each value short (1-3 words). Example:
{"company": "acme", "brand": "null", "project": "apollo", "subject": "budget", "type": "report", "description": "q3 forecast"}`

// defaultVisionInstruction is the image variant of the analysis prompt.
const defaultVisionInstruction = `You are a file naming assistant. Look at the image and extract naming
components. Respond with ONLY a JSON object with these keys:
company, brand, project, subject, type, description.
Use the string "null" for components that do not apply.
Keep each value short (1-3 words).`

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:     "http://localhost:1234/v1",
			TextModel:   "qwen2.5-7b-instruct",
			VisionModel: "smolvlm-500m-instruct",
			Temperature: 0.3,
			MaxTokens:   150,
			Timeout:     30 * time.Second,
		},
		Naming: NamingConfig{
			CaseStyle:    "kebab",
			DateFormat:   "yyyymmdd",
			DatePosition: "end",
			MaxLength:    100,
		},
		Extraction: ExtractionConfig{
			MaxTextLength: 2000,
			MaxPDFPages:   5,
			MaxImageWidth: 1024,
		},
		Processing: ProcessingConfig{
			BatchSize:            20,
			BatchPause:           2 * time.Second,
			SkipAlreadyFormatted: true,
			SkipHidden:           true,
		},
		FileTypes: FileTypesConfig{
			Documents: []string{
				".pdf", ".docx", ".doc", ".pptx", ".ppt", ".xlsx", ".xls",
				".txt", ".md", ".csv", ".srt", ".html", ".htm",
			},
			Images: []string{
				".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff",
			},
		},
		Prompts: PromptsConfig{
			TextInstruction:   defaultTextInstruction,
			VisionInstruction: defaultVisionInstruction,
		},
	}
}

// validCaseStyles are accepted by Validate. The formatter itself tolerates
// unknown styles by falling back to kebab, but configuration is stricter.
var validCaseStyles = map[string]bool{
	"kebab": true, "snake": true, "camel": true, "pascal": true, "lower": true,
}

var validDatePositions = map[string]bool{
	"start": true, "end": true, "none": true,
}

var validDateFormats = map[string]bool{
	"yyyymmdd": true, "yyyy-mm-dd": true, "yymmdd": true, "ddmmyyyy": true,
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	if c.Server.TextModel == "" {
		return fmt.Errorf("server.text_model is required")
	}
	if c.Server.Temperature < 0 || c.Server.Temperature > 1 {
		return fmt.Errorf("server.temperature must be between 0 and 1")
	}
	if !validCaseStyles[c.Naming.CaseStyle] {
		return fmt.Errorf("naming.case_style must be one of kebab, snake, camel, pascal, lower")
	}
	if !validDatePositions[c.Naming.DatePosition] {
		return fmt.Errorf("naming.date_position must be one of start, end, none")
	}
	if !validDateFormats[c.Naming.DateFormat] {
		return fmt.Errorf("naming.date_format must be one of yyyymmdd, yyyy-mm-dd, yymmdd, ddmmyyyy")
	}
	if c.Naming.MaxLength <= 0 {
		return fmt.Errorf("naming.max_length must be positive")
	}
	if c.Processing.BatchSize <= 0 {
		return fmt.Errorf("processing.batch_size must be positive")
	}
	if c.Extraction.MaxTextLength <= 0 {
		return fmt.Errorf("extraction.max_text_length must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsDocument reports whether ext (including the dot) is a supported document extension.
func (c *Config) IsDocument(ext string) bool {
	return containsExt(c.FileTypes.Documents, ext)
}

// IsImage reports whether ext (including the dot) is a supported image extension.
func (c *Config) IsImage(ext string) bool {
	return containsExt(c.FileTypes.Images, ext)
}

// IsSupported reports whether ext is processable at all.
func (c *Config) IsSupported(ext string) bool {
	return c.IsDocument(ext) || c.IsImage(ext)
}

// AllExtensions returns every supported extension.
func (c *Config) AllExtensions() []string {
	all := make([]string, 0, len(c.FileTypes.Documents)+len(c.FileTypes.Images))
	all = append(all, c.FileTypes.Documents...)
	all = append(all, c.FileTypes.Images...)
	return all
}

func containsExt(exts []string, ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
