// Package namer builds standardized filename stems from semantic components.
// It is pure string transformation: no I/O, no clock access except for
// CurrentDate, and no failure modes: malformed input degrades to a fallback
// stem rather than an error.
package namer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidyname/tidyname/config"
	"github.com/tidyname/tidyname/llm"
)

// FallbackStem is used when no component survives sanitization.
const FallbackStem = "unnamed-file"

// sanitizePattern strips everything except lowercase letters, digits, spaces
// and hyphens.
var sanitizePattern = regexp.MustCompile(`[^a-z0-9\s-]`)

// whitespacePattern collapses runs of whitespace.
var whitespacePattern = regexp.MustCompile(`\s+`)

// Already-formatted stems: words of [a-z0-9] joined by the style separator,
// optionally ending in a separator plus an 8-digit date.
var (
	kebabFormattedPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*(-\d{8})?$`)
	snakeFormattedPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*(_\d{8})?$`)
)

// Formatter turns filename components into a sanitized stem according to the
// configured case style, date placement and length cap.
type Formatter struct {
	caseStyle    string
	dateFormat   string
	datePosition string
	maxLength    int
}

// New creates a Formatter from naming configuration.
func New(cfg config.NamingConfig) *Formatter {
	return &Formatter{
		caseStyle:    cfg.CaseStyle,
		dateFormat:   cfg.DateFormat,
		datePosition: cfg.DatePosition,
		maxLength:    cfg.MaxLength,
	}
}

// FormatComponents builds a filename stem from components and an optional
// date string. Components are taken in priority order (company, brand,
// project, subject, type, description), sanitized, and joined per the case
// style. Consecutive duplicate parts are collapsed; non-adjacent repeats are
// kept. An empty result falls back to FallbackStem. The final stem is hard
// truncated to the configured maximum; mid-word cuts are accepted.
func (f *Formatter) FormatComponents(components llm.Components, date string) string {
	var parts []string

	for _, value := range components.Ordered() {
		if value == "" || strings.EqualFold(value, "null") {
			continue
		}
		part := sanitizeComponent(value)
		// The model sometimes smuggles "null" through punctuation; check again
		// after sanitization.
		if part == "" || part == "null" {
			continue
		}
		parts = append(parts, part)
	}

	parts = collapseConsecutive(parts)

	if len(parts) == 0 {
		return FallbackStem
	}

	stem := f.join(parts)

	if f.datePosition != "none" && date != "" {
		stem = f.addDate(stem, date)
	}

	if len(stem) > f.maxLength {
		stem = stem[:f.maxLength]
	}

	return stem
}

// IsAlreadyFormatted reports whether filename already follows the naming
// convention. Only kebab and snake styles are recognized; camel and pascal
// stems are never considered formatted, so skip-already-formatted has no
// effect under those styles.
func (f *Formatter) IsAlreadyFormatted(filename string) bool {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	switch f.caseStyle {
	case "kebab", "lower":
		return kebabFormattedPattern.MatchString(stem)
	case "snake":
		return snakeFormattedPattern.MatchString(stem)
	}

	return false
}

// sanitizeComponent lowercases a component and strips everything but letters,
// digits, spaces and hyphens, collapsing repeated whitespace.
func sanitizeComponent(text string) string {
	text = strings.ToLower(text)
	text = sanitizePattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// collapseConsecutive removes adjacent duplicate parts. [a a b b a] becomes
// [a b a]: the model tends to repeat itself in neighboring fields (brand and
// company both "nike"), but a non-adjacent repeat is assumed intentional.
func collapseConsecutive(parts []string) []string {
	if len(parts) == 0 {
		return parts
	}

	result := make([]string, 0, len(parts))
	result = append(result, parts[0])
	for _, part := range parts[1:] {
		if part != result[len(result)-1] {
			result = append(result, part)
		}
	}
	return result
}

// join assembles parts according to the case style. Unknown styles fall back
// to kebab rather than failing: the style reaches here from user
// configuration and a typo should not abort a run.
func (f *Formatter) join(parts []string) string {
	switch f.caseStyle {
	case "snake":
		joined := make([]string, len(parts))
		for i, part := range parts {
			joined[i] = strings.ReplaceAll(part, " ", "_")
		}
		return strings.Join(joined, "_")

	case "camel":
		var sb strings.Builder
		sb.WriteString(strings.ReplaceAll(parts[0], " ", ""))
		for _, part := range parts[1:] {
			sb.WriteString(titleCase(part))
		}
		return sb.String()

	case "pascal":
		var sb strings.Builder
		for _, part := range parts {
			sb.WriteString(titleCase(part))
		}
		return sb.String()

	default: // kebab, lower, and anything unrecognized
		joined := make([]string, len(parts))
		for i, part := range parts {
			joined[i] = strings.ReplaceAll(part, " ", "-")
		}
		return strings.Join(joined, "-")
	}
}

// addDate attaches the date at the configured position, using the style's own
// separator so a dated stem still matches the formatted patterns above.
func (f *Formatter) addDate(stem, date string) string {
	separator := "-"
	switch f.caseStyle {
	case "snake":
		separator = "_"
	case "camel", "pascal":
		separator = ""
	}

	if f.datePosition == "start" {
		return date + separator + stem
	}
	return stem + separator + date
}

// titleCase capitalizes each space-separated word and removes the spaces.
// Components are already sanitized to lowercase ASCII at this point.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "")
}
