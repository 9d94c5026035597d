package extraction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for extractor configuration.
var (
	// ErrNoFields is returned when an extractor is configured without fields.
	ErrNoFields = errors.New("no extraction fields configured")

	// ErrUnknownProfile indicates an unsupported built-in field profile.
	ErrUnknownProfile = errors.New("unknown extraction profile")
)

// NotFound is the placeholder text for fields with no pattern match.
const NotFound = "Not found"

// Pattern is a weighted regex tried against chunk text. Weight is the base
// confidence assigned when the pattern matches, before boosts.
type Pattern struct {
	Regex  string  `koanf:"regex"`
	Weight float64 `koanf:"weight"`
}

// FieldSpec describes one extractable field.
type FieldSpec struct {
	// Name identifies the field in results.
	Name string `koanf:"name"`

	// Patterns are tried in order; the first match wins.
	Patterns []Pattern `koanf:"patterns"`

	// Keywords boost confidence by KeywordBoost when any appears in the
	// extracted text.
	Keywords []string `koanf:"keywords"`

	// KeywordBoost is added once if a keyword matches. Default 0.2.
	KeywordBoost float64 `koanf:"keyword_boost"`
}

// Field is an extracted value with its confidence in [0,1].
type Field struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Config holds extractor configuration.
type Config struct {
	// Profile selects a built-in field set when Fields is empty:
	// "picott" (default) or "bias".
	Profile string `koanf:"profile"`

	// Fields to extract. Empty falls back to the Profile's field set.
	Fields []FieldSpec `koanf:"fields"`

	// MaxConfidence caps every field confidence. Default 0.95.
	MaxConfidence float64 `koanf:"max_confidence"`

	// MaxTextLength truncates extracted text. Default 200.
	MaxTextLength int `koanf:"max_text_length"`
}

// numericBoost is added when the extracted text contains digits; concrete
// numbers usually mean the pattern landed on real data rather than prose.
const numericBoost = 0.1

var numericRe = regexp.MustCompile(`\d+`)

// compiledField holds a field spec with pre-compiled patterns.
type compiledField struct {
	FieldSpec
	regexes []*regexp.Regexp
}

// HeuristicExtractor extracts fields from text using pattern matching.
type HeuristicExtractor struct {
	fields        []*compiledField
	maxConfidence float64
	maxTextLength int
}

// NewHeuristicExtractor creates an extractor from the config. Invalid
// regexes fail construction rather than being skipped, since a silently
// dropped pattern would change extraction results without a trace.
func NewHeuristicExtractor(cfg Config) (*HeuristicExtractor, error) {
	specs := cfg.Fields
	if len(specs) == 0 {
		switch cfg.Profile {
		case "", "picott":
			specs = DefaultFields()
		case "bias":
			specs = BiasFields()
		default:
			return nil, fmt.Errorf("%w: %q (supported: picott, bias)", ErrUnknownProfile, cfg.Profile)
		}
	}
	if len(specs) == 0 {
		return nil, ErrNoFields
	}

	maxConfidence := cfg.MaxConfidence
	if maxConfidence == 0 {
		maxConfidence = 0.95
	}
	maxTextLength := cfg.MaxTextLength
	if maxTextLength == 0 {
		maxTextLength = 200
	}

	fields := make([]*compiledField, 0, len(specs))
	for _, spec := range specs {
		if spec.KeywordBoost == 0 {
			spec.KeywordBoost = 0.2
		}
		cf := &compiledField{FieldSpec: spec}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("field %q: compiling pattern %q: %w", spec.Name, p.Regex, err)
			}
			cf.regexes = append(cf.regexes, re)
		}
		fields = append(fields, cf)
	}

	return &HeuristicExtractor{
		fields:        fields,
		maxConfidence: maxConfidence,
		maxTextLength: maxTextLength,
	}, nil
}

// Extract runs every configured field against the text. Fields without a
// match come back as {NotFound, 0.0} so callers see the full field set.
func (e *HeuristicExtractor) Extract(text string) map[string]Field {
	results := make(map[string]Field, len(e.fields))

	for _, field := range e.fields {
		extracted := NotFound
		confidence := 0.0

		for i, re := range field.regexes {
			match := re.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			// A match whose capture groups hold only whitespace is no
			// match at all; the field stays Not found.
			candidate := strings.TrimSpace(joinGroups(match))
			if candidate == "" {
				continue
			}
			extracted = candidate
			confidence = e.confidence(candidate, field, field.Patterns[i].Weight)
			break
		}

		results[field.Name] = Field{Text: truncate(extracted, e.maxTextLength), Confidence: confidence}
	}

	return results
}

// Best returns the found field with the highest confidence.
func Best(fields map[string]Field) (string, Field, bool) {
	var bestName string
	var best Field
	found := false

	for name, f := range fields {
		if f.Text == NotFound {
			continue
		}
		if !found || f.Confidence > best.Confidence || (f.Confidence == best.Confidence && name < bestName) {
			bestName, best, found = name, f, true
		}
	}
	return bestName, best, found
}

// confidence composes the final score: pattern weight as base, keyword and
// numeric boosts, capped at maxConfidence.
func (e *HeuristicExtractor) confidence(extracted string, field *compiledField, base float64) float64 {
	confidence := base

	lower := strings.ToLower(extracted)
	for _, kw := range field.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			confidence += field.KeywordBoost
			break
		}
	}

	if numericRe.MatchString(extracted) {
		confidence += numericBoost
	}

	if confidence > e.maxConfidence {
		confidence = e.maxConfidence
	}
	return confidence
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// joinGroups joins a match's capture groups, falling back to the whole
// match when the pattern has none.
func joinGroups(match []string) string {
	if len(match) == 1 {
		return match[0]
	}
	parts := make([]string, 0, len(match)-1)
	for _, g := range match[1:] {
		if g != "" {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, " ")
}
