package extraction

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDefaultFields(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{})
	require.NoError(t, err)

	text := "This randomized trial included 120 patients with chronic hypertension. " +
		"Patients received lisinopril 10mg daily. The control group received placebo. " +
		"The primary outcome was systolic blood pressure reduction. " +
		"Follow-up lasted 12 months."

	fields := e.Extract(text)

	// Every configured field is present in the result.
	for _, name := range []string{"population", "intervention", "comparator", "outcome", "time", "study_type"} {
		assert.Contains(t, fields, name)
	}

	pop := fields["population"]
	assert.NotEqual(t, NotFound, pop.Text)
	assert.Greater(t, pop.Confidence, 0.0)

	// Numeric follow-up duration gets the numeric boost: 0.5 + 0.1.
	tm := fields["time"]
	assert.Equal(t, "12 months", tm.Text)
	assert.InDelta(t, 0.6, tm.Confidence, 1e-9)

	// "randomized" hits both the keyword boost (0.3) and no numeric boost.
	st := fields["study_type"]
	assert.Equal(t, "randomized", st.Text)
	assert.InDelta(t, 0.8, st.Confidence, 1e-9)
}

func TestExtractMissingField(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{})
	require.NoError(t, err)

	fields := e.Extract("completely unrelated text about weather patterns")

	cmp := fields["comparator"]
	assert.Equal(t, NotFound, cmp.Text)
	assert.Equal(t, 0.0, cmp.Confidence)
}

func TestExtractConfidenceCap(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{
		Fields: []FieldSpec{{
			Name:         "dose",
			Patterns:     []Pattern{{Regex: `(?i)dose of ([^.]+)`, Weight: 0.9}},
			Keywords:     []string{"mg"},
			KeywordBoost: 0.3,
		}},
	})
	require.NoError(t, err)

	// 0.9 + 0.3 keyword + 0.1 numeric would be 1.3 uncapped.
	fields := e.Extract("a dose of 20 mg daily.")
	assert.InDelta(t, 0.95, fields["dose"].Confidence, 1e-9)
}

func TestExtractWhitespaceOnlyMatchIsNotFound(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{})
	require.NoError(t, err)

	// "received \n." matches the intervention pattern but its capture group
	// trims to nothing; the field must stay Not found, not become "".
	fields := e.Extract("received \n.")

	iv := fields["intervention"]
	assert.Equal(t, NotFound, iv.Text)
	assert.Equal(t, 0.0, iv.Confidence)

	_, _, ok := Best(fields)
	assert.False(t, ok)
}

func TestExtractLaterPatternRescuesWhitespaceMatch(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{
		Fields: []FieldSpec{{
			Name: "f",
			Patterns: []Pattern{
				{Regex: `first:(\s*)`, Weight: 0.9},
				{Regex: `second:(\w+)`, Weight: 0.5},
			},
		}},
	})
	require.NoError(t, err)

	fields := e.Extract("first:   second:beta")
	assert.Equal(t, "beta", fields["f"].Text)
	assert.InDelta(t, 0.5, fields["f"].Confidence, 1e-9)
}

func TestExtractTruncatesLongText(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{
		Fields: []FieldSpec{{
			Name:     "long",
			Patterns: []Pattern{{Regex: `(x+)`, Weight: 0.5}},
		}},
		MaxTextLength: 10,
	})
	require.NoError(t, err)

	fields := e.Extract("yyy xxxxxxxxxxxxxxxxxxxxxxxxx")
	assert.Len(t, fields["long"].Text, 10)
}

func TestExtractTruncatesOnRuneBoundary(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{
		Fields: []FieldSpec{{
			Name:     "greek",
			Patterns: []Pattern{{Regex: `value: (\S+)`, Weight: 0.5}},
		}},
		MaxTextLength: 5,
	})
	require.NoError(t, err)

	// Each Greek letter is 2 bytes; a byte cut at 5 would split the third.
	fields := e.Extract("value: αβγδε")
	assert.Equal(t, "αβ", fields["greek"].Text)
	assert.True(t, utf8.ValidString(fields["greek"].Text))
}

func TestBiasProfile(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{Profile: "bias"})
	require.NoError(t, err)

	text := "Randomization was properly performed using sealed envelopes. " +
		"Three participants were lost to follow-up."

	fields := e.Extract(text)

	// Every bias domain is present in the result.
	for _, name := range []string{
		"random_sequence_generation", "allocation_concealment",
		"blinding_participants", "blinding_assessment",
		"incomplete_outcome", "selective_reporting", "other_bias",
	} {
		assert.Contains(t, fields, name)
	}

	// "properly" in the matched sentence lifts 0.4 to 0.7.
	rsg := fields["random_sequence_generation"]
	assert.NotEqual(t, NotFound, rsg.Text)
	assert.InDelta(t, 0.7, rsg.Confidence, 1e-9)

	// Attrition sentence has no adequacy keyword, so base weight only.
	inc := fields["incomplete_outcome"]
	assert.NotEqual(t, NotFound, inc.Text)
	assert.InDelta(t, 0.4, inc.Confidence, 1e-9)

	blind := fields["blinding_participants"]
	assert.Equal(t, NotFound, blind.Text)
}

func TestNewHeuristicExtractorRejectsUnknownProfile(t *testing.T) {
	_, err := NewHeuristicExtractor(Config{Profile: "jadad"})
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestExtractFirstPatternWins(t *testing.T) {
	e, err := NewHeuristicExtractor(Config{
		Fields: []FieldSpec{{
			Name: "f",
			Patterns: []Pattern{
				{Regex: `(?i)first (\w+)`, Weight: 0.9},
				{Regex: `(?i)second (\w+)`, Weight: 0.5},
			},
		}},
	})
	require.NoError(t, err)

	fields := e.Extract("second beta and first alpha")
	assert.Equal(t, "alpha", fields["f"].Text)
	assert.InDelta(t, 0.9, fields["f"].Confidence, 1e-9)
}

func TestNewHeuristicExtractorRejectsBadRegex(t *testing.T) {
	_, err := NewHeuristicExtractor(Config{
		Fields: []FieldSpec{{
			Name:     "bad",
			Patterns: []Pattern{{Regex: `([unclosed`, Weight: 0.5}},
		}},
	})
	assert.Error(t, err)
}

func TestBest(t *testing.T) {
	fields := map[string]Field{
		"a": {Text: NotFound, Confidence: 0},
		"b": {Text: "found b", Confidence: 0.6},
		"c": {Text: "found c", Confidence: 0.8},
	}

	name, field, ok := Best(fields)
	require.True(t, ok)
	assert.Equal(t, "c", name)
	assert.InDelta(t, 0.8, field.Confidence, 1e-9)

	t.Run("all missing", func(t *testing.T) {
		_, _, ok := Best(map[string]Field{"a": {Text: NotFound}})
		assert.False(t, ok)
	})

	t.Run("tie breaks by name", func(t *testing.T) {
		name, _, ok := Best(map[string]Field{
			"z": {Text: "zz", Confidence: 0.5},
			"a": {Text: "aa", Confidence: 0.5},
		})
		require.True(t, ok)
		assert.Equal(t, "a", name)
	})
}
