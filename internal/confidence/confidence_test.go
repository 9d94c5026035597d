package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  Bucket
	}{
		{0.70, BucketMedium},  // boundary is inclusive on the medium side
		{0.7001, BucketHigh},  // strictly above the boundary
		{0.50, BucketMedium},  // lower boundary is inclusive
		{0.4999, BucketLow},   // strictly below
		{1.0, BucketHigh},
		{0.0, BucketLow},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, BucketFor(tt.value), "BucketFor(%v)", tt.value)
	}
}

func TestScoreRemapsNegativeSimilarity(t *testing.T) {
	s, err := NewScorer(DefaultConfig())
	require.NoError(t, err)

	tests := []struct {
		name       string
		similarity float64
		want       float64
	}{
		{"perfect match", 1.0, 1.0},
		{"orthogonal", 0.0, 0.5},
		{"opposite", -1.0, 0.0},
		{"moderate", 0.6, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.similarity, nil)
			assert.InDelta(t, tt.want, got.Value, 1e-9)
			assert.Equal(t, BucketFor(tt.want), got.Bucket)
		})
	}
}

func TestScoreClampsOutOfRangeSimilarity(t *testing.T) {
	s, err := NewScorer(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Score(3.0, nil).Value)
	assert.Equal(t, 0.0, s.Score(-3.0, nil).Value)
}

func TestScoreBlendsFieldConfidence(t *testing.T) {
	s, err := NewScorer(DefaultConfig())
	require.NoError(t, err)

	field := 0.9
	// base = (0.6+1)/2 = 0.8; blended = 0.5*0.8 + 0.5*0.9 = 0.85
	got := s.Score(0.6, &field)
	assert.InDelta(t, 0.85, got.Value, 1e-9)
	assert.Equal(t, BucketHigh, got.Bucket)
}

func TestScoreCustomWeights(t *testing.T) {
	s, err := NewScorer(Config{SimilarityWeight: 0.8, FieldWeight: 0.2})
	require.NoError(t, err)

	field := 0.0
	// base = 0.8; blended = 0.8*0.8 + 0.2*0 = 0.64
	got := s.Score(0.6, &field)
	assert.InDelta(t, 0.64, got.Value, 1e-9)
	assert.Equal(t, BucketMedium, got.Bucket)
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative weight", Config{SimilarityWeight: -0.1, FieldWeight: 1.1}},
		{"does not sum to one", Config{SimilarityWeight: 0.6, FieldWeight: 0.6}},
		{"over one", Config{SimilarityWeight: 1.5, FieldWeight: -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScorer(tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}
