// Package confidence turns raw retrieval similarity, optionally blended
// with field-level extraction confidence, into a bounded score and a
// qualitative bucket used for downstream filtering and UI color-coding.
package confidence

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned when scorer weights are out of range or do
// not sum to one.
var ErrInvalidWeights = errors.New("invalid confidence weights")

// Bucket is the qualitative confidence label.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// Bucket thresholds. These are an external contract (UI color-coding
// depends on them): strictly above 0.70 is high, 0.50 through 0.70
// inclusive is medium, below 0.50 is low.
const (
	highThreshold   = 0.70
	mediumThreshold = 0.50
)

// Score is a bounded confidence value with its bucket.
type Score struct {
	Value  float64 `json:"score"`
	Bucket Bucket  `json:"bucket"`
}

// Config holds the blend weights applied when a field-level extraction
// confidence accompanies the retrieval similarity.
type Config struct {
	// SimilarityWeight is the weight of the retrieval similarity term.
	SimilarityWeight float64 `koanf:"similarity_weight"`

	// FieldWeight is the weight of the extraction confidence term.
	FieldWeight float64 `koanf:"field_weight"`
}

// DefaultConfig returns an even 0.5/0.5 blend.
func DefaultConfig() Config {
	return Config{SimilarityWeight: 0.5, FieldWeight: 0.5}
}

// Validate checks that both weights are in [0,1] and sum to 1.
func (c Config) Validate() error {
	if c.SimilarityWeight < 0 || c.SimilarityWeight > 1 {
		return fmt.Errorf("%w: similarity weight %.2f outside [0,1]", ErrInvalidWeights, c.SimilarityWeight)
	}
	if c.FieldWeight < 0 || c.FieldWeight > 1 {
		return fmt.Errorf("%w: field weight %.2f outside [0,1]", ErrInvalidWeights, c.FieldWeight)
	}
	if math.Abs(c.SimilarityWeight+c.FieldWeight-1) > 1e-9 {
		return fmt.Errorf("%w: weights must sum to 1, got %.4f", ErrInvalidWeights, c.SimilarityWeight+c.FieldWeight)
	}
	return nil
}

// Scorer computes confidence scores.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer with the given weights.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{config: cfg}, nil
}

// Score derives a confidence from a cosine similarity in [-1,1].
//
// The similarity is remapped via (s+1)/2 so negative cosines land in [0,0.5)
// rather than being clipped to zero, then clamped. If fieldConfidence is
// non-nil it is blended in using the configured weights.
func (s *Scorer) Score(similarity float64, fieldConfidence *float64) Score {
	base := clamp01((similarity + 1) / 2)

	value := base
	if fieldConfidence != nil {
		value = s.config.SimilarityWeight*base + s.config.FieldWeight*clamp01(*fieldConfidence)
		value = clamp01(value)
	}

	return Score{Value: value, Bucket: BucketFor(value)}
}

// BucketFor maps a bounded score to its bucket.
func BucketFor(value float64) Bucket {
	switch {
	case value > highThreshold:
		return BucketHigh
	case value >= mediumThreshold:
		return BucketMedium
	default:
		return BucketLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
