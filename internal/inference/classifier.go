package inference

import (
	"math"
	"math/rand/v2"
)

const (
	minMalignant = 0.05
	maxMalignant = 0.95
)

// Classifier validates uploads and returns placeholder probabilities.
type Classifier struct {
	sample    func() float64
	maxPixels int64
}

type Option func(*Classifier)

// WithSampler replaces the uniform [0, 1) source. Used by tests.
func WithSampler(sample func() float64) Option {
	return func(c *Classifier) {
		c.sample = sample
	}
}

// WithMaxPixels overrides DefaultMaxPixels. Non-positive values are ignored.
func WithMaxPixels(n int64) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.maxPixels = n
		}
	}
}

func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{sample: rand.Float64, maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Infer rejects anything that is not a decodable raster image, or whose
// header exceeds the pixel budget, with ErrInvalidImage. Otherwise the
// malignant score is drawn uniformly from (0.05, 0.95) and the benign score
// is its complement, both to 3 decimals.
func (c *Classifier) Infer(data []byte) (Result, error) {
	if _, _, err := decodeRGB(data, c.maxPixels); err != nil {
		return Result{}, err
	}

	u := c.sample()
	u = math.Min(math.Max(u, 0), 1)
	malignant := round3(minMalignant + u*(maxMalignant-minMalignant))

	return Result{
		Probs: Probabilities{
			Benign:    round3(1 - malignant),
			Malignant: malignant,
		},
		CamPngURL: HeatmapPlaceholderURL,
	}, nil
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
