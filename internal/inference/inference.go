// Package inference implements the placeholder lesion classifier. It checks
// that an upload is a real image and answers with a random probability pair
// until a model is wired in.
package inference

import (
	"errors"
)

// ErrInvalidImage is returned when the payload does not decode as an image.
var ErrInvalidImage = errors.New("invalid image file")

// HeatmapPlaceholderURL is returned in place of a class activation map.
const HeatmapPlaceholderURL = "https://dummyimage.com/600x600/cccccc/000000.png&text=Heatmap+Placeholder"

// Probabilities holds the two class scores. They sum to 1 within rounding.
type Probabilities struct {
	Benign    float64 `json:"benign"`
	Malignant float64 `json:"malignant"`
}

type Result struct {
	Probs     Probabilities `json:"probs"`
	CamPngURL string        `json:"camPngUrl"`
}
