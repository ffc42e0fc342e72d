package cases

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no case has the requested identifier.
var ErrNotFound = errors.New("case not found")

// ErrInvalidDifficulty is returned for a difficulty outside easy, med and hard.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// ErrInvalidLabel is returned when an answer is neither benign nor malignant.
var ErrInvalidLabel = errors.New("invalid label")

// DefaultLimit is the number of cases listed when no limit is given.
const DefaultLimit = 20

// Disclaimer accompanies every answer feedback.
const Disclaimer = "Educational use only - not for diagnosis or patient management"

type Label string

const (
	LabelBenign    Label = "benign"
	LabelMalignant Label = "malignant"
)

func (l Label) Valid() bool {
	return l == LabelBenign || l == LabelMalignant
}

// ParseLabel accepts a label in any case with surrounding whitespace.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
	return l, nil
}

type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyMed  Difficulty = "med"
	DifficultyHard Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMed, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty accepts the wire form of a difficulty tag.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

// Patient describes the person the lesion image was taken from.
type Patient struct {
	Age   int     `json:"age" yaml:"age"`
	Site  string  `json:"site" yaml:"site"`
	Notes *string `json:"notes" yaml:"notes"`
}

// Case is a practice image with its ground-truth label.
type Case struct {
	ID         string     `json:"id" yaml:"id"`
	ImageURL   string     `json:"imageUrl" yaml:"image_url"`
	Patient    Patient    `json:"patient" yaml:"patient"`
	Label      Label      `json:"label" yaml:"label"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// TeachingPoints are revealed only after an answer.
	TeachingPoints []string `json:"-" yaml:"teaching_points"`
}

// Feedback is the outcome of answering a case.
type Feedback struct {
	Correct        bool     `json:"correct"`
	CorrectLabel   Label    `json:"correctLabel"`
	TeachingPoints []string `json:"teachingPoints"`
	Disclaimer     string   `json:"disclaimer"`
}

// Query filters and truncates a catalogue listing. An empty Difficulty
// matches every case.
type Query struct {
	Difficulty Difficulty
	Limit      int
}
