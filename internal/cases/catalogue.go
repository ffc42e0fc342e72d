package cases

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

type catalogueFile struct {
	Cases []Case `yaml:"cases"`
}

// DefaultCatalogue returns the cases compiled into the binary.
func DefaultCatalogue() ([]Case, error) {
	return ParseCatalogue(defaultCatalogue)
}

// ReadCatalogue loads a catalogue from a YAML file on disk.
func ReadCatalogue(filePath string) ([]Case, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseCatalogue(file)
}

// ParseCatalogue decodes and validates a YAML catalogue.
func ParseCatalogue(data []byte) ([]Case, error) {
	var file catalogueFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}

	seen := make(map[string]bool, len(file.Cases))
	for i, c := range file.Cases {
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("catalogue entry %d: missing id", i)
		case seen[c.ID]:
			return nil, fmt.Errorf("catalogue entry %d: duplicate id %q", i, c.ID)
		case c.ImageURL == "":
			return nil, fmt.Errorf("case %s: missing image_url", c.ID)
		case !c.Label.Valid():
			return nil, fmt.Errorf("case %s: invalid label %q", c.ID, c.Label)
		case !c.Difficulty.Valid():
			return nil, fmt.Errorf("case %s: %w %q", c.ID, ErrInvalidDifficulty, c.Difficulty)
		case c.Patient.Age < 0:
			return nil, fmt.Errorf("case %s: negative patient age", c.ID)
		}
		for j, point := range c.TeachingPoints {
			if strings.TrimSpace(point) == "" {
				return nil, fmt.Errorf("case %s: teaching point %d is blank", c.ID, j)
			}
		}
		seen[c.ID] = true
	}
	return file.Cases, nil
}
