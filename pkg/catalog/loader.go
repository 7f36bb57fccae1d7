package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amparo-health/screening/pkg/domain"
)

// fileSpec is the on-disk shape of a catalog definition file.
type fileSpec struct {
	Entry  domain.LayerID `yaml:"entry"`
	Layers []domain.Layer `yaml:"layers"`
}

// Load reads a YAML catalog definition from path, validates it, and
// returns the resulting Catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from raw YAML definitions.
func Parse(data []byte) (*Catalog, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	if spec.Entry == "" {
		spec.Entry = domain.LayerTriage
	}
	c, err := New(spec.Entry, spec.Layers...)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}
