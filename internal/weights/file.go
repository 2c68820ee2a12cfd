package weights

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/strategy-scheduler/internal/contracts"
)

// overridesFile is the on-disk layout:
//
//	weights:
//	  momentum-us: 120
//	  earnings-llm: 35.5
type overridesFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// FileSource serves weights read once from a YAML overrides file
type FileSource struct {
	path    string
	weights contracts.Weights
}

// LoadFile reads and validates a YAML overrides file.
// Unknown keys and negative weights fail the load.
func LoadFile(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}

	w, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &FileSource{path: path, weights: w}, nil
}

// Parse decodes overrides YAML
func Parse(data []byte) (contracts.Weights, error) {
	var f overridesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 오타 필드는 즉시 실패
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}

	w := make(contracts.Weights, len(f.Weights))
	for id, v := range f.Weights {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("strategy %s: weight %v must be >= 0", id, v)
		}
		w[contracts.StrategyID(id)] = v
	}
	return w, nil
}

// Path returns the file the weights were loaded from
func (s *FileSource) Path() string {
	return s.path
}

// Weights implements contracts.WeightSource
func (s *FileSource) Weights(ctx context.Context) (contracts.Weights, error) {
	return maps.Clone(s.weights), nil
}
