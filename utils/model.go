package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"mlpnet/mlp"
)

const (
	// LayoutCanonical stores each transition as its weight matrix (input-major)
	// followed by its bias.
	LayoutCanonical = "canonical"
	// LayoutNeuronMajor stores, for every output unit, its bias then its
	// input weights.
	LayoutNeuronMajor = "neuron-major"
)

// ModelFile is the on-disk JSON form of a trained network.
type ModelFile struct {
	Version string      `json:"version"`
	Config  ModelConfig `json:"config"`
	Layout  string      `json:"layout,omitempty"`
	Weights []float64   `json:"weights"`
}

// SaveModel writes a model file as indented JSON.
func SaveModel(filepath string, model *ModelFile) error {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadModel reads and validates a model file.
func LoadModel(filepath string) (*ModelFile, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var model ModelFile
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	if err := ValidateConfig(&model.Config); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	switch model.Layout {
	case "", LayoutCanonical, LayoutNeuronMajor:
	default:
		return nil, fmt.Errorf("unknown weight layout %q", model.Layout)
	}
	return &model, nil
}

// Build constructs the network. Neuron-major weights are repacked into a new
// buffer first; canonical weights are referenced as they are.
func (m *ModelFile) Build() (*mlp.Network, error) {
	mode, err := m.Config.Mode()
	if err != nil {
		return nil, err
	}
	opts, err := m.Config.Options()
	if err != nil {
		return nil, err
	}
	weights := m.Weights
	if m.Layout == LayoutNeuronMajor {
		weights, err = mlp.RepackNeuronMajor(m.Config.Layers, m.Weights)
		if err != nil {
			return nil, fmt.Errorf("repacking weights: %w", err)
		}
	}
	net, err := mlp.New(m.Config.Layers, weights, mode, opts...)
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	return net, nil
}
