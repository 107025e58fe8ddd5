package utils

import (
	"fmt"
	"strconv"
	"strings"

	"mlpnet/mlp"
)

// ModelConfig describes how to build a network around a weight buffer.
// Activation is the legacy single setting; HiddenActivation and
// OutputActivation override it when present.
type ModelConfig struct {
	Layers           []int  `json:"layers"`
	OutputMode       string `json:"output_mode"`
	HiddenActivation string `json:"hidden_activation,omitempty"`
	OutputActivation string `json:"output_activation,omitempty"`
	Activation       string `json:"activation,omitempty"`
	Workers          int    `json:"workers,omitempty"`
}

// ParseArchitecture parses an architecture such as "784 128 10" or
// "784,128,10" into layer widths.
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.FieldsFunc(archStr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("parsing layer %d: %w", i, err)
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig checks the fields that do not need the weight buffer.
func ValidateConfig(config *ModelConfig) error {
	if len(config.Layers) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}
	for i, w := range config.Layers {
		if w <= 0 {
			return fmt.Errorf("layer %d must be positive, got %d", i, w)
		}
	}
	if _, err := config.Mode(); err != nil {
		return err
	}
	if config.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	_, err := config.Options()
	return err
}

// Mode parses OutputMode; an empty mode means regression.
func (c *ModelConfig) Mode() (mlp.OutputMode, error) {
	if c.OutputMode == "" {
		return mlp.Regression, nil
	}
	return mlp.ParseOutputMode(c.OutputMode)
}

// Options translates the activation and worker settings into mlp options.
func (c *ModelConfig) Options() ([]mlp.Option, error) {
	var opts []mlp.Option
	for _, f := range []struct {
		value string
		opt   func(mlp.Activation) mlp.Option
	}{
		{c.Activation, mlp.WithActivation},
		{c.HiddenActivation, mlp.WithHiddenActivation},
		{c.OutputActivation, mlp.WithOutputActivation},
	} {
		if f.value == "" {
			continue
		}
		a, err := mlp.ParseActivation(f.value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, f.opt(a))
	}
	if c.Workers > 0 {
		opts = append(opts, mlp.WithWorkers(c.Workers))
	}
	return opts, nil
}
