package mlp

import "fmt"

// ConfigurationError reports a malformed layer topology or an unusable
// activation/output-mode combination.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "mlp: invalid configuration: " + e.Reason
}

// WeightCountMismatchError reports a weight buffer whose length differs from
// CountWeights of the declared topology.
type WeightCountMismatchError struct {
	Want int
	Got  int
}

func (e *WeightCountMismatchError) Error() string {
	return fmt.Sprintf("mlp: weight count mismatch: expected %d, got %d", e.Want, e.Got)
}

// DimensionMismatchError reports an input or output buffer whose length does
// not fit the network. When Multiple is set, Want is the row width the length
// must be divisible by.
type DimensionMismatchError struct {
	Arg      string
	Want     int
	Got      int
	Multiple bool
}

func (e *DimensionMismatchError) Error() string {
	if e.Multiple {
		return fmt.Sprintf("mlp: %s has %d elements, expected a multiple of %d", e.Arg, e.Got, e.Want)
	}
	return fmt.Sprintf("mlp: %s has %d elements, expected %d", e.Arg, e.Got, e.Want)
}
