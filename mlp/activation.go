package mlp

import (
	"fmt"
	"math"
	"strings"
)

// Activation selects the element-wise nonlinearity applied after a layer's
// affine transform.
type Activation int

const (
	Sigmoid Activation = iota
	Tangent
	ReLU
	Identity
)

// None is an alias for Identity.
const None = Identity

var activationNames = map[Activation]string{
	Sigmoid:  "sigmoid",
	Tangent:  "tanh",
	ReLU:     "relu",
	Identity: "identity",
}

// ActivationLookup maps every accepted spelling to its Activation.
var ActivationLookup = map[string]Activation{
	"sigmoid":  Sigmoid,
	"logistic": Sigmoid,
	"tanh":     Tangent,
	"tangent":  Tangent,
	"relu":     ReLU,
	"identity": Identity,
	"none":     Identity,
	"linear":   Identity,
}

func (a Activation) String() string {
	if s, ok := activationNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

func (a Activation) valid() bool {
	_, ok := activationNames[a]
	return ok
}

// squashing reports whether a bounds its output, as classification needs.
func (a Activation) squashing() bool {
	return a == Sigmoid || a == Tangent
}

// ParseActivation resolves a case-insensitive activation name.
func ParseActivation(s string) (Activation, error) {
	a, ok := ActivationLookup[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("invalid activation: %q", s)
	}
	return a, nil
}

// Apply returns the activation of a single value.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case Sigmoid:
		return sigmoid(x)
	case Tangent:
		return math.Tanh(x)
	case ReLU:
		return relu(x)
	default:
		return x
	}
}

// kernel resolves a to an in-place slice transform once, so forward loops
// never switch on the enum per element. Identity has no kernel.
func (a Activation) kernel() func([]float64) {
	switch a {
	case Sigmoid:
		return func(v []float64) {
			for i, x := range v {
				v[i] = sigmoid(x)
			}
		}
	case Tangent:
		return func(v []float64) {
			for i, x := range v {
				v[i] = math.Tanh(x)
			}
		}
	case ReLU:
		return func(v []float64) {
			for i, x := range v {
				v[i] = relu(x)
			}
		}
	default:
		return nil
	}
}

// sigmoid never evaluates exp of a positive argument, so it saturates at 0
// and 1 instead of overflowing.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// OutputMode says how the final layer is interpreted.
type OutputMode int

const (
	// Regression output is unbounded.
	Regression OutputMode = iota
	// Classification output is squashed into [0,1] or [-1,1].
	Classification
)

func (m OutputMode) String() string {
	switch m {
	case Regression:
		return "regression"
	case Classification:
		return "classification"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// ParseOutputMode resolves "regression" or "classification".
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regression":
		return Regression, nil
	case "classification":
		return Classification, nil
	default:
		return 0, fmt.Errorf("invalid output mode: %q", s)
	}
}

// defaultOutputActivation is the output nonlinearity used when none is set.
func (m OutputMode) defaultOutputActivation() Activation {
	if m == Classification {
		return Sigmoid
	}
	return Identity
}
