package mlp

import "fmt"

// LayerSpan locates one layer transition inside the flat weight buffer.
// The weight block is Rows x Cols row-major (row = input unit, column =
// output unit) and is immediately followed by the bias block.
type LayerSpan struct {
	WeightOffset int
	Rows, Cols   int
	BiasOffset   int
	BiasLen      int
}

// Layout is the validated mapping of a topology onto a weight buffer.
type Layout struct {
	Spans                []LayerSpan
	NumberOfLayers       int
	FeatureVectorSize    int
	PredictionVectorSize int
	// MaxHiddenWidth is the widest intermediate layer, 0 without hidden layers.
	MaxHiddenWidth int
}

// CountWeights returns the number of weights (biases included) a buffer for
// the given topology must hold. Configs with fewer than two layers need none.
func CountWeights(layers []int) int {
	n := 0
	for i := 1; i < len(layers); i++ {
		n += (layers[i-1] + 1) * layers[i]
	}
	return n
}

func checkTopology(layers []int) error {
	if len(layers) < 2 {
		return &ConfigurationError{Reason: fmt.Sprintf("need at least 2 layers (input and output), got %d", len(layers))}
	}
	for i, w := range layers {
		if w <= 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("layer %d has non-positive width %d", i, w)}
		}
	}
	return nil
}

// Validate checks weights against the declared topology and partitions the
// buffer into per-transition spans.
func Validate(layers []int, weights []float64) (*Layout, error) {
	if err := checkTopology(layers); err != nil {
		return nil, err
	}
	if want := CountWeights(layers); len(weights) != want {
		return nil, &WeightCountMismatchError{Want: want, Got: len(weights)}
	}

	l := &Layout{
		Spans:                make([]LayerSpan, len(layers)-1),
		NumberOfLayers:       len(layers),
		FeatureVectorSize:    layers[0],
		PredictionVectorSize: layers[len(layers)-1],
	}
	off := 0
	for i := range l.Spans {
		in, out := layers[i], layers[i+1]
		l.Spans[i] = LayerSpan{
			WeightOffset: off,
			Rows:         in,
			Cols:         out,
			BiasOffset:   off + in*out,
			BiasLen:      out,
		}
		off += (in + 1) * out
	}
	for _, w := range layers[1 : len(layers)-1] {
		if w > l.MaxHiddenWidth {
			l.MaxHiddenWidth = w
		}
	}
	return l, nil
}

// RepackNeuronMajor converts a buffer stored neuron by neuron (for every
// output unit: its bias, then one weight per input unit) into the layout
// Validate expects. The input is not modified.
func RepackNeuronMajor(layers []int, weights []float64) ([]float64, error) {
	layout, err := Validate(layers, weights)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(weights))
	src := 0
	for _, s := range layout.Spans {
		for j := 0; j < s.Cols; j++ {
			out[s.BiasOffset+j] = weights[src]
			src++
			for i := 0; i < s.Rows; i++ {
				out[s.WeightOffset+i*s.Cols+j] = weights[src]
				src++
			}
		}
	}
	return out, nil
}
