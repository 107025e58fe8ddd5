package mlp

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// layer is one transition: a read-only view of its weights and bias inside
// the caller's buffer, plus the resolved activation kernel (nil = identity).
type layer struct {
	w        blas64.General
	b        []float64
	activate func([]float64)
}

// Network is a validated, immutable multilayer perceptron. Predict and
// PredictBatch may be called concurrently as long as every call uses its
// own input and output buffers.
type Network struct {
	layout  *Layout
	layers  []layer
	mode    OutputMode
	hidden  Activation
	output  Activation
	workers int

	scratch sync.Pool
}

// scratch holds the ping-pong buffers for hidden layer outputs of one call.
type scratch struct {
	a, b []float64
}

type options struct {
	hidden, output, both *Activation
	workers              int
}

// Option configures New.
type Option func(*options)

// WithHiddenActivation sets the activation of every hidden layer.
func WithHiddenActivation(a Activation) Option {
	return func(o *options) { o.hidden = &a }
}

// WithOutputActivation sets the activation of the final layer.
func WithOutputActivation(a Activation) Option {
	return func(o *options) { o.output = &a }
}

// WithActivation sets hidden and output activation at once. The dedicated
// hidden/output options take precedence over it whatever the order.
func WithActivation(a Activation) Option {
	return func(o *options) { o.both = &a }
}

// WithWorkers splits PredictBatch rows across n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// New validates weights against layers and builds a Network that references
// weights without copying. The buffer must not be modified afterwards.
// Validation errors are returned unchanged.
func New(layers []int, weights []float64, mode OutputMode, opts ...Option) (*Network, error) {
	layout, err := Validate(layers, weights)
	if err != nil {
		return nil, err
	}
	if mode != Regression && mode != Classification {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown output mode %d", int(mode))}
	}

	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	hidden, output := Sigmoid, mode.defaultOutputActivation()
	if o.both != nil {
		hidden, output = *o.both, *o.both
	}
	if o.hidden != nil {
		hidden = *o.hidden
	}
	if o.output != nil {
		output = *o.output
	}
	if !hidden.valid() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown hidden activation %s", hidden)}
	}
	if !output.valid() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown output activation %s", output)}
	}
	if mode == Classification && !output.squashing() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("classification needs a sigmoid or tanh output, got %s", output)}
	}
	if o.workers < 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("workers must be positive, got %d", o.workers)}
	}

	net := &Network{
		layout:  layout,
		layers:  make([]layer, len(layout.Spans)),
		mode:    mode,
		hidden:  hidden,
		output:  output,
		workers: o.workers,
	}
	net.scratch.New = func() interface{} { return new(scratch) }

	last := len(layout.Spans) - 1
	for i, s := range layout.Spans {
		wEnd := s.WeightOffset + s.Rows*s.Cols
		bEnd := s.BiasOffset + s.BiasLen
		act := hidden
		if i == last {
			act = output
		}
		net.layers[i] = layer{
			w: blas64.General{
				Rows:   s.Rows,
				Cols:   s.Cols,
				Stride: s.Cols,
				Data:   weights[s.WeightOffset:wEnd:wEnd],
			},
			b:        weights[s.BiasOffset:bEnd:bEnd],
			activate: act.kernel(),
		}
	}
	return net, nil
}

// NumberOfLayers counts input, hidden and output layers.
func (n *Network) NumberOfLayers() int { return n.layout.NumberOfLayers }

// FeatureVectorSize is the number of inputs per example.
func (n *Network) FeatureVectorSize() int { return n.layout.FeatureVectorSize }

// PredictionVectorSize is the number of outputs per example.
func (n *Network) PredictionVectorSize() int { return n.layout.PredictionVectorSize }

func (n *Network) OutputMode() OutputMode       { return n.mode }
func (n *Network) HiddenActivation() Activation { return n.hidden }
func (n *Network) OutputActivation() Activation { return n.output }

// Layout returns a copy of the validated layout.
func (n *Network) Layout() Layout {
	l := *n.layout
	l.Spans = append([]LayerSpan(nil), n.layout.Spans...)
	return l
}

// LayerWeights returns the weight matrix of transition i as a view into the
// weight buffer. It must be treated as read-only.
func (n *Network) LayerWeights(i int) mat.Matrix {
	w := n.layers[i].w
	return mat.NewDense(w.Rows, w.Cols, w.Data)
}

// LayerBias returns the bias of transition i as a read-only view.
func (n *Network) LayerBias(i int) mat.Vector {
	b := n.layers[i].b
	return mat.NewVecDense(len(b), b)
}

// Predict computes the output for one feature vector into prediction.
// Nothing is written when an error is returned.
func (n *Network) Predict(feature, prediction []float64) error {
	if len(feature) != n.layout.FeatureVectorSize {
		return &DimensionMismatchError{Arg: "feature vector", Want: n.layout.FeatureVectorSize, Got: len(feature)}
	}
	if len(prediction) != n.layout.PredictionVectorSize {
		return &DimensionMismatchError{Arg: "prediction vector", Want: n.layout.PredictionVectorSize, Got: len(prediction)}
	}
	n.forward(feature, 1, prediction)
	return nil
}

// PredictBatch computes predictions for a row-major feature matrix. Row i of
// predictions equals Predict of row i of features exactly. The two buffers
// must not overlap. Nothing is written when an error is returned.
func (n *Network) PredictBatch(features, predictions []float64) error {
	fs, ps := n.layout.FeatureVectorSize, n.layout.PredictionVectorSize
	if len(features)%fs != 0 {
		return &DimensionMismatchError{Arg: "feature matrix", Want: fs, Got: len(features), Multiple: true}
	}
	rows := len(features) / fs
	if len(predictions) != rows*ps {
		return &DimensionMismatchError{Arg: "prediction matrix", Want: rows * ps, Got: len(predictions)}
	}
	if rows == 0 {
		return nil
	}

	workers := min(n.workers, rows)
	if workers == 1 {
		n.forward(features, rows, predictions)
		return nil
	}
	chunk := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			n.forward(features[start*fs:end*fs], end-start, predictions[start*ps:end*ps])
		}(start, end)
	}
	wg.Wait()
	return nil
}

// forward runs rows examples through every layer. Each layer is one GEMM
// (Z = bias + X*W) followed by the activation kernel. Predict goes through
// here with rows == 1, so single and batched results share one code path.
func (n *Network) forward(x []float64, rows int, dst []float64) {
	last := len(n.layers) - 1
	var s *scratch
	if last > 0 {
		s = n.getScratch(rows * n.layout.MaxHiddenWidth)
		defer n.scratch.Put(s)
	}

	in, inCols := x, n.layout.FeatureVectorSize
	for i := range n.layers {
		l := &n.layers[i]
		cols := l.w.Cols
		var out []float64
		switch {
		case i == last:
			out = dst[:rows*cols]
		case i%2 == 0:
			out = s.a[:rows*cols]
		default:
			out = s.b[:rows*cols]
		}

		for r := 0; r < rows; r++ {
			copy(out[r*cols:(r+1)*cols], l.b)
		}
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas64.General{Rows: rows, Cols: inCols, Stride: inCols, Data: in},
			l.w,
			1,
			blas64.General{Rows: rows, Cols: cols, Stride: cols, Data: out},
		)
		if l.activate != nil {
			l.activate(out)
		}
		in, inCols = out, cols
	}
}

func (n *Network) getScratch(size int) *scratch {
	s := n.scratch.Get().(*scratch)
	if cap(s.a) < size {
		s.a = make([]float64, size)
		s.b = make([]float64, size)
	}
	s.a, s.b = s.a[:size], s.b[:size]
	return s
}
