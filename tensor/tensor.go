package tensor

import "fmt"

// Tensor is a simple row-major array backed by a flat []float64. Feature
// and prediction matrices are 2-D tensors of shape [rows, cols].
type Tensor struct {
	Data  []float64
	Shape []int
}

// New allocates a Tensor of given shape (product of dims = len(Data)).
func New(shape ...int) *Tensor {
	total := 1
	for _, d := range shape {
		total *= d
	}
	return &Tensor{
		Data:  make([]float64, total),
		Shape: append([]int(nil), shape...),
	}
}

// NewWithData creates a 1-D tensor from a copy of data.
func NewWithData(data []float64) *Tensor {
	return &Tensor{
		Data:  append([]float64(nil), data...),
		Shape: []int{len(data)},
	}
}

// NewMatrix wraps data as a rows x cols matrix without copying.
func NewMatrix(rows, cols int, data []float64) (*Tensor, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("matrix %dx%d needs %d values, got %d", rows, cols, rows*cols, len(data))
	}
	return &Tensor{Data: data, Shape: []int{rows, cols}}, nil
}

// FromRows stacks equally long rows into a matrix.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	out := New(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(r), cols)
		}
		copy(out.Data[i*cols:], r)
	}
	return out, nil
}

// Rows is the leading dimension; a 1-D tensor is a single row.
func (t *Tensor) Rows() int {
	if len(t.Shape) == 1 {
		return 1
	}
	return t.Shape[0]
}

// Cols is the trailing dimension.
func (t *Tensor) Cols() int {
	return t.Shape[len(t.Shape)-1]
}

// Row returns row i as a view into Data.
func (t *Tensor) Row(i int) []float64 {
	c := t.Cols()
	if i < 0 || i >= t.Rows() {
		panic(fmt.Sprintf("Row: index %d out of bounds (shape: %v)", i, t.Shape))
	}
	return t.Data[i*c : (i+1)*c : (i+1)*c]
}

// Add returns a+b (same shape), or error if shapes differ.
func Add(a, b *Tensor) (*Tensor, error) {
	if !sameShape(a, b) {
		return nil, fmt.Errorf("shape mismatch: %v vs %v", a.Shape, b.Shape)
	}
	out := New(a.Shape...)
	for i := range a.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out, nil
}

// AddRowVector adds v to every row of a 2-D tensor in place.
func (t *Tensor) AddRowVector(v []float64) error {
	if len(t.Shape) != 2 || t.Shape[1] != len(v) {
		return fmt.Errorf("cannot broadcast %d values over shape %v", len(v), t.Shape)
	}
	for r := 0; r < t.Shape[0]; r++ {
		row := t.Row(r)
		for j := range row {
			row[j] += v[j]
		}
	}
	return nil
}

// MatMul returns a×b (2-D only), or error if dims mismatch.
func MatMul(a, b *Tensor) (*Tensor, error) {
	if len(a.Shape) != 2 || len(b.Shape) != 2 {
		return nil, fmt.Errorf("MatMul requires 2-D tensors, got %v and %v", a.Shape, b.Shape)
	}
	r, k := a.Shape[0], a.Shape[1]
	k2, c := b.Shape[0], b.Shape[1]
	if k != k2 {
		return nil, fmt.Errorf("inner dimensions must match: %d vs %d", k, k2)
	}
	out := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum := 0.0
			for t := 0; t < k; t++ {
				sum += a.Data[i*k+t] * b.Data[t*c+j]
			}
			out.Data[i*c+j] = sum
		}
	}
	return out, nil
}

// Apply maps fn over every element in place.
func (t *Tensor) Apply(fn func(float64) float64) {
	for i, v := range t.Data {
		t.Data[i] = fn(v)
	}
}

func sameShape(a, b *Tensor) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}
