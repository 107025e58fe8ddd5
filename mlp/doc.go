// Package mlp evaluates pre-trained multilayer perceptrons.
//
// A network is described by its layer widths (input first, output last) and
// one flat weight buffer. For every transition i -> i+1 the buffer holds the
// layers[i] x layers[i+1] weight matrix in row-major order followed by the
// layers[i+1] biases. CountWeights gives the required length, Validate
// partitions a buffer, and New builds a Network that predicts single vectors
// or row-major batches into caller-owned buffers.
package mlp
