package mlp

import (
	"strconv"
	"testing"
)

var benchLayers = []int{784, 128, 32, 10}

func benchNetwork(b *testing.B, opts ...Option) *Network {
	net, err := New(benchLayers, randomWeights(benchLayers, 1), Classification, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return net
}

func BenchmarkPredict(b *testing.B) {
	net := benchNetwork(b, WithHiddenActivation(ReLU))
	x := randomFeatures(net.FeatureVectorSize(), 2)
	out := make([]float64, net.PredictionVectorSize())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = net.Predict(x, out)
	}
}

func BenchmarkPredictRows(b *testing.B) {
	net := benchNetwork(b, WithHiddenActivation(ReLU))
	rows := 256
	fs, ps := net.FeatureVectorSize(), net.PredictionVectorSize()
	x := randomFeatures(rows*fs, 3)
	out := make([]float64, rows*ps)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for r := 0; r < rows; r++ {
			_ = net.Predict(x[r*fs:(r+1)*fs], out[r*ps:(r+1)*ps])
		}
	}
}

func BenchmarkPredictBatch(b *testing.B) {
	for _, workers := range []int{1, 4} {
		net := benchNetwork(b, WithHiddenActivation(ReLU), WithWorkers(workers))
		rows := 256
		x := randomFeatures(rows*net.FeatureVectorSize(), 3)
		out := make([]float64, rows*net.PredictionVectorSize())
		b.Run("workers="+strconv.Itoa(workers), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = net.PredictBatch(x, out)
			}
		})
	}
}
