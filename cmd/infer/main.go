// mlp-infer: forward propagation of a trained network over feature vectors
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"mlpnet/mlp"
	"mlpnet/tensor"
	"mlpnet/utils"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	modelFile = flag.String("model", "", "Model JSON file")
	inputFile = flag.String("input", "", "Feature file (.json rows or CSV)")
	batch     = flag.Bool("batch", true, "Use PredictBatch instead of one Predict per row")
	workers   = flag.Int("workers", 0, "Batch workers (0 keeps the model setting)")
	verbose   = flag.Bool("verbose", false, "Print layer matrices and timing")
	topK      = flag.Int("topk", 3, "Top outputs to show for classification")
	seed      = flag.Uint64("seed", 42, "Random seed for demo mode")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	var stats utils.TimingStats
	start := time.Now()

	model, err := loadOrDemo()
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	if *workers > 0 {
		model.Config.Workers = *workers
	}
	net, err := model.Build()
	if err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}
	utils.Track(&stats.ModelLoadTime, start)
	fmt.Printf("Network %v, %s output (hidden %s, output %s)\n",
		model.Config.Layers, net.OutputMode(), net.HiddenActivation(), net.OutputActivation())
	if *verbose {
		dumpLayers(net)
	}

	t0 := time.Now()
	features, err := loadInput(net.FeatureVectorSize())
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}
	utils.Track(&stats.DataLoadingTime, t0)
	fmt.Printf("Input: %d rows x %d features\n", features.Rows(), features.Cols())

	predictions := tensor.New(features.Rows(), net.PredictionVectorSize())
	t0 = time.Now()
	if *batch {
		err = net.PredictBatch(features.Data, predictions.Data)
		utils.Track(&stats.BatchTime, t0)
	} else {
		for r := 0; r < features.Rows() && err == nil; r++ {
			err = net.Predict(features.Row(r), predictions.Row(r))
		}
		utils.Track(&stats.PredictTime, t0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stats.TotalTime = time.Since(start)

	showResults(net, predictions, *topK)
	utils.PrintTimingStats(&stats, features.Rows())
}

func loadOrDemo() (*utils.ModelFile, error) {
	if *modelFile != "" {
		return utils.LoadModel(*modelFile)
	}
	fmt.Println("No model file. Running demo mode...")
	layers := []int{16, 32, 8, 3}
	return &utils.ModelFile{
		Version: "demo",
		Config: utils.ModelConfig{
			Layers:           layers,
			OutputMode:       mlp.Classification.String(),
			HiddenActivation: mlp.ReLU.String(),
		},
		Weights: randomArray(mlp.CountWeights(layers), float64(layers[0])),
	}, nil
}

// randomArray draws uniform weights scaled by fan-in.
func randomArray(size int, v float64) []float64 {
	dist := distuv.Uniform{
		Min: -1 / v,
		Max: 1 / v,
		Src: rand.NewSource(*seed),
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = dist.Rand()
	}
	return data
}

func loadInput(width int) (*tensor.Tensor, error) {
	if *inputFile != "" {
		return utils.LoadFeatures(*inputFile)
	}
	dist := distuv.Uniform{Min: 0, Max: 1, Src: rand.NewSource(*seed + 1)}
	rows := 4
	data := make([]float64, rows*width)
	for i := range data {
		data[i] = dist.Rand()
	}
	return tensor.NewMatrix(rows, width, data)
}

func dumpLayers(net *mlp.Network) {
	for i := 0; i < net.NumberOfLayers()-1; i++ {
		w := net.LayerWeights(i)
		r, c := w.Dims()
		fmt.Printf("\nLayer %d weights (%dx%d):\n%v\n", i, r, c, mat.Formatted(w, mat.Prefix(""), mat.Excerpt(3)))
		fmt.Printf("Layer %d bias:\n%v\n", i, mat.Formatted(net.LayerBias(i).T(), mat.Excerpt(3)))
	}
}

func showResults(net *mlp.Network, predictions *tensor.Tensor, k int) {
	for r := 0; r < predictions.Rows(); r++ {
		row := predictions.Row(r)
		fmt.Printf("\nRow %d: %.6f\n", r, row)
		if net.OutputMode() != mlp.Classification || len(row) < 2 {
			continue
		}
		fmt.Printf("  best: %d\n", floats.MaxIdx(row))
		for i, idx := range topKIndices(row, k) {
			fmt.Printf("  %d. Output %d: %.4f\n", i+1, idx, row[idx])
		}
	}
}

func topKIndices(vals []float64, k int) []int {
	if k > len(vals) {
		k = len(vals)
	}
	indices := make([]int, len(vals))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool { return vals[indices[a]] > vals[indices[b]] })
	return indices[:k]
}
