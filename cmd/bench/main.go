package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"mlpnet/mlp"
	"mlpnet/utils"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// parseCSVInts parses a comma-separated list of integers
func parseCSVInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func uniform(n int, lo, hi float64, seed uint64) []float64 {
	dist := distuv.Uniform{Min: lo, Max: hi, Src: rand.NewSource(seed)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// measure averages fn over iters after warmup runs
func measure(fn func() error, iters, warmup int) (time.Duration, error) {
	for i := 0; i < warmup; i++ {
		if err := fn(); err != nil {
			return 0, err
		}
	}
	start := time.Now()
	for i := 0; i < iters; i++ {
		if err := fn(); err != nil {
			return 0, err
		}
	}
	denom := time.Duration(iters)
	if iters == 0 {
		denom = 1
	}
	return time.Since(start) / denom, nil
}

type result struct {
	arch    string
	workers int
	mode    string
	rows    int
	perCall time.Duration
	match   bool
}

func runArch(layers []int, workers, rows, iters, warmup int) ([]result, error) {
	net, err := mlp.New(layers, uniform(mlp.CountWeights(layers), -0.1, 0.1, 1), mlp.Classification,
		mlp.WithHiddenActivation(mlp.ReLU), mlp.WithWorkers(workers))
	if err != nil {
		return nil, err
	}
	fs, ps := net.FeatureVectorSize(), net.PredictionVectorSize()
	x := uniform(rows*fs, 0, 1, 2)
	single := make([]float64, rows*ps)
	batched := make([]float64, rows*ps)

	perRow, err := measure(func() error {
		for r := 0; r < rows; r++ {
			if err := net.Predict(x[r*fs:(r+1)*fs], single[r*ps:(r+1)*ps]); err != nil {
				return err
			}
		}
		return nil
	}, iters, warmup)
	if err != nil {
		return nil, err
	}
	perBatch, err := measure(func() error { return net.PredictBatch(x, batched) }, iters, warmup)
	if err != nil {
		return nil, err
	}

	arch := strings.Trim(strings.Join(strings.Fields(fmt.Sprint(layers)), "-"), "[]")
	match := floats.Equal(single, batched)
	return []result{
		{arch, workers, "predict", rows, perRow, match},
		{arch, workers, "batch", rows, perBatch, match},
	}, nil
}

func main() {
	var archs string
	var workersCSV string
	var outPath string
	var rows, iters, warmup int

	flag.StringVar(&archs, "arch", "784,128,32,10;64,64,1", "Semicolon-separated list of architectures (e.g., 784,128,10;16,8,1)")
	flag.StringVar(&workersCSV, "workers", "1,"+strconv.Itoa(runtime.NumCPU()), "Comma-separated list of batch worker counts")
	flag.StringVar(&outPath, "out", "bench_results.csv", "Output CSV path")
	flag.IntVar(&rows, "rows", 256, "Rows per batch")
	flag.IntVar(&iters, "iters", 50, "Iterations per (arch, mode) for averaging")
	flag.IntVar(&warmup, "warmup", 5, "Warmup runs per (arch, mode) before timing")
	flag.Parse()

	workerCounts, err := parseCSVInts(workersCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -workers: %v\n", err)
		os.Exit(2)
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"arch", "workers", "mode", "rows", "us_per_call", "us_per_row", "batch_matches_predict"}); err != nil {
		fmt.Fprintf(os.Stderr, "writing csv header: %v\n", err)
		os.Exit(1)
	}

	for _, a := range strings.Split(archs, ";") {
		layers, err := utils.ParseArchitecture(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad architecture %q: %v\n", a, err)
			os.Exit(2)
		}
		for _, workers := range workerCounts {
			results, err := runArch(layers, workers, rows, iters, warmup)
			if err != nil {
				fmt.Fprintf(os.Stderr, "arch %v workers %d: %v\n", layers, workers, err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%-16s workers=%-3d %-8s %10.1fus/call\n", r.arch, r.workers, r.mode, utils.DurationUS(r.perCall))
				if !r.match {
					fmt.Fprintf(os.Stderr, "WARNING: batch output differs from per-row output for %s\n", r.arch)
				}
				perRow := utils.DurationUS(r.perCall) / float64(r.rows)
				err := w.Write([]string{
					r.arch,
					strconv.Itoa(r.workers),
					r.mode,
					strconv.Itoa(r.rows),
					strconv.FormatFloat(utils.DurationUS(r.perCall), 'f', 3, 64),
					strconv.FormatFloat(perRow, 'f', 3, 64),
					strconv.FormatBool(r.match),
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "writing csv: %v\n", err)
					os.Exit(1)
				}
			}
		}
	}
}
