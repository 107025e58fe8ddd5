package utils

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mlpnet/tensor"
)

// LoadFeatures reads a feature matrix from a .json file (an array of rows or
// a single flat row) or from CSV (one row per line, no header).
func LoadFeatures(path string) (*tensor.Tensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening features: %w", err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadFeaturesJSON(f)
	}
	return ReadFeaturesCSV(f)
}

// ReadFeaturesJSON accepts either [[...], [...]] or [...].
func ReadFeaturesJSON(r io.Reader) (*tensor.Tensor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err == nil {
		return tensor.FromRows(rows)
	}
	var row []float64
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("parsing features json: %w", err)
	}
	return tensor.FromRows([][]float64{row})
}

// ReadFeaturesCSV parses one feature vector per record.
func ReadFeaturesCSV(r io.Reader) (*tensor.Tensor, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.TrimLeadingSpace = true
	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		row := make([]float64, len(record))
		for i, s := range record {
			row[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errInvalidLine{lineNum: len(rows) + 1, column: i, err: err}
			}
		}
		rows = append(rows, row)
	}
	return tensor.FromRows(rows)
}

type errInvalidLine struct {
	lineNum int
	column  int
	err     error
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, column %d: %v", e.lineNum, e.column, e.err)
}

func (e errInvalidLine) Unwrap() error { return e.err }
