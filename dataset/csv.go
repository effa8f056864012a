package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// CSVOptions controls how LoadCSV interprets a file.
type CSVOptions struct {
	// HasHeader skips the first record and uses it for column names.
	HasHeader bool

	// TargetColumn is the zero-based index of the target column. A
	// negative value means the last column.
	TargetColumn int

	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// DefaultCSVOptions reads a comma-separated file with a header row whose
// last column is the target.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{HasHeader: true, TargetColumn: -1}
}

// CSVData is the parsed content of a dataset file.
type CSVData struct {
	X           *mat.Dense
	Y           *mat.VecDense
	FeatureCols []string
	TargetCol   string
}

// LoadCSV reads a numeric CSV file into a feature matrix and target
// vector. Parse failures report the offending row and column.
func LoadCSV(path string, opts CSVOptions) (*CSVData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	return ReadCSV(f, opts)
}

// ReadCSV is LoadCSV for an already-open reader.
func ReadCSV(r io.Reader, opts CSVOptions) (*CSVData, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read csv")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.ReadCSV", "empty file", errors.ErrEmptyData)
	}

	var header []string
	if opts.HasHeader {
		header = records[0]
		records = records[1:]
		if len(records) == 0 {
			return nil, errors.NewModelError("dataset.ReadCSV", "header only, no rows", errors.ErrEmptyData)
		}
	}

	nCols := len(records[0])
	if nCols < 2 {
		return nil, errors.NewValueError("dataset.ReadCSV", "need at least one feature column and one target column")
	}

	target := opts.TargetColumn
	if target < 0 {
		target = nCols - 1
	}
	if target >= nCols {
		return nil, errors.NewValueError("dataset.ReadCSV", "target column out of range")
	}

	data := &CSVData{
		X: mat.NewDense(len(records), nCols-1, nil),
		Y: mat.NewVecDense(len(records), nil),
	}
	if header != nil {
		for j, name := range header {
			if j == target {
				data.TargetCol = name
			} else {
				data.FeatureCols = append(data.FeatureCols, name)
			}
		}
	}

	for i, rec := range records {
		if len(rec) != nCols {
			return nil, errors.Newf("dataset: row %d has %d columns, expected %d", i+1, len(rec), nCols)
		}
		col := 0
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset: row %d column %d: %q is not numeric", i+1, j+1, field)
			}
			if j == target {
				data.Y.SetVec(i, v)
			} else {
				data.X.Set(i, col, v)
				col++
			}
		}
	}

	return data, nil
}
