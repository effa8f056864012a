package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "all correct",
			yTrue: mat.NewVecDense(4, []float64{0, 1, 1, 0}),
			yPred: mat.NewVecDense(4, []float64{0, 1, 1, 0}),
			want:  1.0,
		},
		{
			name:  "half correct",
			yTrue: mat.NewVecDense(4, []float64{0, 1, 1, 0}),
			yPred: mat.NewVecDense(4, []float64{0, 1, 0, 1}),
			want:  0.5,
		},
		{
			name:  "none correct",
			yTrue: mat.NewVecDense(2, []float64{0, 1}),
			yPred: mat.NewVecDense(2, []float64{1, 0}),
			want:  0.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(2, []float64{0, 1}),
			yPred:   mat.NewVecDense(3, []float64{0, 1, 1}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.yTrue, tt.yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrecisionRecallF1(t *testing.T) {
	// tp=2, fp=1, fn=1 for posLabel=1
	yTrue := mat.NewVecDense(6, []float64{1, 1, 1, 0, 0, 0})
	yPred := mat.NewVecDense(6, []float64{1, 1, 0, 1, 0, 0})

	prec, err := Precision(yTrue, yPred, 1)
	if err != nil {
		t.Fatalf("Precision() unexpected error: %v", err)
	}
	if math.Abs(prec-2.0/3.0) > 1e-10 {
		t.Errorf("Precision() = %v, want %v", prec, 2.0/3.0)
	}

	rec, err := Recall(yTrue, yPred, 1)
	if err != nil {
		t.Fatalf("Recall() unexpected error: %v", err)
	}
	if math.Abs(rec-2.0/3.0) > 1e-10 {
		t.Errorf("Recall() = %v, want %v", rec, 2.0/3.0)
	}

	f1, err := F1Score(yTrue, yPred, 1)
	if err != nil {
		t.Fatalf("F1Score() unexpected error: %v", err)
	}
	if math.Abs(f1-2.0/3.0) > 1e-10 {
		t.Errorf("F1Score() = %v, want %v", f1, 2.0/3.0)
	}
}

func TestPrecisionUndefined(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(err error) { warned = append(warned, err) })
	defer errors.SetWarningHandler(nil)

	// no predicted positives
	yTrue := mat.NewVecDense(3, []float64{1, 0, 0})
	yPred := mat.NewVecDense(3, []float64{0, 0, 0})

	got, err := Precision(yTrue, yPred, 1)
	if err != nil {
		t.Fatalf("Precision() unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("Precision() = %v, want 0 for undefined metric", got)
	}
	if len(warned) != 1 {
		t.Fatalf("expected one warning, got %d", len(warned))
	}
	var w *errors.UndefinedMetricWarning
	if !errors.As(warned[0], &w) {
		t.Errorf("warning has type %T, want *UndefinedMetricWarning", warned[0])
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := mat.NewVecDense(6, []float64{0, 0, 1, 1, 2, 2})
	yPred := mat.NewVecDense(6, []float64{0, 1, 1, 1, 2, 0})

	cm, labels, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("ConfusionMatrix() unexpected error: %v", err)
	}

	wantLabels := []float64{0, 1, 2}
	if len(labels) != len(wantLabels) {
		t.Fatalf("labels = %v, want %v", labels, wantLabels)
	}
	for i := range labels {
		if labels[i] != wantLabels[i] {
			t.Fatalf("labels = %v, want %v", labels, wantLabels)
		}
	}

	want := [][]float64{
		{1, 1, 0},
		{0, 2, 0},
		{1, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if cm.At(i, j) != want[i][j] {
				t.Errorf("cm[%d][%d] = %v, want %v", i, j, cm.At(i, j), want[i][j])
			}
		}
	}
}
