package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	r, c := XScaled.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("transformed shape = (%d, %d), want (4, 2)", r, c)
	}

	// each column has mean 0 and unit population std
	for j := 0; j < c; j++ {
		var mean float64
		for i := 0; i < r; i++ {
			mean += XScaled.At(i, j)
		}
		mean /= float64(r)
		if math.Abs(mean) > 1e-10 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}

		var variance float64
		for i := 0; i < r; i++ {
			d := XScaled.At(i, j) - mean
			variance += d * d
		}
		variance /= float64(r)
		if math.Abs(variance-1) > 1e-10 {
			t.Errorf("column %d variance = %v, want 1", j, variance)
		}
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, -5,
		2, 0,
		6, 5,
	})

	scaler := NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}
	XBack, err := scaler.InverseTransform(XScaled)
	if err != nil {
		t.Fatalf("InverseTransform() unexpected error: %v", err)
	}

	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.Abs(XBack.At(i, j)-X.At(i, j)) > 1e-10 {
				t.Errorf("round trip [%d][%d] = %v, want %v", i, j, XBack.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerStdOnly(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{10, 12, 14})

	scaler := NewStandardScaler(false, true)
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	if scaler.Mean[0] != 0 {
		t.Errorf("Mean[0] = %v, want 0 when the mean is not subtracted", scaler.Mean[0])
	}

	// the scale is still the population std around the true mean 12,
	// sqrt(8/3), not the root mean square of the raw values
	wantScale := math.Sqrt(8.0 / 3.0)
	if math.Abs(scaler.Scale[0]-wantScale) > 1e-10 {
		t.Errorf("Scale[0] = %v, want %v", scaler.Scale[0], wantScale)
	}

	want := 10 / wantScale
	if math.Abs(XScaled.At(0, 0)-want) > 1e-10 {
		t.Errorf("XScaled[0][0] = %v, want %v", XScaled.At(0, 0), want)
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	scaler := NewStandardScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	// constant columns become 0, not NaN
	for i := 0; i < 3; i++ {
		got := XScaled.At(i, 0)
		if got != 0 {
			t.Errorf("constant column value = %v, want 0", got)
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := scaler.Transform(X)
	if err == nil {
		t.Fatal("Transform() before Fit() should fail")
	}
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("error has type %T, want *NotFittedError", err)
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	_, err := scaler.Transform(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	if err == nil {
		t.Fatal("Transform() with wrong feature count should fail")
	}
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("error has type %T, want *DimensionError", err)
	}
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 100,
		5, 200,
		10, 300,
	})

	scaler := NewMinMaxScalerDefault()
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}

	want := [][]float64{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(XScaled.At(i, j)-want[i][j]) > 1e-10 {
				t.Errorf("scaled [%d][%d] = %v, want %v", i, j, XScaled.At(i, j), want[i][j])
			}
		}
	}
}

func TestMinMaxScalerCustomRange(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 10})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	XScaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}
	if XScaled.At(0, 0) != -1 || XScaled.At(1, 0) != 1 {
		t.Errorf("scaled = [%v, %v], want [-1, 1]", XScaled.At(0, 0), XScaled.At(1, 0))
	}
}

func TestScalerDoesNotMutateInput(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 3})

	scaler := NewStandardScalerDefault()
	if _, err := scaler.FitTransform(X); err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}
	if X.At(0, 0) != 1 || X.At(1, 0) != 3 {
		t.Error("FitTransform() mutated its input")
	}
}
