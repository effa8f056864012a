package linear

import (
	"bytes"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

func TestLinearRegressionFitPredict(t *testing.T) {
	// y = 2x, no noise
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	model := NewLinearRegression()
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if w := model.GetWeights(); math.Abs(w[0]-2) > 1e-8 {
		t.Errorf("weight = %v, want 2", w[0])
	}
	if b := model.GetIntercept(); math.Abs(b) > 1e-8 {
		t.Errorf("intercept = %v, want 0", b)
	}

	XTest := mat.NewDense(2, 1, []float64{5, 6})
	pred, err := model.Predict(XTest)
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	want := []float64{10, 12}
	for i, w := range want {
		if math.Abs(pred.At(i, 0)-w) > 1e-8 {
			t.Errorf("prediction %d = %v, want %v", i, pred.At(i, 0), w)
		}
	}
}

func TestLinearRegressionWithIntercept(t *testing.T) {
	// y = 3x + 5
	X := mat.NewDense(5, 1, []float64{0, 1, 2, 3, 4})
	y := mat.NewDense(5, 1, []float64{5, 8, 11, 14, 17})

	model := NewLinearRegression()
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if w := model.GetWeights(); math.Abs(w[0]-3) > 1e-8 {
		t.Errorf("weight = %v, want 3", w[0])
	}
	if b := model.GetIntercept(); math.Abs(b-5) > 1e-8 {
		t.Errorf("intercept = %v, want 5", b)
	}

	score, err := model.Score(X, y)
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}
	if math.Abs(score-1) > 1e-8 {
		t.Errorf("Score() = %v, want 1", score)
	}
}

func TestLinearRegressionMultiFeature(t *testing.T) {
	// y = x1 + 2*x2 + 1
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 1,
		1, 2,
		3, 3,
	})
	y := mat.NewDense(4, 1, []float64{4, 5, 6, 10})

	model := NewLinearRegression()
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	w := model.GetWeights()
	if math.Abs(w[0]-1) > 1e-6 || math.Abs(w[1]-2) > 1e-6 {
		t.Errorf("weights = %v, want [1 2]", w)
	}
	if b := model.GetIntercept(); math.Abs(b-1) > 1e-6 {
		t.Errorf("intercept = %v, want 1", b)
	}
}

func TestLinearRegressionNotFitted(t *testing.T) {
	model := NewLinearRegression()
	_, err := model.Predict(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("Predict() before Fit() should fail")
	}
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("error has type %T, want *NotFittedError", err)
	}
}

func TestLinearRegressionDimensionErrors(t *testing.T) {
	model := NewLinearRegression()

	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	yBad := mat.NewDense(2, 1, []float64{1, 2})
	if err := model.Fit(X, yBad); err == nil {
		t.Error("Fit() with mismatched rows should fail")
	}

	y := mat.NewDense(3, 1, []float64{1, 2, 3})
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}
	if _, err := model.Predict(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("Predict() with wrong feature count should fail")
	}
}

func TestLinearRegressionJSONRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9}) // y = 2x + 1

	model := NewLinearRegression()
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := model.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() unexpected error: %v", err)
	}

	restored := NewLinearRegression()
	if err := restored.ReadJSON(&buf); err != nil {
		t.Fatalf("ReadJSON() unexpected error: %v", err)
	}

	pred, err := restored.Predict(mat.NewDense(1, 1, []float64{10}))
	if err != nil {
		t.Fatalf("Predict() after reload unexpected error: %v", err)
	}
	if math.Abs(pred.At(0, 0)-21) > 1e-8 {
		t.Errorf("reloaded prediction = %v, want 21", pred.At(0, 0))
	}
}
