package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "Predict")

	var nf *NotFittedError
	if !As(err, &nf) {
		t.Fatalf("As() failed for %T", err)
	}
	if nf.ModelName != "LinearRegression" || nf.Method != "Predict" {
		t.Errorf("fields = %+v", nf)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("message = %q", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "mlnotes:") {
		t.Errorf("message %q should carry the mlnotes prefix", err.Error())
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 3, 5, 1)

	var de *DimensionError
	if !As(err, &de) {
		t.Fatalf("As() failed for %T", err)
	}
	if de.Expected != 3 || de.Got != 5 || de.Axis != 1 {
		t.Errorf("fields = %+v", de)
	}
	if !strings.Contains(err.Error(), "features") {
		t.Errorf("axis 1 message should name features, got %q", err.Error())
	}

	rowErr := NewDimensionError("Fit", 10, 8, 0)
	if !strings.Contains(rowErr.Error(), "rows") {
		t.Errorf("axis 0 message should name rows, got %q", rowErr.Error())
	}
}

func TestValueError(t *testing.T) {
	err := NewValueError("KMeans.Fit", "nClusters must be positive")

	var ve *ValueError
	if !As(err, &ve) {
		t.Fatalf("As() failed for %T", err)
	}
	if !strings.Contains(err.Error(), "nClusters must be positive") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	err := NewModelError("LinearRegression.Fit", "singular matrix", ErrSingularMatrix)

	if !Is(err, ErrSingularMatrix) {
		t.Error("Is() should see the wrapped sentinel")
	}
	var me *ModelError
	if !As(err, &me) {
		t.Fatalf("As() failed for %T", err)
	}
	if me.Kind != "singular matrix" {
		t.Errorf("Kind = %q", me.Kind)
	}
}

func TestNumericalInstabilityErrorTruncatesValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	err := NewNumericalInstabilityError("gradient_update", values, 42)

	msg := err.Error()
	if !strings.Contains(msg, "iteration 42") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "...") {
		t.Errorf("long value list should be truncated, got %q", msg)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) { captured = append(captured, w) })
	defer SetWarningHandler(nil)

	w := NewConvergenceWarning("Ridge", 1000, "")
	Warn(w)

	if len(captured) != 1 {
		t.Fatalf("captured %d warnings, want 1", len(captured))
	}
	var cw *ConvergenceWarning
	if !As(captured[0], &cw) {
		t.Fatalf("captured warning has type %T", captured[0])
	}
	if cw.Iterations != 1000 {
		t.Errorf("Iterations = %d", cw.Iterations)
	}
}

func TestConvergenceWarningMessage(t *testing.T) {
	plain := NewConvergenceWarning("KMeans", 300, "")
	if !strings.Contains(plain.Error(), "300 iterations") {
		t.Errorf("message = %q", plain.Error())
	}

	custom := NewConvergenceWarning("Ridge", 10, "gradient still large")
	if !strings.Contains(custom.Error(), "gradient still large") {
		t.Errorf("message = %q", custom.Error())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	base := New("disk full")
	wrapped := Wrapf(base, "saving model %s", "ridge.json")

	if !Is(wrapped, base) {
		t.Error("Is() should see through Wrapf")
	}
	if !strings.Contains(wrapped.Error(), "ridge.json") {
		t.Errorf("message = %q", wrapped.Error())
	}
}
