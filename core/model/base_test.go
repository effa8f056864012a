package model

import (
	"sync"
	"testing"
)

func TestBaseEstimatorFittedLifecycle(t *testing.T) {
	var e BaseEstimator

	if e.IsFitted() {
		t.Error("new estimator should not be fitted")
	}

	e.SetDimensions(100, 5)
	e.SetFitted()

	if !e.IsFitted() {
		t.Error("IsFitted() = false after SetFitted()")
	}
	samples, features := e.Dimensions()
	if samples != 100 || features != 5 {
		t.Errorf("Dimensions() = (%d, %d), want (100, 5)", samples, features)
	}

	e.Reset()
	if e.IsFitted() {
		t.Error("IsFitted() = true after Reset()")
	}
	samples, features = e.Dimensions()
	if samples != 0 || features != 0 {
		t.Errorf("Dimensions() after Reset() = (%d, %d), want (0, 0)", samples, features)
	}
}

func TestBaseEstimatorConcurrentAccess(t *testing.T) {
	var e BaseEstimator
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.SetFitted()
			e.SetDimensions(10, 2)
		}()
		go func() {
			defer wg.Done()
			_ = e.IsFitted()
			_, _ = e.Dimensions()
		}()
	}
	wg.Wait()

	if !e.IsFitted() {
		t.Error("estimator should end up fitted")
	}
}
