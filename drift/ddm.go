// Package drift implements error-rate concept drift detection for the
// streaming section of the anomaly detection walkthrough.
package drift

import (
	"math"
	"sync"
)

// DDM is the Drift Detection Method of Gama, Medas, Castillo, Rodrigues
// (2004): track the running error rate p and its binomial standard
// deviation s, remember the minimum p+s seen so far, and flag a warning
// at p + s > p_min + warningLevel·s_min and a drift at
// p + s > p_min + driftLevel·s_min.
type DDM struct {
	// Hyperparameters
	minInstances int     // detection is muted below this sample count
	warningLevel float64 // sigmas above the minimum for a warning
	driftLevel   float64 // sigmas above the minimum for a drift

	// Running statistics
	numInstances int
	numErrors    int
	errorRate    float64
	stdDev       float64

	// Best (minimum) reference point seen since the last drift
	minErrorRate float64
	minStdDev    float64

	mu sync.Mutex
}

// Status is the detector's verdict after one observation.
type Status struct {
	Warning   bool
	Drift     bool
	ErrorRate float64
}

// Option configures DDM.
type Option func(*DDM)

// WithMinInstances sets the sample count below which detection is muted.
func WithMinInstances(n int) Option {
	return func(d *DDM) {
		d.minInstances = n
	}
}

// WithWarningLevel sets the warning threshold in sigmas.
func WithWarningLevel(level float64) Option {
	return func(d *DDM) {
		d.warningLevel = level
	}
}

// WithDriftLevel sets the drift threshold in sigmas.
func WithDriftLevel(level float64) Option {
	return func(d *DDM) {
		d.driftLevel = level
	}
}

// NewDDM creates a detector with the paper's defaults: 30 warm-up
// samples, warning at 2σ, drift at 3σ.
func NewDDM(options ...Option) *DDM {
	d := &DDM{
		minInstances: 30,
		warningLevel: 2.0,
		driftLevel:   3.0,
		minErrorRate: math.Inf(1),
		minStdDev:    math.Inf(1),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Update feeds one prediction outcome into the detector. The detector
// resets itself after signaling a drift.
func (d *DDM) Update(correct bool) Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.numInstances++
	if !correct {
		d.numErrors++
	}

	if d.numInstances < d.minInstances {
		return Status{}
	}

	d.errorRate = float64(d.numErrors) / float64(d.numInstances)
	d.stdDev = math.Sqrt(d.errorRate * (1 - d.errorRate) / float64(d.numInstances))

	if d.errorRate+d.stdDev < d.minErrorRate+d.minStdDev {
		d.minErrorRate = d.errorRate
		d.minStdDev = d.stdDev
	}

	status := Status{ErrorRate: d.errorRate}
	level := d.errorRate + d.stdDev

	if level > d.minErrorRate+d.warningLevel*d.minStdDev {
		status.Warning = true
	}
	if level > d.minErrorRate+d.driftLevel*d.minStdDev {
		status.Drift = true
		d.reset()
	}

	return status
}

// ErrorRate returns the current running error rate.
func (d *DDM) ErrorRate() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errorRate
}

// Reset clears all statistics.
func (d *DDM) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

func (d *DDM) reset() {
	d.numInstances = 0
	d.numErrors = 0
	d.errorRate = 0
	d.stdDev = 0
	d.minErrorRate = math.Inf(1)
	d.minStdDev = math.Inf(1)
}
