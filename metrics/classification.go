package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// Accuracy returns the fraction of exactly matching labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Precision returns tp / (tp + fp) for the given positive label.
// With no predicted positives the metric is undefined: it returns 0 and
// raises an UndefinedMetricWarning, like scikit-learn.
func Precision(yTrue, yPred *mat.VecDense, posLabel float64) (float64, error) {
	n, err := checkVectors("Precision", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	tp, fp := 0, 0
	for i := 0; i < n; i++ {
		if yPred.AtVec(i) == posLabel {
			if yTrue.AtVec(i) == posLabel {
				tp++
			} else {
				fp++
			}
		}
	}

	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}
	return float64(tp) / float64(tp+fp), nil
}

// Recall returns tp / (tp + fn) for the given positive label.
// With no true positives in yTrue the metric is undefined: it returns 0
// and raises an UndefinedMetricWarning.
func Recall(yTrue, yPred *mat.VecDense, posLabel float64) (float64, error) {
	n, err := checkVectors("Recall", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	tp, fn := 0, 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == posLabel {
			if yPred.AtVec(i) == posLabel {
				tp++
			} else {
				fn++
			}
		}
	}

	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives", 0))
		return 0, nil
	}
	return float64(tp) / float64(tp+fn), nil
}

// F1Score returns the harmonic mean of precision and recall.
func F1Score(yTrue, yPred *mat.VecDense, posLabel float64) (float64, error) {
	p, err := Precision(yTrue, yPred, posLabel)
	if err != nil {
		return 0, err
	}
	r, err := Recall(yTrue, yPred, posLabel)
	if err != nil {
		return 0, err
	}

	if p+r == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
		return 0, nil
	}
	return 2 * p * r / (p + r), nil
}

// ConfusionMatrix builds the confusion matrix over the union of labels
// seen in yTrue and yPred, sorted ascending. Rows are true labels,
// columns predicted labels. The label order is returned alongside.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, []float64, error) {
	n, err := checkVectors("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}

	seen := map[float64]bool{}
	for i := 0; i < n; i++ {
		seen[yTrue.AtVec(i)] = true
		seen[yPred.AtVec(i)] = true
	}
	labels := make([]float64, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	index := map[float64]int{}
	for i, label := range labels {
		index[label] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		r := index[yTrue.AtVec(i)]
		c := index[yPred.AtVec(i)]
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, labels, nil
}
