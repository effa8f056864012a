// Package mlnotes is the companion code for a series of machine
// learning tutorial articles. Each article corresponds to one package
// plus a subcommand of cmd/mlnotes that builds a small dataset, scales
// it, fits a model and writes the figures shown in the text.
//
// # Quick Start
//
// Fitting a line through noisy data:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/skuroda/mlnotes/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    model := linear.NewLinearRegression()
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    XTest := mat.NewDense(2, 1, []float64{5, 6})
//	    predictions, err := model.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(predictions))
//	}
//
// # Packages
//
//   - dataset: synthetic generators, CSV loading, train/test splits
//   - preprocessing: StandardScaler, MinMaxScaler, PolynomialFeatures
//   - linear: LinearRegression (least squares) and Ridge (gradient descent)
//   - cluster: KMeans and DBSCAN
//   - neighbors: KNNClassifier
//   - svm: LinearSVC (Pegasos)
//   - tree: DecisionTreeClassifier
//   - anomaly: IsolationForest
//   - drift: DDM concept drift detection
//   - metrics: regression and classification metrics
//   - visualize: gonum/plot figure helpers
//   - site: shared TOML configuration for the commands
//   - core/model: shared interfaces and estimator state
//
// Every randomized component takes an explicit seed, so article figures
// are reproducible run to run.
package mlnotes
