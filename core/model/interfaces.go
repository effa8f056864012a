package model

import "gonum.org/v1/gonum/mat"

// Fitter は教師あり学習が可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコア計算が可能なモデルのインターフェース
type Scorer interface {
	// Score はモデルの評価値（回帰ではR²、分類では正解率）を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Regressor combines the interfaces every regression model implements.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// Classifier combines the interfaces every classification model implements.
type Classifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba returns per-class probability estimates.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique class labels seen during fitting.
	Classes() []int
}

// Clusterer is the interface for unsupervised clustering models.
type Clusterer interface {
	// FitPredict clusters X and returns one label per row.
	FitPredict(X mat.Matrix) ([]int, error)
}

// OutlierDetector is the interface for anomaly detection models.
type OutlierDetector interface {
	// Fit learns the region of normal data.
	Fit(X mat.Matrix) error

	// ScoreSamples returns an anomaly score per row, higher meaning
	// more anomalous.
	ScoreSamples(X mat.Matrix) ([]float64, error)

	// Predict returns +1 for inliers and -1 for outliers.
	Predict(X mat.Matrix) ([]int, error)
}

// ParameterGetter is implemented by models that expose their hyperparameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
