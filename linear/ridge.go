package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
	"github.com/skuroda/mlnotes/pkg/log"
)

// Ridge はL2正則化付き線形回帰モデル
// 勾配降下法（固定イテレーション数 + 収束判定）で学習する
//
// コスト関数:
//
//	J(w, b) = 1/(2n) Σ(Xw + b - y)² + α/(2n)·‖w‖²
//
// 切片は正則化しない。
type Ridge struct {
	model.BaseEstimator

	// ハイパーパラメータ
	alpha        float64 // 正則化の強さ
	learningRate float64 // 学習率
	maxIter      int     // 最大イテレーション数
	tol          float64 // 勾配ノルムの収束判定閾値

	// 学習パラメータ
	Weights   *mat.VecDense
	Intercept float64
	NFeatures int

	// NIter は実際に実行されたイテレーション数
	NIter int
}

// RidgeOption はRidgeの設定オプション
type RidgeOption func(*Ridge)

// WithAlpha は正則化の強さを設定する
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.alpha = alpha
	}
}

// WithLearningRate は学習率を設定する
func WithLearningRate(lr float64) RidgeOption {
	return func(r *Ridge) {
		r.learningRate = lr
	}
}

// WithMaxIter は最大イテレーション数を設定する
func WithMaxIter(n int) RidgeOption {
	return func(r *Ridge) {
		r.maxIter = n
	}
}

// WithTol は収束判定の許容誤差を設定する
func WithTol(tol float64) RidgeOption {
	return func(r *Ridge) {
		r.tol = tol
	}
}

// NewRidge は新しいRidgeモデルを作成する
func NewRidge(options ...RidgeOption) *Ridge {
	ridge := &Ridge{
		alpha:        1.0,
		learningRate: 0.01,
		maxIter:      1000,
		tol:          1e-4,
	}
	for _, opt := range options {
		opt(ridge)
	}
	return ridge
}

// Fit は勾配降下法でモデルを学習させる
// 勾配のノルムがtolを下回るか、maxIterに達した時点で停止する。
// maxIterまでにtolを下回らなかった場合はConvergenceWarningを発する。
func (rg *Ridge) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("Ridge.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}
	if rg.alpha < 0 {
		return errors.NewValueError("Ridge.Fit", "alpha must be non-negative")
	}
	if rg.learningRate <= 0 {
		return errors.NewValueError("Ridge.Fit", "learning rate must be positive")
	}
	if rg.maxIter <= 0 {
		return errors.NewValueError("Ridge.Fit", "maxIter must be positive")
	}

	rg.NFeatures = c
	weights := make([]float64, c)
	intercept := 0.0
	n := float64(r)

	logger := log.GetLogger().With(
		log.ModelKey, "Ridge",
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	gradW := make([]float64, c)
	converged := false

	var iter int
	for iter = 0; iter < rg.maxIter; iter++ {
		// 残差 (Xw + b - y) を計算しつつ勾配を累積する
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0

		for i := 0; i < r; i++ {
			pred := intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * weights[j]
			}
			residual := pred - y.At(i, 0)
			for j := 0; j < c; j++ {
				gradW[j] += residual * X.At(i, j)
			}
			gradB += residual
		}

		// L2ペナルティ項（切片は正則化しない）
		gradNorm := 0.0
		for j := 0; j < c; j++ {
			gradW[j] = (gradW[j] + rg.alpha*weights[j]) / n
			gradNorm += gradW[j] * gradW[j]
		}
		gradB /= n
		gradNorm += gradB * gradB
		gradNorm = math.Sqrt(gradNorm)

		// 更新
		for j := 0; j < c; j++ {
			weights[j] -= rg.learningRate * gradW[j]
		}
		intercept -= rg.learningRate * gradB

		// NaN/Infの発生は設定ミス（学習率が大きすぎる等）なので即座に打ち切る
		for j := 0; j < c; j++ {
			if math.IsNaN(weights[j]) || math.IsInf(weights[j], 0) {
				return errors.NewNumericalInstabilityError("gradient_update", weights, iter)
			}
		}

		if gradNorm < rg.tol {
			converged = true
			iter++
			break
		}
	}

	rg.NIter = iter
	rg.Weights = mat.NewVecDense(c, weights)
	rg.Intercept = intercept

	if converged {
		logger.Debug("gradient descent converged", log.IterationKey, iter)
	} else {
		errors.Warn(errors.NewConvergenceWarning("Ridge", rg.maxIter, ""))
	}

	rg.SetDimensions(r, c)
	rg.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (rg *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rg.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	r, c := X.Dims()
	if c != rg.NFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", rg.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := rg.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * rg.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (rg *Ridge) Score(X, y mat.Matrix) (float64, error) {
	if !rg.IsFitted() {
		return 0, errors.NewNotFittedError("Ridge", "Score")
	}

	yPred, err := rg.Predict(X)
	if err != nil {
		return 0, err
	}
	return rsquared(y, yPred)
}

// GetWeights は学習された係数をコピーして返す
func (rg *Ridge) GetWeights() []float64 {
	if rg.Weights == nil {
		return nil
	}
	weights := make([]float64, rg.Weights.Len())
	for i := range weights {
		weights[i] = rg.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (rg *Ridge) GetIntercept() float64 {
	if !rg.IsFitted() {
		return 0
	}
	return rg.Intercept
}

// GetParams はモデルのハイパーパラメータを取得する
func (rg *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         rg.alpha,
		"learning_rate": rg.learningRate,
		"max_iter":      rg.maxIter,
		"tol":           rg.tol,
	}
}
