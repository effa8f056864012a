// Package linear は線形回帰モデルを提供する
package linear

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/core/parallel"
	"github.com/skuroda/mlnotes/pkg/errors"
)

// LinearRegression は最小二乗法による線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator

	// Weights は学習された係数
	Weights *mat.VecDense

	// Intercept は学習された切片
	Intercept float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T X)^(-1) X^T y をQR分解で解く
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	// 切片項のために X の先頭に 1 の列を追加する
	augmented := mat.NewDense(r, c+1, nil)

	// 小さなデータでは逐次処理の方が速い
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			augmented.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				augmented.Set(i, j+1, X.At(i, j))
			}
		}
	})

	// 最小二乗解を求める（SolveはQR分解を使うため逆行列の明示計算より安定）
	var solution mat.Dense
	if err := solution.Solve(augmented, y); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	lr.Intercept = solution.At(0, 0)
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, solution.At(j+1, 0))
	}

	lr.SetDimensions(r, c)
	lr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// GetWeights は学習された係数をコピーして返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}
	weights := make([]float64, lr.Weights.Len())
	for i := range weights {
		weights[i] = lr.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return rsquared(y, yPred)
}

// rsquared は R² = 1 - RSS/TSS を計算する
func rsquared(y, yPred mat.Matrix) (float64, error) {
	r, _ := y.Dims()

	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		pred := yPred.At(i, 0)
		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += (yTrue - pred) * (yTrue - pred)
	}

	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}

// modelParams は学習済みパラメータのJSON表現
type modelParams struct {
	Model        string    `json:"model"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	NFeatures    int       `json:"n_features"`
}

// SaveJSON は学習済みモデルをJSONファイルに書き出す
func (lr *LinearRegression) SaveJSON(filename string) error {
	if !lr.IsFitted() {
		return errors.NewNotFittedError("LinearRegression", "SaveJSON")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return lr.WriteJSON(file)
}

// WriteJSON は学習済みモデルをWriterに書き出す
func (lr *LinearRegression) WriteJSON(w io.Writer) error {
	if !lr.IsFitted() {
		return errors.NewNotFittedError("LinearRegression", "WriteJSON")
	}

	params := modelParams{
		Model:        "LinearRegression",
		Coefficients: lr.GetWeights(),
		Intercept:    lr.Intercept,
		NFeatures:    lr.NFeatures,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&params); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// LoadJSON はJSONファイルから学習済みモデルを読み込む
func (lr *LinearRegression) LoadJSON(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return lr.ReadJSON(file)
}

// ReadJSON はReaderから学習済みモデルを読み込む
func (lr *LinearRegression) ReadJSON(r io.Reader) error {
	var params modelParams
	if err := json.NewDecoder(r).Decode(&params); err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}
	if params.Model != "LinearRegression" {
		return errors.Newf("unexpected model type %q", params.Model)
	}
	if len(params.Coefficients) != params.NFeatures {
		return errors.NewDimensionError("LinearRegression.ReadJSON", params.NFeatures, len(params.Coefficients), 1)
	}

	lr.NFeatures = params.NFeatures
	lr.Intercept = params.Intercept
	lr.Weights = mat.NewVecDense(len(params.Coefficients), params.Coefficients)
	lr.SetFitted()
	return nil
}
