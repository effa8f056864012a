package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/core/model"
	"github.com/skuroda/mlnotes/pkg/errors"
)

// PolynomialFeatures は特徴量を多項式に展開する変換器
// 非線形回帰の記事で、線形モデルに曲線を学習させるために使う
//
// 単一特徴量 x を次数dで展開すると [x, x², ..., x^d]
// （IncludeBias=true の場合は先頭に1の列）になる。
// 複数特徴量の場合は各特徴量を独立に冪乗する（交互作用項は生成しない）。
type PolynomialFeatures struct {
	model.BaseEstimator

	// Degree は展開する最大次数
	Degree int

	// IncludeBias は定数1の列を先頭に付けるかどうか
	IncludeBias bool

	// NFeatures は入力の特徴量数
	NFeatures int

	// NOutputFeatures は変換後の特徴量数
	NOutputFeatures int
}

// NewPolynomialFeatures は新しいPolynomialFeaturesを作成する
func NewPolynomialFeatures(degree int, includeBias bool) *PolynomialFeatures {
	return &PolynomialFeatures{
		Degree:      degree,
		IncludeBias: includeBias,
	}
}

// Fit は入力の形状を記録する
func (p *PolynomialFeatures) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty data", errors.ErrEmptyData)
	}
	if p.Degree < 1 {
		return errors.NewValueError("PolynomialFeatures.Fit", "degree must be at least 1")
	}

	p.NFeatures = c
	p.NOutputFeatures = c * p.Degree
	if p.IncludeBias {
		p.NOutputFeatures++
	}

	p.SetDimensions(r, c)
	p.SetFitted()
	return nil
}

// Transform は特徴量を多項式に展開する
func (p *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "Transform")
	}

	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PolynomialFeatures.Transform", p.NFeatures, c, 1)
	}

	result := mat.NewDense(r, p.NOutputFeatures, nil)
	for i := 0; i < r; i++ {
		out := 0
		if p.IncludeBias {
			result.Set(i, 0, 1.0)
			out = 1
		}
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			pow := 1.0
			for d := 1; d <= p.Degree; d++ {
				pow *= v
				result.Set(i, out, pow)
				out++
			}
		}
	}
	return result, nil
}

// FitTransform はFitとTransformを同時に実行する
func (p *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// GetParams は変換器のパラメータを取得する
func (p *PolynomialFeatures) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":       p.Degree,
		"include_bias": p.IncludeBias,
	}
}
