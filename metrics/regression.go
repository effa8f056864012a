// Package metrics は回帰・分類の評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/errors"
)

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は二乗平均平方根誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2 は決定係数 R² = 1 - RSS/TSS を計算する
// 全てのyTrueが同じ値の場合（TSS=0）はエラーを返す
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("R2", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += yTrue.AtVec(i)
	}
	mean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - mean
		tss += d * d
		r := yTrue.AtVec(i) - yPred.AtVec(i)
		rss += r * r
	}

	if tss == 0 {
		return 0, errors.NewValueError("R2", "total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}

// MSEMatrix は列ベクトル行列（n×1）の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tVec, pVec, err := columnVectors("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MSE(tVec, pVec)
}

// R2Matrix は列ベクトル行列（n×1）の入力に対してR²を計算する
func R2Matrix(yTrue, yPred mat.Matrix) (float64, error) {
	tVec, pVec, err := columnVectors("R2Matrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2(tVec, pVec)
}

// checkVectors は2つのベクトルの形状を検証し、共通の長さを返す
func checkVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// columnVectors はn×1行列の組をVecDenseに変換する
func columnVectors(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	rT, cT := yTrue.Dims()
	rP, cP := yPred.Dims()

	if rT == 0 || cT == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if rT != rP || cT != cP {
		return nil, nil, errors.NewDimensionError(op, rT, rP, 0)
	}
	if cT != 1 {
		return nil, nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}

	tVec := mat.NewVecDense(rT, nil)
	pVec := mat.NewVecDense(rP, nil)
	for i := 0; i < rT; i++ {
		tVec.SetVec(i, yTrue.At(i, 0))
		pVec.SetVec(i, yPred.At(i, 0))
	}
	return tVec, pVec, nil
}
