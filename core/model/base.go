// Package model は全ての推定器が共有する基底型とインターフェースを提供する
package model

import "sync"

// BaseEstimator は全ての推定器の基底となる構造体
// 学習状態と学習時のデータ形状をスレッドセーフに管理する
type BaseEstimator struct {
	mu        sync.RWMutex
	fitted    bool
	nFeatures int
	nSamples  int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fitted = true
}

// Reset はモデルを未学習状態に戻す
func (e *BaseEstimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fitted = false
	e.nFeatures = 0
	e.nSamples = 0
}

// SetDimensions は学習時のサンプル数と特徴量数を記録する
func (e *BaseEstimator) SetDimensions(nSamples, nFeatures int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nSamples = nSamples
	e.nFeatures = nFeatures
}

// Dimensions は学習時のサンプル数と特徴量数を返す
func (e *BaseEstimator) Dimensions() (nSamples, nFeatures int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nSamples, e.nFeatures
}
