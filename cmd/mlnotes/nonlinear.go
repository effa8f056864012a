package main

import (
	"math/rand"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/linear"
	"github.com/skuroda/mlnotes/metrics"
	"github.com/skuroda/mlnotes/pkg/log"
	"github.com/skuroda/mlnotes/preprocessing"
	"github.com/skuroda/mlnotes/visualize"
)

var nonlinearCmd = &cobra.Command{
	Use:   "nonlinear",
	Short: "Polynomial features plus ridge regression on a cubic curve",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logger.With(log.OperationKey, "nonlinear")

		const nSamples = 150
		rng := rand.New(rand.NewSource(cfg.Seed))
		X := mat.NewDense(nSamples, 1, nil)
		y := mat.NewVecDense(nSamples, nil)
		for i := 0; i < nSamples; i++ {
			x := -3 + 6*rng.Float64()
			X.Set(i, 0, x)
			y.SetVec(i, 0.5*x*x*x-2*x+rng.NormFloat64())
		}

		poly := preprocessing.NewPolynomialFeatures(3, false)
		XPoly, err := poly.FitTransform(X)
		if err != nil {
			return err
		}
		scaler := preprocessing.NewStandardScalerDefault()
		XScaled, err := scaler.FitTransform(XPoly)
		if err != nil {
			return err
		}

		model := linear.NewRidge(
			linear.WithAlpha(0.5),
			linear.WithLearningRate(0.05),
			linear.WithMaxIter(5000),
		)
		if err := model.Fit(XScaled, y); err != nil {
			return err
		}

		yPred, err := model.Predict(XScaled)
		if err != nil {
			return err
		}
		mse, err := metrics.MSEMatrix(y, yPred)
		if err != nil {
			return err
		}
		r2, err := metrics.R2Matrix(y, yPred)
		if err != nil {
			return err
		}
		l.Info("fit complete", "mse", mse, "r2", r2, log.IterationKey, model.NIter)

		predictAt := func(x float64) float64 {
			single := mat.NewDense(1, 1, []float64{x})
			xp, err := poly.Transform(single)
			if err != nil {
				return 0
			}
			xs, err := scaler.Transform(xp)
			if err != nil {
				return 0
			}
			out, err := model.Predict(xs)
			if err != nil {
				return 0
			}
			return out.At(0, 0)
		}

		p := visualize.NewFigure("Polynomial ridge regression", "x", "y")
		pts := mat.NewDense(nSamples, 2, nil)
		for i := 0; i < nSamples; i++ {
			pts.Set(i, 0, X.At(i, 0))
			pts.Set(i, 1, y.AtVec(i))
		}
		if err := visualize.AddScatter(p, pts, "data"); err != nil {
			return err
		}
		if err := visualize.AddCurve(p, predictAt, -3, 3, 200, "degree-3 fit"); err != nil {
			return err
		}

		path, err := cfg.FigurePath("nonlinear_fit")
		if err != nil {
			return err
		}
		w, h := cfg.FigureSize()
		if err := visualize.Save(p, path, w, h); err != nil {
			return err
		}
		l.Info("figure written", "path", path)
		return nil
	},
}
