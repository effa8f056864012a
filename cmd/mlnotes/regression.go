package main

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/dataset"
	"github.com/skuroda/mlnotes/linear"
	"github.com/skuroda/mlnotes/metrics"
	"github.com/skuroda/mlnotes/pkg/log"
	"github.com/skuroda/mlnotes/preprocessing"
	"github.com/skuroda/mlnotes/visualize"
)

var regressionCmd = &cobra.Command{
	Use:   "regression",
	Short: "Linear regression on a noisy synthetic line",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logger.With(log.OperationKey, "regression")

		X, y, trueCoef, err := dataset.MakeRegression(200, 1, 10.0, cfg.Seed)
		if err != nil {
			return err
		}
		XTrain, XTest, yTrain, yTest, err := dataset.TrainTestSplit(X, y, 0.25, cfg.Seed)
		if err != nil {
			return err
		}

		scaler := preprocessing.NewStandardScalerDefault()
		XTrainS, err := scaler.FitTransform(XTrain)
		if err != nil {
			return err
		}
		XTestS, err := scaler.Transform(XTest)
		if err != nil {
			return err
		}

		model := linear.NewLinearRegression()
		if err := model.Fit(XTrainS, yTrain); err != nil {
			return err
		}

		yPred, err := model.Predict(XTestS)
		if err != nil {
			return err
		}
		mse, err := metrics.MSEMatrix(yTest, yPred)
		if err != nil {
			return err
		}
		r2, err := metrics.R2Matrix(yTest, yPred)
		if err != nil {
			return err
		}
		l.Info("fit complete",
			"true_coef", trueCoef[0],
			"weight", model.GetWeights()[0],
			"intercept", model.GetIntercept(),
			"mse", mse,
			"r2", r2,
		)

		p := visualize.NewFigure("Linear regression", "x (scaled)", "y")
		rTest, _ := XTestS.Dims()
		pts := mat.NewDense(rTest, 2, nil)
		xMin, xMax := XTestS.At(0, 0), XTestS.At(0, 0)
		for i := 0; i < rTest; i++ {
			x := XTestS.At(i, 0)
			pts.Set(i, 0, x)
			pts.Set(i, 1, yTest.AtVec(i))
			if x < xMin {
				xMin = x
			}
			if x > xMax {
				xMax = x
			}
		}
		if err := visualize.AddScatter(p, pts, "test data"); err != nil {
			return err
		}
		if err := visualize.AddRegressionLine(p, model.GetWeights()[0], model.GetIntercept(), xMin, xMax); err != nil {
			return err
		}

		path, err := cfg.FigurePath("regression_fit")
		if err != nil {
			return err
		}
		w, h := cfg.FigureSize()
		if err := visualize.Save(p, path, w, h); err != nil {
			return err
		}

		// residual histogram over the full scaled dataset
		XAllS, err := scaler.Transform(X)
		if err != nil {
			return err
		}
		yAll, err := model.Predict(XAllS)
		if err != nil {
			return err
		}
		n, _ := yAll.Dims()
		residuals := make([]float64, n)
		for i := 0; i < n; i++ {
			residuals[i] = y.AtVec(i) - yAll.At(i, 0)
		}
		hist, err := visualize.ResidualHistogram(residuals, 20)
		if err != nil {
			return err
		}
		histPath, err := cfg.FigurePath("regression_residuals")
		if err != nil {
			return err
		}
		if err := visualize.Save(hist, histPath, w, h); err != nil {
			return err
		}

		l.Info("figures written", "fit", path, "residuals", histPath)
		return nil
	},
}
