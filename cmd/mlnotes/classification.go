package main

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/dataset"
	"github.com/skuroda/mlnotes/metrics"
	"github.com/skuroda/mlnotes/neighbors"
	"github.com/skuroda/mlnotes/pkg/log"
	"github.com/skuroda/mlnotes/preprocessing"
	"github.com/skuroda/mlnotes/svm"
	"github.com/skuroda/mlnotes/tree"
	"github.com/skuroda/mlnotes/visualize"
)

type classifier interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

var classificationCmd = &cobra.Command{
	Use:   "classification",
	Short: "KNN, linear SVM and a decision tree on the two moons",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logger.With(log.OperationKey, "classification")

		X, labels, err := dataset.MakeMoons(400, 0.2, cfg.Seed)
		if err != nil {
			return err
		}
		y := labelsToVec(labels)

		XTrain, XTest, yTrain, yTest, err := dataset.TrainTestSplit(X, y, 0.3, cfg.Seed)
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

		models := []struct {
			name string
			clf  classifier
		}{
			{"knn", neighbors.NewKNNClassifier(neighbors.WithNNeighbors(5))},
			{"linear_svc", svm.NewLinearSVC(svm.WithLambda(1e-3), svm.WithRandomState(cfg.Seed))},
			{"decision_tree", tree.NewDecisionTreeClassifier(tree.WithMaxDepth(6))},
		}

		var knnPred *mat.VecDense
		for _, m := range models {
			if err := m.clf.Fit(XTrainS, yTrain); err != nil {
				return err
			}
			predMat, err := m.clf.Predict(XTestS)
			if err != nil {
				return err
			}
			yPred := columnToVec(predMat)

			acc, err := metrics.Accuracy(yTest, yPred)
			if err != nil {
				return err
			}
			prec, err := metrics.Precision(yTest, yPred, 1)
			if err != nil {
				return err
			}
			rec, err := metrics.Recall(yTest, yPred, 1)
			if err != nil {
				return err
			}
			f1, err := metrics.F1Score(yTest, yPred, 1)
			if err != nil {
				return err
			}
			l.Info("model evaluated",
				log.ModelKey, m.name,
				"accuracy", acc,
				"precision", prec,
				"recall", rec,
				"f1", f1,
			)

			if m.name == "knn" {
				knnPred = yPred
			}
		}

		cm, cmLabels, err := metrics.ConfusionMatrix(yTest, knnPred)
		if err != nil {
			return err
		}
		for i, trueLabel := range cmLabels {
			for j, predLabel := range cmLabels {
				l.Debug("confusion cell",
					"true", trueLabel,
					"pred", predLabel,
					"count", cm.At(i, j),
				)
			}
		}

		predLabels := make([]int, knnPred.Len())
		for i := range predLabels {
			predLabels[i] = int(knnPred.AtVec(i))
		}
		p := visualize.NewFigure("KNN predictions on two moons", "x1 (scaled)", "x2 (scaled)")
		if err := visualize.AddClassScatter(p, XTestS, predLabels); err != nil {
			return err
		}
		path, err := cfg.FigurePath("classification_knn")
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
