package main

import (
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/skuroda/mlnotes/anomaly"
	"github.com/skuroda/mlnotes/dataset"
	"github.com/skuroda/mlnotes/drift"
	"github.com/skuroda/mlnotes/pkg/log"
	"github.com/skuroda/mlnotes/visualize"
)

var anomalyCmd = &cobra.Command{
	Use:   "anomaly",
	Short: "Isolation forest outlier detection and DDM drift monitoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logger.With(log.OperationKey, "anomaly")

		X, labels, err := dataset.MakeAnomalies(300, 15, 2, cfg.Seed)
		if err != nil {
			return err
		}

		forest := anomaly.NewIsolationForest(
			anomaly.WithNEstimators(100),
			anomaly.WithContamination(float64(15)/float64(315)),
			anomaly.WithRandomState(cfg.Seed),
		)
		if err := forest.Fit(X); err != nil {
			return err
		}
		pred, err := forest.Predict(X)
		if err != nil {
			return err
		}

		correct := 0
		for i := range pred {
			if pred[i] == labels[i] {
				correct++
			}
		}
		l.Info("isolation forest evaluated",
			"threshold", forest.Threshold(),
			"accuracy", float64(correct)/float64(len(pred)),
			log.SamplesKey, len(pred),
		)

		p := visualize.NewFigure("Isolation forest", "x1", "x2")
		if err := visualize.AddClassScatter(p, X, pred); err != nil {
			return err
		}
		path, err := cfg.FigurePath("anomaly_forest")
		if err != nil {
			return err
		}
		w, h := cfg.FigureSize()
		if err := visualize.Save(p, path, w, h); err != nil {
			return err
		}
		l.Info("figure written", "path", path)

		// drift monitoring over a simulated prediction stream whose
		// error rate jumps at the midpoint
		rng := rand.New(rand.NewSource(cfg.Seed))
		ddm := drift.NewDDM()
		const streamLen = 2000
		warningAt, driftAt := -1, -1
		driftErrorRate := 0.0
		for i := 0; i < streamLen; i++ {
			errRate := 0.05
			if i >= streamLen/2 {
				errRate = 0.30
			}
			status := ddm.Update(rng.Float64() >= errRate)
			if status.Warning && warningAt < 0 {
				warningAt = i
			}
			if status.Drift && driftAt < 0 {
				// Update resets the detector on drift, so keep the
				// rate from the status it reported
				driftAt = i
				driftErrorRate = status.ErrorRate
				break
			}
		}
		l.Info("drift monitoring complete",
			"warning_at", warningAt,
			"drift_at", driftAt,
			"error_rate", driftErrorRate,
		)
		return nil
	},
}
