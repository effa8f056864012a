package main

import (
	"github.com/spf13/cobra"

	"github.com/skuroda/mlnotes/cluster"
	"github.com/skuroda/mlnotes/dataset"
	"github.com/skuroda/mlnotes/pkg/log"
	"github.com/skuroda/mlnotes/preprocessing"
	"github.com/skuroda/mlnotes/visualize"
)

var clusteringCmd = &cobra.Command{
	Use:   "clustering",
	Short: "K-means on gaussian blobs and DBSCAN on two moons",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := logger.With(log.OperationKey, "clustering")
		w, h := cfg.FigureSize()

		// k-means on three well separated blobs
		centers := [][]float64{{-4, -2}, {0, 3}, {4, -1}}
		XBlobs, _, err := dataset.MakeBlobs(300, centers, 0.8, cfg.Seed)
		if err != nil {
			return err
		}

		km := cluster.NewKMeans(
			cluster.WithNClusters(3),
			cluster.WithRandomState(cfg.Seed),
		)
		blobLabels, err := km.FitPredict(XBlobs)
		if err != nil {
			return err
		}
		l.Info("k-means complete",
			"inertia", km.Inertia(),
			log.IterationKey, km.NIterations(),
		)

		p := visualize.NewFigure("K-means clustering", "x1", "x2")
		if err := visualize.AddClassScatter(p, XBlobs, blobLabels); err != nil {
			return err
		}
		if err := visualize.AddCenters(p, km.Centers()); err != nil {
			return err
		}
		path, err := cfg.FigurePath("clustering_kmeans")
		if err != nil {
			return err
		}
		if err := visualize.Save(p, path, w, h); err != nil {
			return err
		}

		// DBSCAN on the two moons, where k-means fails
		XMoons, _, err := dataset.MakeMoons(300, 0.06, cfg.Seed)
		if err != nil {
			return err
		}
		scaler := preprocessing.NewStandardScalerDefault()
		XMoonsS, err := scaler.FitTransform(XMoons)
		if err != nil {
			return err
		}

		db := cluster.NewDBSCAN(
			cluster.WithEps(0.3),
			cluster.WithMinSamples(5),
		)
		moonLabels, err := db.FitPredict(XMoonsS)
		if err != nil {
			return err
		}
		l.Info("dbscan complete",
			"clusters", db.NClusters(),
			"core_samples", len(db.CoreSampleIndices()),
		)

		p2 := visualize.NewFigure("DBSCAN on two moons", "x1 (scaled)", "x2 (scaled)")
		if err := visualize.AddClassScatter(p2, XMoonsS, moonLabels); err != nil {
			return err
		}
		path2, err := cfg.FigurePath("clustering_dbscan")
		if err != nil {
			return err
		}
		if err := visualize.Save(p2, path2, w, h); err != nil {
			return err
		}

		l.Info("figures written", "kmeans", path, "dbscan", path2)
		return nil
	},
}
