package main

import (
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/skuroda/mlnotes/pkg/log"
	"github.com/skuroda/mlnotes/site"
)

var (
	flagConfig   string
	flagOut      string
	flagSeed     int64
	flagLogLevel string

	cfg    site.Config
	logger log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mlnotes",
	Short: "Machine learning walkthroughs with reproducible figures",
	Long: `mlnotes runs the tutorial walkthroughs of this repository: each
subcommand builds a small dataset, scales it, fits a model, reports the
evaluation metrics and writes the figures for the matching article.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = site.LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("out") {
			cfg.OutputDir = flagOut
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = flagSeed
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = flagLogLevel
		}

		logger = log.NewLogger(os.Stderr, log.ParseLevel(cfg.LogLevel))
		log.SetLogger(logger)
		log.InstallWarningHandler()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "figures", "directory for figure output")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 42, "seed for synthetic data and randomized models")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(regressionCmd)
	rootCmd.AddCommand(nonlinearCmd)
	rootCmd.AddCommand(clusteringCmd)
	rootCmd.AddCommand(classificationCmd)
	rootCmd.AddCommand(anomalyCmd)
	rootCmd.AddCommand(allCmd)
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every walkthrough in sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range []*cobra.Command{regressionCmd, nonlinearCmd, clusteringCmd, classificationCmd, anomalyCmd} {
			if err := c.RunE(c, nil); err != nil {
				return err
			}
		}
		return nil
	},
}

// labelsToVec converts integer class labels into the column vector the
// classifier Fit methods expect.
func labelsToVec(labels []int) *mat.VecDense {
	v := mat.NewVecDense(len(labels), nil)
	for i, l := range labels {
		v.SetVec(i, float64(l))
	}
	return v
}

// columnToVec copies the single column of an n x 1 prediction matrix.
func columnToVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
