package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/spamlens"
	"github.com/happyhackingspace/spamlens/internal/dataset"
	"github.com/spf13/cobra"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var dataFolder string
	cfg := spamlens.DefaultTrainConfig()

	cmd := &cobra.Command{
		Use:   "train <modelfile>",
		Short: "Train a model on the SMS Spam Collection",
		Args:  cobra.ExactArgs(1),
		Example: `  spamlens train model.json --data-folder data
  spamlens train model.msgpack --test-size 0.2 --seed 1
  spamlens train model.json --c 0.5 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := args[0]
			if cfg.TestSize < 0 || cfg.TestSize >= 1 {
				return fmt.Errorf("--test-size must be in [0, 1), got %v", cfg.TestSize)
			}
			path, err := dataset.Download(cmd.Context(), nil, dataset.URL, dataFolder)
			if err != nil {
				return err
			}

			slog.Info("Training classifier", "dataset", path, "output", modelPath)
			cfg.Verbose = c.verbose
			start := time.Now()
			cl, metrics, err := spamlens.Train(path, &cfg)
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))
			if err := cl.Save(modelPath); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath, "vocabulary", cl.Model().VocabSize())

			if metrics.Total() > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Held-out accuracy: %.2f%% (%d messages)\n", metrics.Accuracy()*100, metrics.Total())
				fmt.Fprintf(out, "Spam precision: %.2f%%  recall: %.2f%%  F1: %.2f%%\n",
					metrics.Precision()*100, metrics.Recall()*100, metrics.F1()*100)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFolder, "data-folder", "data", "Folder holding (or receiving) the dataset")
	cmd.Flags().Float64Var(&cfg.TestSize, "test-size", cfg.TestSize, "Fraction of messages held out for evaluation (0 trains on everything)")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for the train/test split")
	cmd.Flags().Float64Var(&cfg.C, "c", cfg.C, "Inverse regularization strength")
	cmd.Flags().IntVar(&cfg.MaxIter, "max-iter", cfg.MaxIter, "Maximum optimizer iterations")
	return cmd
}
