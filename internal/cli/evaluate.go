package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/happyhackingspace/spamlens"
	"github.com/happyhackingspace/spamlens/internal/dataset"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var dataFolder string
	var cvFolds int
	var seed uint64

	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Evaluate model accuracy via cross-validation",
		Example: `  spamlens evaluate --data-folder data --cv 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cvFolds < 2 {
				return fmt.Errorf("--cv must be >= 2, got %d", cvFolds)
			}
			path, err := dataset.Download(cmd.Context(), nil, dataset.URL, dataFolder)
			if err != nil {
				return err
			}

			slog.Info("Evaluating", "folds", cvFolds, "dataset", path)
			start := time.Now()
			result, err := spamlens.Evaluate(path, &spamlens.EvalConfig{
				Folds:   cvFolds,
				Seed:    seed,
				Verbose: c.verbose,
			})
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))
			printEvaluation(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFolder, "data-folder", "data", "Folder holding (or receiving) the dataset")
	cmd.Flags().IntVar(&cvFolds, "cv", 10, "Number of cross-validation folds")
	cmd.Flags().Uint64Var(&seed, "seed", 67, "Random seed for fold assignment")
	return cmd
}

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
}

func printEvaluation(w io.Writer, r *spamlens.EvalResult) {
	m := r.Metrics
	fmt.Fprintf(w, "%d-fold cross-validation on %d messages (%d spam)\n\n", r.Folds, r.Samples, r.Spam)

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.SetAlignment(tablewriter.ALIGN_RIGHT)
	summary.AppendBulk([][]string{
		{"accuracy", percent(m.Accuracy())},
		{"spam precision", percent(m.Precision())},
		{"spam recall", percent(m.Recall())},
		{"spam F1", percent(m.F1())},
	})
	summary.Render()

	fmt.Fprintf(w, "\nConfusion matrix (rows=true, cols=predicted):\n")
	confusion := tablewriter.NewWriter(w)
	confusion.SetHeader([]string{"", "not_spam", "spam", "total"})
	confusion.AppendBulk([][]string{
		{"not_spam", strconv.Itoa(m.TrueNegative), strconv.Itoa(m.FalsePositive), strconv.Itoa(m.TrueNegative + m.FalsePositive)},
		{"spam", strconv.Itoa(m.FalseNegative), strconv.Itoa(m.TruePositive), strconv.Itoa(m.FalseNegative + m.TruePositive)},
	})
	confusion.Render()

	if len(r.PerFold) > 0 {
		fmt.Fprintf(w, "\nPer-fold accuracy:\n")
		folds := tablewriter.NewWriter(w)
		folds.SetHeader([]string{"Fold", "Messages", "Accuracy", "Spam F1"})
		for i, f := range r.PerFold {
			folds.Append([]string{strconv.Itoa(i + 1), strconv.Itoa(f.Total()), percent(f.Accuracy()), percent(f.F1())})
		}
		folds.Render()
	}
}
