package cli

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/spamlens/internal/dataset"
	"github.com/spf13/cobra"
)

func (c *CLI) newDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the training dataset",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var dataFolder string
	var url string
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the UCI SMS Spam Collection",
		Example: `  spamlens data download
  spamlens data download --data-folder data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := dataset.Download(cmd.Context(), nil, url, dataFolder)
			if err != nil {
				return err
			}
			ds, err := dataset.Load(path)
			if err != nil {
				return err
			}
			slog.Info("Dataset ready", "path", path, "messages", len(ds), "spam", ds.SpamCount())
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	downloadCmd.Flags().StringVar(&dataFolder, "data-folder", "data", "Destination folder for the dataset")
	downloadCmd.Flags().StringVar(&url, "url", dataset.URL, "Archive URL")

	dataCmd.AddCommand(downloadCmd)
	return dataCmd
}
