package cli

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/spamlens/internal/server"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCommand() *cobra.Command {
	var envFile string
	var addr string
	var modelPath string
	var topK int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long: `Serve predictions over HTTP.

Settings come from the environment (SPAMLENS_ADDR, SPAMLENS_MODEL,
SPAMLENS_TOP_K, SPAMLENS_MAX_BODY_BYTES, SPAMLENS_READ_TIMEOUT,
SPAMLENS_WRITE_TIMEOUT, SPAMLENS_SHUTDOWN_TIMEOUT), optionally loaded from
an env file. Flags override the environment.`,
		Example: `  spamlens serve
  spamlens serve --addr :8080 --model model.json
  spamlens serve --env-file .env

  curl -s localhost:8080/predict -d '{"message":"Free prize, call now","top_k":3}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(envFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("model") {
				cfg.ModelPath = modelPath
			}
			if flags.Changed("top-k") {
				cfg.TopK = topK
			}
			if cfg.TopK < 0 {
				return fmt.Errorf("--top-k must be >= 0, got %d", cfg.TopK)
			}

			cl, err := loadModel(cfg.ModelPath)
			if err != nil {
				return err
			}
			slog.Info("Model loaded", "vocabulary", cl.Model().VocabSize())
			return server.New(cfg, cl).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Load environment variables from this file first")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides SPAMLENS_ADDR)")
	cmd.Flags().StringVar(&modelPath, "model", "", "Path to model file (overrides SPAMLENS_MODEL)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Default explanation size (overrides SPAMLENS_TOP_K)")
	return cmd
}
