package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/happyhackingspace/spamlens"
	"github.com/happyhackingspace/spamlens/classifier"
	"github.com/happyhackingspace/spamlens/internal/htmlutil"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCommand() *cobra.Command {
	var modelPath string
	var file string
	var topK int
	var output string

	cmd := &cobra.Command{
		Use:   "run [message...]",
		Short: "Classify messages and explain each prediction",
		Example: `  # Classify one message
  spamlens run "WINNER!! Claim your free prize now"

  # Several messages at once
  spamlens run "See you at 7" "Free entry in 2 a wkly comp"

  # One message per line from stdin
  cat messages.txt | spamlens run

  # A text or HTML file (HTML is reduced to its visible text)
  spamlens run --file newsletter.html

  # JSON or YAML output
  spamlens run "Call now to win" -o json

  # Use custom model file and show three words per explanation
  spamlens run "Call now to win" --model custom.json --top-k 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			if topK < 0 {
				return fmt.Errorf("--top-k must be >= 0, got %d", topK)
			}

			var messages []string
			switch {
			case file != "":
				messages, err = readFile(file)
			case len(args) > 0:
				messages = args
			case isStdinTerminal():
				return cmd.Help()
			default:
				messages, err = readLines(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				return fmt.Errorf("no messages to classify")
			}

			start := time.Now()
			cl, err := loadModel(modelPath)
			if err != nil {
				return err
			}
			slog.Debug("Model loaded", "vocabulary", cl.Model().VocabSize(), "duration", time.Since(start))

			start = time.Now()
			results, err := cl.PredictAll(cmd.Context(), messages, topK)
			if err != nil {
				return err
			}
			slog.Debug("Classification completed", "messages", len(results), "duration", time.Since(start))
			return writeResults(cmd.OutOrStdout(), format, results)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to model file (default: auto-detect)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read messages from a text or HTML file")
	cmd.Flags().IntVarP(&topK, "top-k", "k", classifier.DefaultTopK, "Number of words in each explanation")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func loadModel(modelPath string) (*spamlens.Classifier, error) {
	if modelPath != "" {
		slog.Debug("Loading custom model", "path", modelPath)
		return spamlens.Load(modelPath)
	}
	return spamlens.New()
}

// readFile returns the messages held in path. HTML documents yield a single
// message made of their visible text; anything textual yields one message
// per non-blank line.
func readFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	mtype := mimetype.Detect(data)
	slog.Debug("Input file detected", "path", path, "mime", mtype.String())

	switch {
	case mtype.Is("text/html") || mtype.Is("application/xhtml+xml"):
		doc, err := htmlutil.LoadHTML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		text := htmlutil.VisibleText(doc)
		if text == "" {
			return nil, nil
		}
		return []string{text}, nil
	case strings.HasPrefix(mtype.String(), "text/"):
		return readLines(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported input type %s", mtype.String())
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lo.Filter(lines, func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	}), nil
}
