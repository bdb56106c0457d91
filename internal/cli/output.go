package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/happyhackingspace/spamlens"
	"github.com/happyhackingspace/spamlens/classifier"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

func writeResults(w io.Writer, format outputFormat, results []spamlens.Result) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		return enc.Encode(results)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		var err error
		if len(results) == 1 {
			err = enc.Encode(results[0])
		} else {
			err = enc.Encode(results)
		}
		if err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, r := range results {
			writeText(w, r)
		}
		return nil
	}
}

var (
	spamColor    = color.New(color.FgRed, color.Bold)
	notSpamColor = color.New(color.FgGreen, color.Bold)
	faint        = color.New(color.Faint)
)

func writeText(w io.Writer, r spamlens.Result) {
	fmt.Fprintf(w, "\n%q\n\n", r.Message)
	if r.Prediction == classifier.Spam {
		fmt.Fprintf(w, "Prediction: %s\n", spamColor.Sprint("SPAM"))
	} else {
		fmt.Fprintf(w, "Prediction: %s\n", notSpamColor.Sprint("NOT SPAM"))
	}
	fmt.Fprintf(w, "Confidence: %.3f%%\n", r.Confidence)

	if len(r.Explanation) > 0 {
		fmt.Fprintf(w, "\nWhy? %s\n", faint.Sprint("(percentages are relative contributions of words, not probabilities)"))
		for _, item := range r.Explanation {
			direction := notSpamColor.Sprint("decreased")
			if item.Direction == classifier.Spam {
				direction = spamColor.Sprint("increased")
			}
			fmt.Fprintf(w, "• %q %s spam likelihood by %.2f%%\n", item.Word, direction, item.Percent)
		}
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 50))
}
