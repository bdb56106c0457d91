// Package dataset reads the SMS Spam Collection: one labeled message per line,
// "ham" or "spam", a tab, then the message text.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/net/html/charset"
)

// FileName is the name of the data file inside the published archive.
const FileName = "SMSSpamCollection"

var (
	// ErrUnexpectedLabel is returned for a line whose label is neither ham nor spam.
	ErrUnexpectedLabel = errors.New("unexpected label")
	// ErrEmptyDataset is returned when a dataset holds no messages.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Sample is one labeled message.
type Sample struct {
	Text string
	Spam bool
}

// Dataset is an ordered list of labeled messages.
type Dataset []Sample

// Texts returns the message texts.
func (d Dataset) Texts() []string {
	return lo.Map(d, func(s Sample, _ int) string { return s.Text })
}

// Labels returns true for every spam message.
func (d Dataset) Labels() []bool {
	return lo.Map(d, func(s Sample, _ int) bool { return s.Spam })
}

// SpamCount returns the number of spam messages.
func (d Dataset) SpamCount() int {
	return lo.CountBy(d, func(s Sample) bool { return s.Spam })
}

// Subset returns the samples at the given indices.
func (d Dataset) Subset(indices []int) Dataset {
	return lo.Map(indices, func(i int, _ int) Sample { return d[i] })
}

// Load reads a dataset file.
func Load(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads Latin-1 encoded "label<TAB>text" lines. Blank lines are skipped.
func Parse(r io.Reader) (Dataset, error) {
	dr, err := charset.NewReaderLabel("latin1", r)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	var ds Dataset
	sc := bufio.NewScanner(dr)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		label, text, ok := strings.Cut(raw, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		var spam bool
		switch label {
		case "spam":
			spam = true
		case "ham":
		default:
			return nil, fmt.Errorf("line %d: %w %q", line, ErrUnexpectedLabel, label)
		}
		ds = append(ds, Sample{Text: text, Spam: spam})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}
