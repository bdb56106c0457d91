// Package spamlens classifies short text messages as spam or not spam and
// explains every prediction word by word.
//
// It wraps a TF-IDF vectorizer and a binary logistic regression; each word's
// share of the linear score is reported as a percentage.
//
//	c, _ := spamlens.New()
//	r, _ := c.PredictAndExplain("Win free money now", 3)
//	fmt.Println(r.Prediction)  // "spam"
//	fmt.Println(r.Explanation) // [{win spam 38.2} {free spam 35.1} {money spam 26.7}]
package spamlens

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/happyhackingspace/spamlens/classifier"
	"golang.org/x/sync/errgroup"
)

// DefaultModelFile is the artifact name New searches for.
const DefaultModelFile = "model.json"

// Re-exported artifact errors so callers need not import classifier.
var (
	ErrArtifactMissing   = classifier.ErrArtifactMissing
	ErrArtifactMalformed = classifier.ErrArtifactMalformed
)

// Result holds the prediction and explanation for one message.
type Result = classifier.Result

// ExplanationItem is one word of an explanation.
type ExplanationItem = classifier.ExplanationItem

// Classifier wraps a fitted spam model. It is safe for concurrent use.
type Classifier struct {
	model *classifier.Model
}

// New loads the classifier from "model.json", searching the current directory
// and parent directories up to the module root (where go.mod lives), then
// ModelDir.
func New() (*Classifier, error) {
	path, err := findModel(DefaultModelFile)
	if err != nil {
		return nil, fmt.Errorf("spamlens: %w", err)
	}
	return Load(path)
}

func findModel(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// Stop at module root
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	path := filepath.Join(ModelDir(), name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s not found", classifier.ErrArtifactMissing, name)
}

// ModelDir returns the per-user directory for model artifacts.
func ModelDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "spamlens")
	}
	return filepath.Join(os.TempDir(), "spamlens")
}

// Load loads a trained classifier from a model file.
func Load(path string) (*Classifier, error) {
	m, err := classifier.LoadModel(path)
	if err != nil {
		return nil, fmt.Errorf("spamlens: %w", err)
	}
	return &Classifier{model: m}, nil
}

// FromModel wraps an already fitted model.
func FromModel(m *classifier.Model) *Classifier {
	return &Classifier{model: m}
}

// Model returns the underlying fitted model.
func (c *Classifier) Model() *classifier.Model {
	return c.model
}

// Save writes the classifier to a model file.
func (c *Classifier) Save(path string) error {
	if c.model == nil {
		return errors.New("spamlens: classifier not initialized")
	}
	if err := c.model.Save(path); err != nil {
		return fmt.Errorf("spamlens: %w", err)
	}
	return nil
}

// Predict classifies a message without explaining it.
func (c *Classifier) Predict(message string) (classifier.Prediction, error) {
	if c.model == nil {
		return classifier.Prediction{}, errors.New("spamlens: classifier not initialized")
	}
	p, err := c.model.Predict(message)
	if err != nil {
		return p, fmt.Errorf("spamlens: %w", err)
	}
	return p, nil
}

// PredictAndExplain classifies a message and explains it with up to topK words.
func (c *Classifier) PredictAndExplain(message string, topK int) (Result, error) {
	if c.model == nil {
		return Result{}, errors.New("spamlens: classifier not initialized")
	}
	r, err := c.model.PredictAndExplain(message, topK)
	if err != nil {
		return r, fmt.Errorf("spamlens: %w", err)
	}
	return r, nil
}

// PredictAll runs PredictAndExplain over messages concurrently. Results keep
// the input order. The first error cancels the remaining work.
func (c *Classifier) PredictAll(ctx context.Context, messages []string, topK int) ([]Result, error) {
	results := make([]Result, len(messages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, msg := range messages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.PredictAndExplain(msg, topK)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
