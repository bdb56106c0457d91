package spamlens

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/spamlens/classifier"
	"github.com/happyhackingspace/spamlens/internal/dataset"
)

// TrainConfig holds configuration for training.
type TrainConfig struct {
	// TestSize is the held-out fraction of each class; 0 trains on everything.
	TestSize float64
	Seed     uint64
	C        float64
	MaxIter  int
	Verbose  bool
}

// DefaultTrainConfig returns the default training configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		TestSize: 0.05,
		Seed:     67,
		C:        1.0,
		MaxIter:  1000,
	}
}

// EvalConfig holds configuration for evaluation.
type EvalConfig struct {
	Folds   int
	Seed    uint64
	Verbose bool
}

// Metrics summarizes binary classification quality with spam as the positive class.
type Metrics struct {
	TruePositive  int `json:"true_positive"`
	FalsePositive int `json:"false_positive"`
	TrueNegative  int `json:"true_negative"`
	FalseNegative int `json:"false_negative"`
}

// Add records one prediction.
func (m *Metrics) Add(predictedSpam, actualSpam bool) {
	switch {
	case predictedSpam && actualSpam:
		m.TruePositive++
	case predictedSpam:
		m.FalsePositive++
	case actualSpam:
		m.FalseNegative++
	default:
		m.TrueNegative++
	}
}

// Merge adds the counts of other.
func (m *Metrics) Merge(other Metrics) {
	m.TruePositive += other.TruePositive
	m.FalsePositive += other.FalsePositive
	m.TrueNegative += other.TrueNegative
	m.FalseNegative += other.FalseNegative
}

// Total returns the number of recorded predictions.
func (m Metrics) Total() int {
	return m.TruePositive + m.FalsePositive + m.TrueNegative + m.FalseNegative
}

// Accuracy returns the fraction of correct predictions.
func (m Metrics) Accuracy() float64 {
	return ratio(m.TruePositive+m.TrueNegative, m.Total())
}

// Precision returns TP / (TP + FP).
func (m Metrics) Precision() float64 {
	return ratio(m.TruePositive, m.TruePositive+m.FalsePositive)
}

// Recall returns TP / (TP + FN).
func (m Metrics) Recall() float64 {
	return ratio(m.TruePositive, m.TruePositive+m.FalseNegative)
}

// F1 returns the harmonic mean of precision and recall.
func (m Metrics) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// EvalResult holds cross-validation evaluation results.
type EvalResult struct {
	Folds   int
	Samples int
	Spam    int
	Metrics Metrics
	PerFold []Metrics
}

// Train trains a classifier on the SMS Spam Collection file at datasetPath.
// When config.TestSize > 0 a stratified part of the data is held out and the
// returned metrics describe it; otherwise the metrics are zero.
func Train(datasetPath string, config *TrainConfig) (*Classifier, Metrics, error) {
	cfg := DefaultTrainConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.TestSize < 0 || cfg.TestSize >= 1 {
		return nil, Metrics{}, fmt.Errorf("spamlens: test size must be in [0, 1), got %v", cfg.TestSize)
	}

	ds, err := dataset.Load(datasetPath)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("spamlens: %w", err)
	}
	slog.Debug("Dataset loaded", "samples", len(ds), "spam", ds.SpamCount())

	trainSet, testSet := ds, dataset.Dataset(nil)
	if cfg.TestSize > 0 {
		trainIdx, testIdx := dataset.StratifiedSplit(ds.Labels(), cfg.TestSize, cfg.Seed)
		trainSet, testSet = ds.Subset(trainIdx), ds.Subset(testIdx)
	}

	model, err := fit(trainSet, cfg.C, cfg.MaxIter, cfg.Verbose)
	if err != nil {
		return nil, Metrics{}, err
	}
	metrics, err := score(model, testSet)
	if err != nil {
		return nil, Metrics{}, err
	}
	return &Classifier{model: model}, metrics, nil
}

// Evaluate runs stratified k-fold cross-validation on the dataset at datasetPath.
func Evaluate(datasetPath string, config *EvalConfig) (*EvalResult, error) {
	nFolds := 10
	var seed uint64 = 67
	verbose := false
	if config != nil {
		if config.Folds > 0 {
			nFolds = config.Folds
		}
		if config.Seed != 0 {
			seed = config.Seed
		}
		verbose = config.Verbose
	}

	ds, err := dataset.Load(datasetPath)
	if err != nil {
		return nil, fmt.Errorf("spamlens: %w", err)
	}

	folds := dataset.StratifiedKFold(ds.Labels(), nFolds, seed)
	result := &EvalResult{
		Folds:   len(folds),
		Samples: len(ds),
		Spam:    ds.SpamCount(),
	}
	for i, testIdx := range folds {
		trainIdx := dataset.Complement(len(ds), testIdx)
		model, err := fit(ds.Subset(trainIdx), 0, 0, verbose)
		if err != nil {
			return nil, err
		}
		m, err := score(model, ds.Subset(testIdx))
		if err != nil {
			return nil, err
		}
		slog.Debug("Fold evaluated", "fold", i+1, "accuracy", m.Accuracy())
		result.PerFold = append(result.PerFold, m)
		result.Metrics.Merge(m)
	}
	return result, nil
}

func fit(ds dataset.Dataset, c float64, maxIter int, verbose bool) (*classifier.Model, error) {
	cfg := classifier.DefaultTrainConfig()
	if c > 0 {
		cfg.C = c
	}
	if maxIter > 0 {
		cfg.MaxIter = maxIter
	}
	cfg.Verbose = verbose
	model, err := classifier.Train(ds.Texts(), ds.Labels(), cfg)
	if err != nil {
		return nil, fmt.Errorf("spamlens: %w", err)
	}
	return model, nil
}

func score(model *classifier.Model, ds dataset.Dataset) (Metrics, error) {
	var m Metrics
	for _, s := range ds {
		p, err := model.Predict(s.Text)
		if err != nil {
			return Metrics{}, fmt.Errorf("spamlens: %w", err)
		}
		m.Add(p.Label == classifier.Spam, s.Spam)
	}
	return m, nil
}
