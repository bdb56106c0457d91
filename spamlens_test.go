package spamlens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/happyhackingspace/spamlens/classifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var spamLines = []string{
	"WINNER!! You have won a free prize, call now to claim",
	"Win free money now, text WIN to 80082",
	"Free entry in a weekly competition to win cash",
	"URGENT! Your mobile number has won a cash award, claim today",
	"Congratulations you won a free holiday, call to claim your prize",
	"Claim your free ringtone now, reply WIN",
}

var hamLines = []string{
	"Hey are you coming later?",
	"I'll be home late tonight, save me dinner",
	"Can you pick up milk on the way back",
	"See you at the gym tomorrow morning",
	"Sorry I missed your call, talk later",
	"Running late, meet you at the station",
	"Did you finish the report for tomorrow",
	"Lunch at noon works for me",
}

func writeDataset(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := range max(len(spamLines), len(hamLines)) {
		if i < len(hamLines) {
			fmt.Fprintf(&b, "ham\t%s\n", hamLines[i])
		}
		if i < len(spamLines) {
			fmt.Fprintf(&b, "spam\t%s\n", spamLines[i])
		}
	}
	path := filepath.Join(t.TempDir(), "SMSSpamCollection")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestTrainAndPredict(t *testing.T) {
	path := writeDataset(t)
	cfg := DefaultTrainConfig()
	cfg.TestSize = 0

	c, metrics, err := Train(path, &cfg)
	require.NoError(t, err)
	assert.Zero(t, metrics.Total())

	r, err := c.PredictAndExplain("Win free money now", 3)
	require.NoError(t, err)
	assert.Equal(t, classifier.Spam, r.Prediction)
	assert.Greater(t, r.Confidence, 50.0)
	require.NotEmpty(t, r.Explanation)
	top := make([]string, 0, len(r.Explanation))
	for _, it := range r.Explanation {
		top = append(top, it.Word)
	}
	assert.True(t, contains(top, "free") || contains(top, "win"), "top words %v", top)

	r, err = c.PredictAndExplain("Hey are you coming later?", classifier.DefaultTopK)
	require.NoError(t, err)
	assert.Equal(t, classifier.NotSpam, r.Prediction)

	r, err = c.PredictAndExplain("free cash prize", 0)
	require.NoError(t, err)
	assert.Empty(t, r.Explanation)
}

func TestTrainWithHoldout(t *testing.T) {
	path := writeDataset(t)
	_, metrics, err := Train(path, nil)
	require.NoError(t, err)
	// 5% of each class rounds to one held-out message per class
	assert.Equal(t, 2, metrics.Total())
}

func TestTrainRejectsTestSize(t *testing.T) {
	path := writeDataset(t)
	for _, size := range []float64{-0.1, 1, 1.5} {
		cfg := DefaultTrainConfig()
		cfg.TestSize = size
		c, _, err := Train(path, &cfg)
		require.Error(t, err, "test size %v", size)
		assert.Contains(t, err.Error(), "test size")
		assert.Nil(t, c)
	}
}

func TestTrainMissingDataset(t *testing.T) {
	_, _, err := Train(filepath.Join(t.TempDir(), "none"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEvaluate(t *testing.T) {
	path := writeDataset(t)
	res, err := Evaluate(path, &EvalConfig{Folds: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Folds)
	assert.Equal(t, 14, res.Samples)
	assert.Equal(t, 6, res.Spam)
	assert.Equal(t, 14, res.Metrics.Total())
	assert.Len(t, res.PerFold, 3)
	assert.GreaterOrEqual(t, res.Metrics.Accuracy(), 0.0)
	assert.LessOrEqual(t, res.Metrics.Accuracy(), 1.0)
}

func TestMetrics(t *testing.T) {
	var m Metrics
	m.Add(true, true)
	m.Add(true, true)
	m.Add(true, false)
	m.Add(false, true)
	m.Add(false, false)

	assert.Equal(t, 5, m.Total())
	assert.InDelta(t, 0.6, m.Accuracy(), 1e-12)
	assert.InDelta(t, 2.0/3, m.Precision(), 1e-12)
	assert.InDelta(t, 2.0/3, m.Recall(), 1e-12)
	assert.InDelta(t, 2.0/3, m.F1(), 1e-12)

	var empty Metrics
	assert.Zero(t, empty.Accuracy())
	assert.Zero(t, empty.F1())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := writeDataset(t)
	cfg := DefaultTrainConfig()
	cfg.TestSize = 0
	c, _, err := Train(path, &cfg)
	require.NoError(t, err)

	modelPath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, c.Save(modelPath))
	loaded, err := Load(modelPath)
	require.NoError(t, err)

	for _, msg := range append(spamLines, hamLines...) {
		want, err := c.PredictAndExplain(msg, 5)
		require.NoError(t, err)
		got, err := loaded.PredictAndExplain(msg, 5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "model.json"))
	require.ErrorIs(t, err, ErrArtifactMissing)

	bad := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"format_version":1}`), 0644))
	_, err = Load(bad)
	require.ErrorIs(t, err, ErrArtifactMalformed)
}

func TestUninitializedClassifier(t *testing.T) {
	var c Classifier
	_, err := c.PredictAndExplain("hi", 5)
	require.Error(t, err)
	require.Error(t, c.Save(filepath.Join(t.TempDir(), "m.json")))
}

func TestPredictAll(t *testing.T) {
	path := writeDataset(t)
	cfg := DefaultTrainConfig()
	cfg.TestSize = 0
	c, _, err := Train(path, &cfg)
	require.NoError(t, err)

	messages := append(append([]string{}, spamLines...), hamLines...)
	results, err := c.PredictAll(context.Background(), messages, 3)
	require.NoError(t, err)
	require.Len(t, results, len(messages))
	for i, r := range results {
		assert.Equal(t, messages[i], r.Message)
		want, err := c.PredictAndExplain(messages[i], 3)
		require.NoError(t, err)
		assert.Equal(t, want, r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.PredictAll(ctx, messages, 3)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPublishedModel(t *testing.T) {
	modelPath := "model.json"
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		t.Skip("model.json not found, skipping")
	}

	c, err := Load(modelPath)
	require.NoError(t, err)

	r, err := c.PredictAndExplain("Win free money now", 3)
	require.NoError(t, err)
	assert.Equal(t, classifier.Spam, r.Prediction)

	r, err = c.PredictAndExplain("Hey are you coming later?", 5)
	require.NoError(t, err)
	assert.Equal(t, classifier.NotSpam, r.Prediction)
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
