// Package classifier scores messages with a fitted TF-IDF + logistic
// regression model and explains each score word by word.
package classifier

import (
	"github.com/happyhackingspace/spamlens/internal/vectorizer"
)

// FormatVersion is the artifact layout version written by Save.
const FormatVersion = 1

// Model holds a fitted spam classifier: the TF-IDF vocabulary and the
// logistic regression coefficients over it. A loaded Model is never mutated,
// so it is safe to share between goroutines.
type Model struct {
	FormatVersion int                         `json:"format_version" msgpack:"format_version"`
	Classes       []Label                     `json:"classes" msgpack:"classes"`
	Tfidf         *vectorizer.TfidfVectorizer `json:"tfidf" msgpack:"tfidf"`
	Coef          []float64                   `json:"coef" msgpack:"coef"`
	Intercept     float64                     `json:"intercept" msgpack:"intercept"`

	// Runtime state (not serialized)
	featureNames []string
}

// NewModel assembles a model from a fitted vectorizer and weights.
func NewModel(tfidf *vectorizer.TfidfVectorizer, w Weights) (*Model, error) {
	m := &Model{
		FormatVersion: FormatVersion,
		Classes:       []Label{NotSpam, Spam},
		Tfidf:         tfidf,
		Coef:          w.Coef,
		Intercept:     w.Intercept,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	m.InitRuntime()
	return m, nil
}

// InitRuntime rebuilds the index->token lookup from the vocabulary.
func (m *Model) InitRuntime() {
	m.featureNames = m.Tfidf.FeatureNames()
}

// Weights returns the model's linear weights.
func (m *Model) Weights() Weights {
	return Weights{Coef: m.Coef, Intercept: m.Intercept}
}

// VocabSize returns the number of features.
func (m *Model) VocabSize() int {
	return m.Tfidf.VocabSize()
}

// Token returns the vocabulary term for a feature index.
func (m *Model) Token(idx int) string {
	if idx < 0 || idx >= len(m.featureNames) {
		return ""
	}
	return m.featureNames[idx]
}

// Vectorize maps a message to its normalized TF-IDF feature vector.
func (m *Model) Vectorize(message string) vectorizer.SparseVector {
	return m.Tfidf.Transform(message)
}

// Predict scores a single message.
func (m *Model) Predict(message string) (Prediction, error) {
	return Score(m.Vectorize(message), m.Weights())
}

// Result is the combined prediction and explanation for one message.
type Result struct {
	Message     string            `json:"message" yaml:"message"`
	Prediction  Label             `json:"prediction" yaml:"prediction"`
	Confidence  float64           `json:"confidence" yaml:"confidence"`
	Explanation []ExplanationItem `json:"explanation" yaml:"explanation"`
}

// PredictAndExplain scores message and explains the score with up to topK
// words. The message is vectorized once and the same vector is used for both
// steps, so the explanation always matches the prediction.
func (m *Model) PredictAndExplain(message string, topK int) (Result, error) {
	v := m.Vectorize(message)
	w := m.Weights()

	pred, err := Score(v, w)
	if err != nil {
		return Result{}, err
	}
	items, err := Explain(v, w, m.Token, topK)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message:     message,
		Prediction:  pred.Label,
		Confidence:  roundTo(pred.Confidence, 3),
		Explanation: items,
	}, nil
}
