package classifier

import (
	"fmt"
	"math"

	"github.com/happyhackingspace/spamlens/internal/vectorizer"
)

// Label is a binary class label. It doubles as the direction of a contribution.
type Label string

const (
	Spam    Label = "spam"
	NotSpam Label = "not_spam"
)

// Weights holds a fitted linear classifier: one signed coefficient per
// feature (positive pushes toward spam) and a bias.
type Weights struct {
	Coef      []float64
	Intercept float64
}

// Decision returns the raw linear score dot(v, coef) + intercept.
func (w Weights) Decision(v vectorizer.SparseVector) (float64, error) {
	if err := w.checkDim(v); err != nil {
		return 0, err
	}
	return v.Dot(w.Coef) + w.Intercept, nil
}

func (w Weights) checkDim(v vectorizer.SparseVector) error {
	if v.Dim != len(w.Coef) {
		return fmt.Errorf("%w: vector has %d features, weights have %d", ErrDimensionMismatch, v.Dim, len(w.Coef))
	}
	return nil
}

// Prediction is the scored outcome for one feature vector.
type Prediction struct {
	Label       Label
	Score       float64
	ProbSpam    float64
	ProbNotSpam float64
	// Confidence is 100 * max(ProbSpam, ProbNotSpam).
	Confidence float64
}

// Score applies the weights to v. The result is labeled Spam only when
// ProbSpam > 0.5, so a spam probability of exactly 0.5 is labeled NotSpam.
func Score(v vectorizer.SparseVector, w Weights) (Prediction, error) {
	raw, err := w.Decision(v)
	if err != nil {
		return Prediction{}, err
	}
	pSpam := sigmoid(raw)
	p := Prediction{
		Label:       NotSpam,
		Score:       raw,
		ProbSpam:    pSpam,
		ProbNotSpam: 1 - pSpam,
	}
	if pSpam > 0.5 {
		p.Label = Spam
	}
	p.Confidence = 100 * math.Max(p.ProbSpam, p.ProbNotSpam)
	return p, nil
}

// sigmoid is the logistic function, split by sign so exp never overflows.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
