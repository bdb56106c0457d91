package classifier

import (
	"cmp"
	"math"
	"slices"

	"github.com/happyhackingspace/spamlens/internal/vectorizer"
)

// DefaultTopK is the number of explanation items returned when none is requested.
const DefaultTopK = 5

// Contribution is one feature's signed share of the linear score.
type Contribution struct {
	Index int
	Value float64
}

// ExplanationItem describes how much one word pushed the prediction.
type ExplanationItem struct {
	Word      string  `json:"word" yaml:"word"`
	Direction Label   `json:"direction" yaml:"direction"`
	Percent   float64 `json:"percent" yaml:"percent"`
}

// Contributions returns every non-zero contribution of v under w, ranked by
// magnitude descending with ties broken by ascending feature index.
func Contributions(v vectorizer.SparseVector, w Weights) ([]Contribution, error) {
	if err := w.checkDim(v); err != nil {
		return nil, err
	}
	contribs := make([]Contribution, 0, v.Nnz())
	for i, idx := range v.Indices {
		if v.Values[i] == 0 {
			continue
		}
		c := v.Values[i] * w.Coef[idx]
		if c == 0 {
			continue
		}
		contribs = append(contribs, Contribution{Index: idx, Value: c})
	}
	slices.SortFunc(contribs, func(a, b Contribution) int {
		if r := cmp.Compare(math.Abs(b.Value), math.Abs(a.Value)); r != 0 {
			return r
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return contribs, nil
}

// Explain returns at most topK explanation items for v. Percentages are
// relative to the absolute contributions of all non-zero features, so the
// returned subset need not sum to 100. A topK of zero or less yields an
// empty, non-nil slice.
func Explain(v vectorizer.SparseVector, w Weights, lookup func(int) string, topK int) ([]ExplanationItem, error) {
	contribs, err := Contributions(v, w)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, c := range contribs {
		total += math.Abs(c.Value)
	}
	if total == 0 {
		total = 1
	}

	n := min(max(topK, 0), len(contribs))
	items := make([]ExplanationItem, 0, n)
	for _, c := range contribs[:n] {
		dir := NotSpam
		if c.Value > 0 {
			dir = Spam
		}
		items = append(items, ExplanationItem{
			Word:      lookup(c.Index),
			Direction: dir,
			Percent:   roundTo(100*math.Abs(c.Value)/total, 2),
		})
	}
	return items, nil
}

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
