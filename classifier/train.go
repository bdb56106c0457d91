package classifier

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/happyhackingspace/spamlens/internal/vectorizer"
)

// TrainConfig holds training configuration.
type TrainConfig struct {
	// C is the inverse L2 regularization strength.
	C       float64
	MaxIter int
	// Tol stops training once the largest gradient component falls below it.
	Tol        float64
	MinDF      int
	NgramRange [2]int
	// StopWords defaults to EnglishStopWords when nil. Use an empty map to disable.
	StopWords map[string]bool
	Verbose   bool
}

// DefaultTrainConfig returns the default training config.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		C:          1.0,
		MaxIter:    1000,
		Tol:        1e-4,
		MinDF:      1,
		NgramRange: [2]int{1, 1},
	}
}

// Train fits a TF-IDF vectorizer and an L2-regularized binary logistic
// regression on messages. labels[i] reports whether messages[i] is spam.
func Train(messages []string, labels []bool, config TrainConfig) (*Model, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(messages) != len(labels) {
		return nil, fmt.Errorf("train: %d messages but %d labels", len(messages), len(labels))
	}
	if config.C <= 0 {
		config.C = 1.0
	}
	if config.MaxIter <= 0 {
		config.MaxIter = 1000
	}
	if config.Tol <= 0 {
		config.Tol = 1e-4
	}
	stopWords := config.StopWords
	if stopWords == nil {
		stopWords = vectorizer.EnglishStopWords()
	}

	tv := vectorizer.NewTfidfVectorizer(config.NgramRange, config.MinDF, false, stopWords)
	x := tv.FitTransform(messages)
	dim := tv.VocabSize()

	y := make([]float64, len(labels))
	for i, spam := range labels {
		if spam {
			y[i] = 1
		}
	}

	params := fitLogReg(x, y, dim, config)
	w := Weights{
		Coef:      params[:dim],
		Intercept: params[dim],
	}
	return NewModel(tv, w)
}

// fitLogReg minimizes the regularized log loss with L-BFGS. The returned slice
// holds dim coefficients followed by the intercept.
func fitLogReg(x []vectorizer.SparseVector, y []float64, dim int, config TrainConfig) []float64 {
	numParams := dim + 1
	params := make([]float64, numParams)
	reg := 1.0 / config.C

	opt := newLBFGS(10)
	loss, grad := logRegObjective(x, y, params, dim, reg)
	for iter := range config.MaxIter {
		if maxAbs(grad) < config.Tol {
			slog.Debug("Logistic regression converged", "iter", iter, "loss", loss)
			break
		}
		if config.Verbose && iter%50 == 0 {
			slog.Debug("Logistic regression", "iter", iter, "loss", loss)
		}

		dir := opt.computeDirection(grad)
		step, newLoss, newParams := logRegLineSearch(x, y, params, dir, dim, reg, loss)
		if step == 0 {
			break
		}
		_, newGrad := logRegObjective(x, y, newParams, dim, reg)

		s := make([]float64, numParams)
		yVec := make([]float64, numParams)
		for i := range numParams {
			s[i] = newParams[i] - params[i]
			yVec[i] = newGrad[i] - grad[i]
		}
		opt.update(s, yVec)

		params, loss, grad = newParams, newLoss, newGrad
	}
	return params
}

// logRegObjective returns sum(log loss) + reg/2 * ||coef||^2 and its gradient.
// The intercept is not penalized.
func logRegObjective(x []vectorizer.SparseVector, y, params []float64, dim int, reg float64) (float64, []float64) {
	grad := make([]float64, len(params))
	coef := params[:dim]
	intercept := params[dim]
	loss := 0.0

	for j, xj := range x {
		z := xj.Dot(coef) + intercept
		// log(1 + e^z) - y*z, computed without overflow
		loss += softplus(z) - y[j]*z
		diff := sigmoid(z) - y[j]
		for i, idx := range xj.Indices {
			grad[idx] += diff * xj.Values[i]
		}
		grad[dim] += diff
	}

	for i := range dim {
		loss += 0.5 * reg * coef[i] * coef[i]
		grad[i] += reg * coef[i]
	}
	return loss, grad
}

func logRegLineSearch(x []vectorizer.SparseVector, y, params, dir []float64, dim int, reg, currentLoss float64) (float64, float64, []float64) {
	step := 1.0
	wNew := make([]float64, len(params))
	for range 30 {
		for i := range params {
			wNew[i] = params[i] + step*dir[i]
		}
		newLoss, _ := logRegObjective(x, y, wNew, dim, reg)
		if newLoss < currentLoss {
			return step, newLoss, wNew
		}
		step *= 0.5
	}
	return 0, currentLoss, params
}

func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, g := range v {
		m = max(m, math.Abs(g))
	}
	return m
}

// lbfgs keeps the last m curvature pairs for the two-loop recursion.
type lbfgs struct {
	m    int
	s    [][]float64
	y    [][]float64
	rho  []float64
	k    int
	size int
}

func newLBFGS(m int) *lbfgs {
	return &lbfgs{
		m:   m,
		s:   make([][]float64, m),
		y:   make([][]float64, m),
		rho: make([]float64, m),
	}
}

func (l *lbfgs) update(s, y []float64) {
	sy := dot(s, y)
	if sy <= 0 {
		return
	}
	idx := l.k % l.m
	l.s[idx] = s
	l.y[idx] = y
	l.rho[idx] = 1.0 / sy
	l.k++
	if l.size < l.m {
		l.size++
	}
}

// computeDirection returns the descent direction -H*grad.
func (l *lbfgs) computeDirection(grad []float64) []float64 {
	q := make([]float64, len(grad))
	copy(q, grad)

	if l.size == 0 {
		for i := range q {
			q[i] = -q[i]
		}
		return q
	}

	// slot of the i-th stored pair, oldest first
	slot := func(i int) int {
		return (l.k - l.size + i) % l.m
	}

	alpha := make([]float64, l.size)
	for i := l.size - 1; i >= 0; i-- {
		idx := slot(i)
		alpha[i] = l.rho[idx] * dot(l.s[idx], q)
		for j := range q {
			q[j] -= alpha[i] * l.y[idx][j]
		}
	}

	latest := slot(l.size - 1)
	if yy := dot(l.y[latest], l.y[latest]); yy > 0 {
		gamma := dot(l.s[latest], l.y[latest]) / yy
		for i := range q {
			q[i] *= gamma
		}
	}

	for i := range l.size {
		idx := slot(i)
		beta := l.rho[idx] * dot(l.y[idx], q)
		for j := range q {
			q[j] += (alpha[i] - beta) * l.s[idx][j]
		}
	}

	for i := range q {
		q[i] = -q[i]
	}
	return q
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
