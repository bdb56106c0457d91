package classifier

import "errors"

var (
	// ErrArtifactMissing is returned when no model artifact exists at the given path.
	ErrArtifactMissing = errors.New("model artifact missing")
	// ErrArtifactMalformed is returned when an artifact exists but cannot be decoded
	// or its vocabulary and weights are inconsistent.
	ErrArtifactMalformed = errors.New("model artifact malformed")
	// ErrDimensionMismatch is returned when a feature vector and a weight vector disagree on size.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	// ErrEmptyTrainingSet is returned by Train when there is nothing to fit.
	ErrEmptyTrainingSet = errors.New("empty training set")
)
