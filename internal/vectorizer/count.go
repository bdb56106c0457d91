package vectorizer

import (
	"sort"
	"strings"

	"github.com/happyhackingspace/spamlens/internal/textutil"
)

// CountVectorizer converts text to token count vectors.
type CountVectorizer struct {
	Vocabulary map[string]int  `json:"vocabulary" msgpack:"vocabulary"`
	NgramRange [2]int          `json:"ngram_range" msgpack:"ngram_range"`
	Binary     bool            `json:"binary" msgpack:"binary"`
	MinDF      int             `json:"min_df" msgpack:"min_df"`
	StopWords  map[string]bool `json:"stop_words,omitempty" msgpack:"stop_words,omitempty"`
}

// NewCountVectorizer creates a CountVectorizer with default settings.
func NewCountVectorizer(ngramRange [2]int, binary bool, minDF int, stopWords map[string]bool) *CountVectorizer {
	if ngramRange[0] < 1 {
		ngramRange[0] = 1
	}
	if ngramRange[1] < ngramRange[0] {
		ngramRange[1] = ngramRange[0]
	}
	if minDF < 1 {
		minDF = 1
	}
	return &CountVectorizer{
		NgramRange: ngramRange,
		Binary:     binary,
		MinDF:      minDF,
		StopWords:  stopWords,
	}
}

// analyze lowercases, tokenizes, drops stop words and builds word n-grams.
func (cv *CountVectorizer) analyze(text string) []string {
	tokens := textutil.Tokenize(strings.ToLower(text))
	tokens = textutil.RemoveStopWords(tokens, cv.StopWords)
	if cv.NgramRange == [2]int{1, 1} || cv.NgramRange == [2]int{} {
		return tokens
	}
	return textutil.TokenNgrams(tokens, cv.NgramRange[0], cv.NgramRange[1])
}

// Fit builds the vocabulary from a corpus.
func (cv *CountVectorizer) Fit(corpus []string) {
	// Count document frequency for each term
	dfCounts := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, f := range cv.analyze(doc) {
			if !seen[f] {
				dfCounts[f]++
				seen[f] = true
			}
		}
	}

	// Sort terms for deterministic ordering
	terms := make([]string, 0, len(dfCounts))
	for term, count := range dfCounts {
		if count >= cv.MinDF {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	cv.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		cv.Vocabulary[term] = i
	}
}

// FitTransform fits the vocabulary and transforms the corpus.
func (cv *CountVectorizer) FitTransform(corpus []string) []SparseVector {
	cv.Fit(corpus)
	result := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		result[i] = cv.Transform(doc)
	}
	return result
}

// Transform converts a single document to a sparse vector of raw term counts
// (or 1.0 per present term when Binary is set). Unknown terms are ignored.
func (cv *CountVectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, f := range cv.analyze(text) {
		if idx, ok := cv.Vocabulary[f]; ok {
			if cv.Binary {
				counts[idx] = 1.0
			} else {
				counts[idx]++
			}
		}
	}
	return newSparseFromCounts(len(cv.Vocabulary), counts)
}

// VocabSize returns the vocabulary size.
func (cv *CountVectorizer) VocabSize() int {
	return len(cv.Vocabulary)
}

// FeatureNames returns the vocabulary terms ordered by feature index.
func (cv *CountVectorizer) FeatureNames() []string {
	names := make([]string, len(cv.Vocabulary))
	for term, idx := range cv.Vocabulary {
		if idx >= 0 && idx < len(names) {
			names[idx] = term
		}
	}
	return names
}
