package vectorizer

import (
	"math"
)

// TfidfVectorizer converts text to L2-normalized TF-IDF weighted vectors.
// Value for a present term = count(term) * IDF[term], then the whole vector is
// divided by its Euclidean norm.
type TfidfVectorizer struct {
	CountVec *CountVectorizer `json:"count_vec" msgpack:"count_vec"`
	IDF      []float64        `json:"idf" msgpack:"idf"`
}

// NewTfidfVectorizer creates a TfidfVectorizer.
func NewTfidfVectorizer(ngramRange [2]int, minDF int, binary bool, stopWords map[string]bool) *TfidfVectorizer {
	return &TfidfVectorizer{
		CountVec: NewCountVectorizer(ngramRange, binary, minDF, stopWords),
	}
}

// Fit computes IDF values from a corpus.
func (tv *TfidfVectorizer) Fit(corpus []string) {
	tv.CountVec.Fit(corpus)

	nDocs := float64(len(corpus))
	vocabSize := tv.CountVec.VocabSize()
	tv.IDF = make([]float64, vocabSize)

	df := make([]float64, vocabSize)
	for _, doc := range corpus {
		sv := tv.CountVec.Transform(doc)
		for _, idx := range sv.Indices {
			df[idx]++
		}
	}

	// sklearn smooth IDF: log((1 + n) / (1 + df)) + 1
	for i := range vocabSize {
		tv.IDF[i] = math.Log((1+nDocs)/(1+df[i])) + 1
	}
}

// FitTransform fits and transforms the corpus.
func (tv *TfidfVectorizer) FitTransform(corpus []string) []SparseVector {
	tv.Fit(corpus)
	result := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		result[i] = tv.Transform(doc)
	}
	return result
}

// Transform converts a single document to a TF-IDF sparse vector.
// Text with no known terms yields an empty vector of full dimension.
func (tv *TfidfVectorizer) Transform(text string) SparseVector {
	sv := tv.CountVec.Transform(text)
	for i, idx := range sv.Indices {
		if idx < len(tv.IDF) {
			sv.Values[i] *= tv.IDF[idx]
		}
	}
	sv.Normalize()
	return sv
}

// VocabSize returns the vocabulary size.
func (tv *TfidfVectorizer) VocabSize() int {
	return tv.CountVec.VocabSize()
}

// FeatureNames returns the vocabulary terms ordered by feature index.
func (tv *TfidfVectorizer) FeatureNames() []string {
	return tv.CountVec.FeatureNames()
}

// EnglishStopWords returns sklearn's built-in English stop word set.
func EnglishStopWords() map[string]bool {
	words := []string{
		"a", "about", "above", "across", "after", "afterwards", "again", "against",
		"all", "almost", "alone", "along", "already", "also", "although", "always",
		"am", "among", "amongst", "amoungst", "amount", "an", "and", "another",
		"any", "anyhow", "anyone", "anything", "anyway", "anywhere", "are",
		"around", "as", "at", "back", "be", "became", "because", "become",
		"becomes", "becoming", "been", "before", "beforehand", "behind", "being",
		"below", "beside", "besides", "between", "beyond", "bill", "both",
		"bottom", "but", "by", "call", "can", "cannot", "cant", "co", "con",
		"could", "couldnt", "cry", "de", "describe", "detail", "do", "done",
		"down", "due", "during", "each", "eg", "eight", "either", "eleven", "else",
		"elsewhere", "empty", "enough", "etc", "even", "ever", "every", "everyone",
		"everything", "everywhere", "except", "few", "fifteen", "fifty", "fill",
		"find", "fire", "first", "five", "for", "former", "formerly", "forty",
		"found", "four", "from", "front", "full", "further", "get", "give", "go",
		"had", "has", "hasnt", "have", "he", "hence", "her", "here", "hereafter",
		"hereby", "herein", "hereupon", "hers", "herself", "him", "himself", "his",
		"how", "however", "hundred", "i", "ie", "if", "in", "inc", "indeed",
		"interest", "into", "is", "it", "its", "itself", "keep", "last", "latter",
		"latterly", "least", "less", "ltd", "made", "many", "may", "me",
		"meanwhile", "might", "mill", "mine", "more", "moreover", "most", "mostly",
		"move", "much", "must", "my", "myself", "name", "namely", "neither",
		"never", "nevertheless", "next", "nine", "no", "nobody", "none", "noone",
		"nor", "not", "nothing", "now", "nowhere", "of", "off", "often", "on",
		"once", "one", "only", "onto", "or", "other", "others", "otherwise", "our",
		"ours", "ourselves", "out", "over", "own", "part", "per", "perhaps",
		"please", "put", "rather", "re", "same", "see", "seem", "seemed",
		"seeming", "seems", "serious", "several", "she", "should", "show", "side",
		"since", "sincere", "six", "sixty", "so", "some", "somehow", "someone",
		"something", "sometime", "sometimes", "somewhere", "still", "such",
		"system", "take", "ten", "than", "that", "the", "their", "them",
		"themselves", "then", "thence", "there", "thereafter", "thereby",
		"therefore", "therein", "thereupon", "these", "they", "thick", "thin",
		"third", "this", "those", "though", "three", "through", "throughout",
		"thru", "thus", "to", "together", "too", "top", "toward", "towards",
		"twelve", "twenty", "two", "un", "under", "until", "up", "upon", "us",
		"very", "via", "was", "we", "well", "were", "what", "whatever", "when",
		"whence", "whenever", "where", "whereafter", "whereas", "whereby",
		"wherein", "whereupon", "wherever", "whether", "which", "while", "whither",
		"who", "whoever", "whole", "whom", "whose", "why", "will", "with",
		"within", "without", "would", "yet", "you", "your", "yours", "yourself",
		"yourselves",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
