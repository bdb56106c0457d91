// Package textutil provides text processing utilities for message classification.
package textutil

import (
	"regexp"
	"strings"
)

// tokenizeRe keeps word runs of two or more characters, matching the
// (?u)\b\w\w+\b token pattern the models are fitted with.
var tokenizeRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Tokenize extracts word tokens from text. Single-character words are dropped.
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// TokenNgrams returns n-grams from a list of tokens, joined by space.
func TokenNgrams(tokens []string, minN, maxN int) []string {
	tLen := len(tokens)
	var res []string
	for n := minN; n <= maxN && n <= tLen; n++ {
		for i := 0; i <= tLen-n; i++ {
			res = append(res, strings.Join(tokens[i:i+n], " "))
		}
	}
	return res
}

// RemoveStopWords returns tokens not present in stop, preserving order.
// A nil or empty stop set returns tokens unchanged.
func RemoveStopWords(tokens []string, stop map[string]bool) []string {
	if len(stop) == 0 {
		return tokens
	}
	kept := tokens[:0:0]
	for _, tok := range tokens {
		if !stop[tok] {
			kept = append(kept, tok)
		}
	}
	return kept
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines and multiple whitespace with a single space.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}
