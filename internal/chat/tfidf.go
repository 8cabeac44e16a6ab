// Package chat answers questions about indexed teacher and student profiles.
// Profiles are summarized into short documents, embedded with a local TF-IDF
// vectorizer, and the most relevant summaries ground the model's answer.
package chat

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// tfidfEmbedder vectorizes documents against a vocabulary built from the
// indexed corpus. Vectors are L2-normalized so dot product equals cosine
// similarity.
type tfidfEmbedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
}

// fit builds the vocabulary and smoothed IDF values from the corpus.
func fitEmbedder(corpus []string) *tfidfEmbedder {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e := &tfidfEmbedder{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		dimension:  len(terms),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return e
}

// embed computes the normalized TF-IDF vector for text. Tokens outside the
// vocabulary contribute nothing, so an off-topic query yields a zero vector.
func (e *tfidfEmbedder) embed(text string) []float64 {
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
