package corpus

import (
	"strings"
	"unicode"
)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stopwords map[string]struct{}
	minLen    int
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops, minLen: 2}
}

// SetMinTokenLen sets the minimum token length kept after cleaning.
// The default is 2, which drops single letters.
func (t *Tokenizer) SetMinTokenLen(n int) {
	if n > 0 {
		t.minLen = n
	}
}

// Tokenize splits text into normalized tokens, removing stopwords.
// Letters and digits form tokens; in-word hyphens are preserved so
// compounds like "machine-learning" survive as single terms.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// processToken applies cleaning, length filtering, and stopword removal.
func (t *Tokenizer) processToken(token string) string {
	word := cleanToken(token)
	if len(word) < t.minLen {
		return ""
	}

	// Pure-numeric tokens carry little topical signal. Mixed tokens
	// like "gpt-4" or "utf-8" are kept.
	if isNumericOnly(word) {
		return ""
	}

	if _, stop := t.stopwords[word]; stop {
		return ""
	}
	return word
}

// cleanToken strips leading/trailing hyphens and collapses runs of
// hyphens left behind by URL fragments and markup stripping.
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}

// IsStopword reports whether a word is currently on the stopword list.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}
