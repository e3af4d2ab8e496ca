package corpus

import (
	"sort"

	"github.com/cognicore/topika/pkg/topika/dtm"
)

// Builder accumulates tokenized documents and assembles a sparse
// document-term matrix over the vocabulary it has seen.
//
// Vocabulary pruning happens at Matrix time, so the thresholds can be
// changed up to that point:
//   - MinDF drops terms appearing in fewer than MinDF documents;
//   - MaxDFShare drops terms appearing in more than that share of all
//     documents (near-ubiquitous terms dominate every topic otherwise).
//
// A document that loses all its terms to pruning surfaces as the
// matrix validation error for empty rows.
type Builder struct {
	// MinDF is the minimum document frequency for a term to be kept.
	// Zero or one keeps everything.
	MinDF int
	// MaxDFShare is the maximum fraction of documents a term may
	// appear in. Zero disables the ceiling.
	MaxDFShare float64

	tok    *Tokenizer
	docs   [][]string
	labels []string
	df     map[string]int
}

// NewBuilder creates a Builder using the given tokenizer.
func NewBuilder(tok *Tokenizer) *Builder {
	if tok == nil {
		tok = NewTokenizer(nil)
	}
	return &Builder{
		tok: tok,
		df:  make(map[string]int),
	}
}

// Add tokenizes one document and records it under the given label.
func (b *Builder) Add(label, text string) {
	tokens := b.tok.Tokenize(text)
	b.docs = append(b.docs, tokens)
	b.labels = append(b.labels, label)

	seen := make(map[string]struct{}, len(tokens))
	for _, w := range tokens {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		b.df[w]++
	}
}

// Len returns the number of documents added so far.
func (b *Builder) Len() int { return len(b.docs) }

// Labels returns the document labels in add order.
func (b *Builder) Labels() []string { return b.labels }

// Matrix assembles the document-term matrix over the pruned
// vocabulary. The vocabulary is sorted so the column order is stable
// across runs.
func (b *Builder) Matrix() (*dtm.Matrix, error) {
	vocab := b.vocabulary()

	index := make(map[string]int, len(vocab))
	for i, w := range vocab {
		index[w] = i
	}

	var entries []dtm.Entry
	for d, tokens := range b.docs {
		counts := make(map[int]float64)
		for _, w := range tokens {
			if t, ok := index[w]; ok {
				counts[t]++
			}
		}
		for t, c := range counts {
			entries = append(entries, dtm.Entry{Doc: d, Term: t, Value: c})
		}
	}

	return dtm.New(len(b.docs), vocab, entries)
}

// vocabulary applies the document-frequency thresholds and returns the
// surviving terms sorted lexically.
func (b *Builder) vocabulary() []string {
	maxDF := len(b.docs) + 1
	if b.MaxDFShare > 0 {
		maxDF = int(b.MaxDFShare * float64(len(b.docs)))
	}
	minDF := b.MinDF
	if minDF < 1 {
		minDF = 1
	}

	var vocab []string
	for w, df := range b.df {
		if df < minDF || df > maxDF {
			continue
		}
		vocab = append(vocab, w)
	}
	sort.Strings(vocab)
	return vocab
}
