// Package coherence scores fitted topics by how often their top terms
// co-occur in the training documents. Topics whose leading terms appear
// together score high; topics assembled from unrelated terms score low.
package coherence

import (
	"math"
	"sort"

	"github.com/cognicore/topika/pkg/topika/dtm"
	"github.com/cognicore/topika/pkg/topika/lda"
)

// Counter maintains document co-occurrence counts over a corpus.
type Counter struct {
	n   int64              // total documents
	nx  map[int]int64      // document frequency per term id
	nxy map[termPair]int64 // co-document count per term pair
}

// termPair is an ordered pair of term ids (T1 < T2).
type termPair struct {
	T1, T2 int
}

// NewCounter builds co-occurrence counts from a document-term matrix.
// A term pair is counted once per document it appears in, regardless
// of the in-document counts.
func NewCounter(x *dtm.Matrix) *Counter {
	c := &Counter{
		nx:  make(map[int]int64),
		nxy: make(map[termPair]int64),
	}
	for d := 0; d < x.Docs(); d++ {
		var terms []int
		x.DoRow(d, func(term int, count float64) {
			terms = append(terms, term)
		})
		c.add(terms)
	}
	return c
}

func (c *Counter) add(terms []int) {
	c.n++
	sort.Ints(terms)
	for i, t := range terms {
		c.nx[t]++
		for _, u := range terms[i+1:] {
			c.nxy[termPair{T1: t, T2: u}]++
		}
	}
}

// PairCount returns the number of documents containing both terms.
func (c *Counter) PairCount(t1, t2 int) int64 {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return c.nxy[termPair{T1: t1, T2: t2}]
}

// TermCount returns the number of documents containing the term.
func (c *Counter) TermCount(t int) int64 {
	return c.nx[t]
}

// Docs returns the total number of documents counted.
func (c *Counter) Docs() int64 {
	return c.n
}

// NPMI computes normalized pointwise mutual information between two
// terms, smoothed by epsilon. The result lies in [-1, 1]: 1 for terms
// that only appear together, 0 for independence, negative for terms
// that avoid each other.
func (c *Counter) NPMI(t1, t2 int, epsilon float64) float64 {
	nAB := c.PairCount(t1, t2)
	if c.n == 0 || nAB == 0 {
		return 0
	}

	nA := float64(c.TermCount(t1)) + epsilon
	nB := float64(c.TermCount(t2)) + epsilon
	pmi := math.Log((float64(nAB) + epsilon) * float64(c.n) / (nA * nB))

	logPAB := math.Log((float64(nAB) + epsilon) / float64(c.n))
	if logPAB == 0 {
		return 0
	}
	return pmi / -logPAB
}

// DefaultEpsilon is the smoothing constant used when Score is given a
// non-positive one.
const DefaultEpsilon = 1e-12

// Score computes the coherence of one topic: the mean NPMI over all
// pairs of the given top term ids. Fewer than two terms scores zero.
func (c *Counter) Score(termIDs []int, epsilon float64) float64 {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	if len(termIDs) < 2 {
		return 0
	}

	sum := 0.0
	pairs := 0
	for i := 0; i < len(termIDs); i++ {
		for j := i + 1; j < len(termIDs); j++ {
			sum += c.NPMI(termIDs[i], termIDs[j], epsilon)
			pairs++
		}
	}
	return sum / float64(pairs)
}

// TopicScores scores every topic of a model by the mean NPMI of its n
// top terms, counted over the matrix the model was fitted on.
func TopicScores(m *lda.Model, x *dtm.Matrix, n int) ([]float64, error) {
	if err := x.CheckVocabWidth(len(m.Vocab)); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(m.Vocab))
	for i, term := range m.Vocab {
		index[term] = i
	}

	c := NewCounter(x)
	scores := make([]float64, m.K)
	for k, terms := range m.Terms(n) {
		ids := make([]int, 0, len(terms))
		for _, term := range terms {
			ids = append(ids, index[term])
		}
		scores[k] = c.Score(ids, DefaultEpsilon)
	}
	return scores, nil
}
