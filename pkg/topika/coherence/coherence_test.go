package coherence

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/topika/pkg/topika/dtm"
	"github.com/cognicore/topika/pkg/topika/internalerr"
	"github.com/cognicore/topika/pkg/topika/lda"
)

// docsMatrix builds a matrix from dense rows over the given vocabulary.
func docsMatrix(t *testing.T, vocab []string, rows [][]float64) *dtm.Matrix {
	t.Helper()
	m, err := dtm.FromDense(rows, vocab)
	if err != nil {
		t.Fatalf("FromDense: %v", err)
	}
	return m
}

func TestCounterCounts(t *testing.T) {
	// Terms 0 and 1 always together; term 2 alone in the last doc.
	x := docsMatrix(t, []string{"a", "b", "c"}, [][]float64{
		{1, 3, 0},
		{2, 1, 0},
		{0, 0, 5},
	})
	c := NewCounter(x)

	if c.Docs() != 3 {
		t.Errorf("Docs() = %d, want 3", c.Docs())
	}
	if got := c.TermCount(0); got != 2 {
		t.Errorf("TermCount(0) = %d, want 2", got)
	}
	if got := c.PairCount(0, 1); got != 2 {
		t.Errorf("PairCount(0,1) = %d, want 2", got)
	}
	// Order must not matter.
	if c.PairCount(1, 0) != c.PairCount(0, 1) {
		t.Error("PairCount is order-sensitive")
	}
	if got := c.PairCount(0, 2); got != 0 {
		t.Errorf("PairCount(0,2) = %d, want 0", got)
	}
}

func TestNPMIRange(t *testing.T) {
	x := docsMatrix(t, []string{"a", "b", "c"}, [][]float64{
		{1, 1, 0},
		{1, 1, 0},
		{1, 1, 0},
		{0, 0, 1},
	})
	c := NewCounter(x)

	together := c.NPMI(0, 1, DefaultEpsilon)
	if together <= 0 || together > 1 {
		t.Errorf("NPMI of co-occurring terms = %v, want in (0, 1]", together)
	}
	if got := c.NPMI(0, 2, DefaultEpsilon); got != 0 {
		t.Errorf("NPMI of never co-occurring terms = %v, want 0", got)
	}
}

func TestScore(t *testing.T) {
	x := docsMatrix(t, []string{"a", "b", "c", "d"}, [][]float64{
		{1, 1, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	})
	c := NewCounter(x)

	coherent := c.Score([]int{0, 1}, 0)
	mixed := c.Score([]int{0, 2}, 0)
	if coherent <= mixed {
		t.Errorf("coherent pair scored %v, mixed pair %v", coherent, mixed)
	}

	if got := c.Score([]int{0}, 0); got != 0 {
		t.Errorf("Score of a single term = %v, want 0", got)
	}
	if got := c.Score(nil, 0); got != 0 {
		t.Errorf("Score of no terms = %v, want 0", got)
	}
}

func TestTopicScores(t *testing.T) {
	vocab := []string{"a", "b", "c", "d"}
	x := docsMatrix(t, vocab, [][]float64{
		{2, 2, 0, 0},
		{3, 1, 0, 0},
		{0, 0, 2, 2},
		{0, 0, 1, 3},
	})

	m := &lda.Model{
		K:     2,
		Vocab: vocab,
		LogBeta: [][]float64{
			{math.Log(0.45), math.Log(0.45), math.Log(0.05), math.Log(0.05)},
			{math.Log(0.05), math.Log(0.05), math.Log(0.45), math.Log(0.45)},
		},
	}

	scores, err := TopicScores(m, x, 2)
	if err != nil {
		t.Fatalf("TopicScores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	for k, s := range scores {
		if s <= 0 {
			t.Errorf("topic %d over its own cluster scored %v, want positive", k, s)
		}
	}
}

func TestTopicScoresVocabMismatch(t *testing.T) {
	x := docsMatrix(t, []string{"a", "b"}, [][]float64{{1, 1}})
	m := &lda.Model{K: 1, Vocab: []string{"a", "b", "c"}, LogBeta: [][]float64{{0, 0, 0}}}

	_, err := TopicScores(m, x, 2)
	if !errors.Is(err, internalerr.ErrVocabMismatch) {
		t.Fatalf("err = %v, want ErrVocabMismatch", err)
	}
}
