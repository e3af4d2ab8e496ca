package store

import (
	"math"
	"testing"
	"time"

	"github.com/cognicore/topika/pkg/topika/lda"
)

func TestRunFromModel(t *testing.T) {
	m := &lda.Model{
		ID:        "01ABC",
		Method:    lda.MethodGibbs,
		K:         3,
		Alpha:     16.7,
		Delta:     0.1,
		LogLik:    -512.25,
		Iter:      2000,
		Seed:      7,
		CreatedAt: time.Now().UTC(),
	}

	r := RunFromModel(m)
	if r.ID != m.ID || r.Method != m.Method || r.K != m.K {
		t.Errorf("identity fields: %+v", r)
	}
	if r.Alpha != m.Alpha || r.Delta != m.Delta || r.LogLik != m.LogLik {
		t.Errorf("fit fields: %+v", r)
	}
	if r.ModelPath != "" {
		t.Errorf("ModelPath = %q, want empty", r.ModelPath)
	}
}

func TestTermsFromModel(t *testing.T) {
	m := &lda.Model{
		K:     2,
		Vocab: []string{"ant", "bee", "cow"},
		LogBeta: [][]float64{
			{math.Log(0.6), math.Log(0.3), math.Log(0.1)},
			{math.Log(0.1), math.Log(0.2), math.Log(0.7)},
		},
	}

	terms := TermsFromModel(m, 2)
	if len(terms) != 4 {
		t.Fatalf("got %d rows, want 4", len(terms))
	}
	if terms[0] != (TopicTerm{Topic: 0, Term: "ant", Weight: terms[0].Weight, Rank: 0}) {
		t.Errorf("first row = %+v", terms[0])
	}
	if math.Abs(terms[0].Weight-0.6) > 1e-12 {
		t.Errorf("first row weight = %v, want 0.6", terms[0].Weight)
	}
	if terms[2].Topic != 1 || terms[2].Term != "cow" || terms[2].Rank != 0 {
		t.Errorf("third row = %+v, want topic 1 cow rank 0", terms[2])
	}
}
