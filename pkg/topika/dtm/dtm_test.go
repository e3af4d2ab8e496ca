package dtm

import (
	"errors"
	"testing"

	"github.com/cognicore/topika/pkg/topika/internalerr"
)

func smallVocab() []string {
	return []string{"apple", "banana", "cherry", "date"}
}

func TestNewValidMatrix(t *testing.T) {
	m, err := New(2, smallVocab(), []Entry{
		{Doc: 0, Term: 0, Value: 3},
		{Doc: 0, Term: 2, Value: 1},
		{Doc: 1, Term: 1, Value: 2},
		{Doc: 1, Term: 3, Value: 5},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if m.Docs() != 2 || m.Terms() != 4 {
		t.Errorf("Dims = %dx%d, want 2x4", m.Docs(), m.Terms())
	}
	if got := m.At(0, 0); got != 3 {
		t.Errorf("At(0,0) = %v, want 3", got)
	}
	if got := m.RowSum(1); got != 7 {
		t.Errorf("RowSum(1) = %v, want 7", got)
	}
	if got := m.Sum(); got != 11 {
		t.Errorf("Sum = %v, want 11", got)
	}
	if m.NNZ() != 4 {
		t.Errorf("NNZ = %d, want 4", m.NNZ())
	}
}

func TestNewSumsDuplicateEntries(t *testing.T) {
	m, err := New(1, smallVocab(), []Entry{
		{Doc: 0, Term: 1, Value: 2},
		{Doc: 0, Term: 1, Value: 3},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.At(0, 1); got != 5 {
		t.Errorf("At(0,1) = %v, want 5 (duplicates summed)", got)
	}
}

func TestNewRejectsNonIntegerEntries(t *testing.T) {
	cases := []struct {
		name  string
		value float64
	}{
		{"fractional", 1.5},
		{"negative", -2},
		{"nan", nan()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(1, smallVocab(), []Entry{
				{Doc: 0, Term: 0, Value: 1},
				{Doc: 0, Term: 1, Value: tc.value},
			})
			if !errors.Is(err, internalerr.ErrNonIntegerEntry) {
				t.Errorf("New with value %v: err = %v, want ErrNonIntegerEntry", tc.value, err)
			}
		})
	}
}

func TestNewRejectsEmptyDocument(t *testing.T) {
	_, err := New(3, smallVocab(), []Entry{
		{Doc: 0, Term: 0, Value: 1},
		{Doc: 2, Term: 1, Value: 4},
	})
	if !errors.Is(err, internalerr.ErrEmptyDocument) {
		t.Fatalf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestNewRejectsZeroOnlyDocument(t *testing.T) {
	// Explicit zero entries do not save a document from being empty.
	_, err := New(2, smallVocab(), []Entry{
		{Doc: 0, Term: 0, Value: 2},
		{Doc: 1, Term: 1, Value: 0},
	})
	if !errors.Is(err, internalerr.ErrEmptyDocument) {
		t.Fatalf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestNewRejectsOutOfRangeIndices(t *testing.T) {
	_, err := New(1, smallVocab(), []Entry{{Doc: 0, Term: 9, Value: 1}})
	if !errors.Is(err, internalerr.ErrInvalidMatrix) {
		t.Fatalf("err = %v, want ErrInvalidMatrix", err)
	}
}

func TestFromDense(t *testing.T) {
	m, err := FromDense([][]float64{
		{1, 0, 2, 0},
		{0, 3, 0, 1},
	}, smallVocab())
	if err != nil {
		t.Fatalf("FromDense: %v", err)
	}

	var terms []int
	var counts []float64
	m.DoRow(0, func(term int, count float64) {
		terms = append(terms, term)
		counts = append(counts, count)
	})
	if len(terms) != 2 || terms[0] != 0 || terms[1] != 2 {
		t.Errorf("DoRow(0) terms = %v, want [0 2]", terms)
	}
	if counts[0] != 1 || counts[1] != 2 {
		t.Errorf("DoRow(0) counts = %v, want [1 2]", counts)
	}
}

func TestFromDenseRaggedRows(t *testing.T) {
	_, err := FromDense([][]float64{{1, 2}, {1}}, []string{"a", "b"})
	if !errors.Is(err, internalerr.ErrInvalidMatrix) {
		t.Fatalf("err = %v, want ErrInvalidMatrix", err)
	}
}

func TestCheckVocabWidth(t *testing.T) {
	m, err := New(1, smallVocab(), []Entry{{Doc: 0, Term: 0, Value: 1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.CheckVocabWidth(4); err != nil {
		t.Errorf("CheckVocabWidth(4) = %v, want nil", err)
	}
	if err := m.CheckVocabWidth(7); !errors.Is(err, internalerr.ErrVocabMismatch) {
		t.Errorf("CheckVocabWidth(7) = %v, want ErrVocabMismatch", err)
	}
}

func nan() float64 {
	f := 0.0
	return f / f
}
