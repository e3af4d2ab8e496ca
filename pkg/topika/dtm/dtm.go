package dtm

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/cognicore/topika/pkg/topika/internalerr"
)

// Entry is one triplet of a sparse document-term matrix: the number of
// times a term occurs in a document. Values arrive as float64 so that
// matrices read from external tooling can be validated for integrality
// instead of silently truncated.
type Entry struct {
	Doc   int
	Term  int
	Value float64
}

// Matrix is a validated sparse document-term count matrix.
//
// Rows are documents, columns are vocabulary terms. The matrix is
// immutable after construction; all estimation code reads it through
// DoRow and RowSum.
type Matrix struct {
	csr     *sparse.CSR
	vocab   []string
	rowSums []float64
	nnz     int
}

// New builds a Matrix from triplet entries and validates it.
//
// Validation rules, checked before any estimation can see the matrix:
//   - doc/term indices must lie inside docs x len(vocab)
//   - every value must be a whole, non-negative number
//   - every document must contain at least one term occurrence
//
// Duplicate (doc, term) entries are summed. Zero entries are dropped.
func New(docs int, vocab []string, entries []Entry) (*Matrix, error) {
	if docs <= 0 {
		return nil, fmt.Errorf("%w: matrix has %d documents", internalerr.ErrInvalidMatrix, docs)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", internalerr.ErrInvalidMatrix)
	}

	terms := len(vocab)
	dok := sparse.NewDOK(docs, terms)
	rowSums := make([]float64, docs)

	for _, e := range entries {
		if e.Doc < 0 || e.Doc >= docs || e.Term < 0 || e.Term >= terms {
			return nil, fmt.Errorf("%w: entry (%d,%d) outside %dx%d",
				internalerr.ErrInvalidMatrix, e.Doc, e.Term, docs, terms)
		}
		if e.Value < 0 || e.Value != math.Trunc(e.Value) || math.IsInf(e.Value, 0) || math.IsNaN(e.Value) {
			return nil, fmt.Errorf("%w: entry (%d,%d) = %v",
				internalerr.ErrNonIntegerEntry, e.Doc, e.Term, e.Value)
		}
		if e.Value == 0 {
			continue
		}
		dok.Set(e.Doc, e.Term, dok.At(e.Doc, e.Term)+e.Value)
		rowSums[e.Doc] += e.Value
	}

	for d, sum := range rowSums {
		if sum == 0 {
			return nil, fmt.Errorf("%w: document %d", internalerr.ErrEmptyDocument, d)
		}
	}

	csr := dok.ToCSR()
	return &Matrix{
		csr:     csr,
		vocab:   vocab,
		rowSums: rowSums,
		nnz:     csr.NNZ(),
	}, nil
}

// FromDense builds a Matrix from a dense row-major count table.
// Each row must have exactly len(vocab) columns.
func FromDense(rows [][]float64, vocab []string) (*Matrix, error) {
	var entries []Entry
	for d, row := range rows {
		if len(row) != len(vocab) {
			return nil, fmt.Errorf("%w: row %d has %d columns, vocabulary has %d",
				internalerr.ErrInvalidMatrix, d, len(row), len(vocab))
		}
		for t, v := range row {
			if v != 0 {
				entries = append(entries, Entry{Doc: d, Term: t, Value: v})
			}
		}
	}
	return New(len(rows), vocab, entries)
}

// Docs returns the number of documents (rows).
func (m *Matrix) Docs() int {
	r, _ := m.csr.Dims()
	return r
}

// Terms returns the vocabulary size (columns).
func (m *Matrix) Terms() int {
	_, c := m.csr.Dims()
	return c
}

// Vocab returns the vocabulary. Callers must not mutate it.
func (m *Matrix) Vocab() []string { return m.vocab }

// Term returns the vocabulary entry for a term index.
func (m *Matrix) Term(t int) string { return m.vocab[t] }

// At returns the count for one (doc, term) cell.
func (m *Matrix) At(d, t int) float64 { return m.csr.At(d, t) }

// RowSum returns the total number of term occurrences in a document.
func (m *Matrix) RowSum(d int) float64 { return m.rowSums[d] }

// Sum returns the total number of term occurrences in the matrix.
func (m *Matrix) Sum() float64 {
	total := 0.0
	for _, s := range m.rowSums {
		total += s
	}
	return total
}

// NNZ returns the number of stored non-zero cells.
func (m *Matrix) NNZ() int { return m.nnz }

// DoRow walks the non-zero cells of one document in term order.
func (m *Matrix) DoRow(d int, fn func(term int, count float64)) {
	m.csr.DoRowNonZero(d, func(_, j int, v float64) {
		fn(j, v)
	})
}

// CheckVocabWidth verifies that the matrix vocabulary has the given
// size, as required when folding new documents into an existing model.
func (m *Matrix) CheckVocabWidth(want int) error {
	if m.Terms() != want {
		return fmt.Errorf("%w: matrix has %d terms, model has %d",
			internalerr.ErrVocabMismatch, m.Terms(), want)
	}
	return nil
}
