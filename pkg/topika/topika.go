// Package topika estimates topic models over text corpora and keeps
// the fitted runs in a store. It ties the subpackages together: corpus
// building, LDA estimation, and run persistence.
package topika

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cognicore/topika/pkg/topika/coherence"
	"github.com/cognicore/topika/pkg/topika/corpus"
	"github.com/cognicore/topika/pkg/topika/dtm"
	"github.com/cognicore/topika/pkg/topika/lda"
	"github.com/cognicore/topika/pkg/topika/store"
)

// Topika is the fitting facade.
type Topika struct {
	store    store.Store
	builder  *corpus.Builder
	modelDir string
	topTerms int
}

// Options configures a Topika instance.
type Options struct {
	// Store records fitted runs. Required.
	Store store.Store
	// Builder turns documents into the document-term matrix. Required
	// when fitting from raw text via AddDocument.
	Builder *corpus.Builder
	// ModelDir receives one JSON file per fitted model. Empty
	// disables model files; runs then carry no model path.
	ModelDir string
	// TopTerms is the number of terms per topic persisted with each
	// run. Zero means 10.
	TopTerms int
}

// New creates a Topika instance with the given dependencies.
func New(opts Options) *Topika {
	topTerms := opts.TopTerms
	if topTerms <= 0 {
		topTerms = 10
	}
	return &Topika{
		store:    opts.Store,
		builder:  opts.Builder,
		modelDir: opts.ModelDir,
		topTerms: topTerms,
	}
}

// Close shuts down the underlying store.
func (t *Topika) Close() error {
	return t.store.Close()
}

// AddDocument feeds one document into the corpus builder.
func (t *Topika) AddDocument(label, text string) {
	t.builder.Add(label, text)
}

// Matrix builds the document-term matrix of everything added so far.
func (t *Topika) Matrix() (*dtm.Matrix, error) {
	return t.builder.Matrix()
}

// Result is one fitted and persisted run.
type Result struct {
	Model     *lda.Model
	Run       store.Run
	Coherence []float64
}

// Fit estimates models over the built corpus and persists every
// returned fit: the run record, its log-likelihood trace, its top
// terms, and the model JSON when a model directory is configured.
func (t *Topika) Fit(ctx context.Context, k int, method string, ctl lda.Control) ([]Result, error) {
	x, err := t.Matrix()
	if err != nil {
		return nil, err
	}
	return t.FitMatrix(ctx, x, k, method, ctl)
}

// FitMatrix is Fit over an already-built matrix.
func (t *Topika) FitMatrix(ctx context.Context, x *dtm.Matrix, k int, method string, ctl lda.Control) ([]Result, error) {
	models, err := lda.Fit(x, k, method, ctl)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(models))
	for _, m := range models {
		run := store.RunFromModel(m)

		if t.modelDir != "" {
			run.ModelPath = filepath.Join(t.modelDir, m.ID+".json")
			if err := m.Save(run.ModelPath); err != nil {
				return nil, fmt.Errorf("save model %s: %w", m.ID, err)
			}
		}
		if err := t.store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save run %s: %w", m.ID, err)
		}
		if len(m.LogLiks) > 0 {
			if err := t.store.SaveTrace(ctx, m.ID, m.LogLiks); err != nil {
				return nil, fmt.Errorf("save trace %s: %w", m.ID, err)
			}
		}
		if err := t.store.SaveTopicTerms(ctx, m.ID, store.TermsFromModel(m, t.topTerms)); err != nil {
			return nil, fmt.Errorf("save topic terms %s: %w", m.ID, err)
		}

		scores, err := coherence.TopicScores(m, x, t.topTerms)
		if err != nil {
			return nil, fmt.Errorf("score topics %s: %w", m.ID, err)
		}

		results = append(results, Result{Model: m, Run: run, Coherence: scores})
	}
	return results, nil
}

// BestRun returns the stored run with the highest log-likelihood for a
// method and topic count.
func (t *Topika) BestRun(ctx context.Context, method string, k int) (store.Run, error) {
	return t.store.BestRun(ctx, method, k)
}
