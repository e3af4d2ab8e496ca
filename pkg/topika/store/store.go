// Package store persists fitted runs: their metadata, log-likelihood
// traces, and top terms per topic. The model matrices themselves stay
// in JSON files next to the run record.
package store

import (
	"context"
	"time"

	"github.com/cognicore/topika/pkg/topika/lda"
)

// Store is the interface for persisting and querying fitted runs.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	BestRun(ctx context.Context, method string, k int) (Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Log-likelihood traces
	SaveTrace(ctx context.Context, runID string, values []float64) error
	GetTrace(ctx context.Context, runID string) ([]float64, error)

	// Topic terms
	SaveTopicTerms(ctx context.Context, runID string, terms []TopicTerm) error
	GetTopicTerms(ctx context.Context, runID string, topic int) ([]TopicTerm, error)
}

// Run is the stored metadata of one fitted model.
type Run struct {
	ID        string
	Method    string
	K         int
	Alpha     float64
	Delta     float64
	LogLik    float64
	Iter      int
	Seed      int64
	ModelPath string
	CreatedAt time.Time
}

// TopicTerm is one stored (topic, term) cell with its weight and rank
// within the topic, rank 0 being the heaviest term.
type TopicTerm struct {
	Topic  int
	Term   string
	Weight float64
	Rank   int
}

// RunFromModel builds a run record from a fitted model. ModelPath is
// left for the caller, who decides where the JSON lands.
func RunFromModel(m *lda.Model) Run {
	return Run{
		ID:        m.ID,
		Method:    m.Method,
		K:         m.K,
		Alpha:     m.Alpha,
		Delta:     m.Delta,
		LogLik:    m.LogLik,
		Iter:      m.Iter,
		Seed:      m.Seed,
		CreatedAt: m.CreatedAt,
	}
}

// TermsFromModel flattens a model's n top terms per topic into stored
// rows.
func TermsFromModel(m *lda.Model, n int) []TopicTerm {
	var out []TopicTerm
	for topic, terms := range m.TermWeights(n) {
		for rank, tw := range terms {
			out = append(out, TopicTerm{
				Topic:  topic,
				Term:   tw.Term,
				Weight: tw.Weight,
				Rank:   rank,
			})
		}
	}
	return out
}
