// Package stoplist manages stopword lists for corpus preparation and
// suggests additions from corpus statistics. Terms that saturate the
// corpus while carrying no association with any other term wash out
// topic estimates; pruning them first sharpens the fit.
package stoplist

import (
	"sort"

	"github.com/cognicore/topika/pkg/topika/coherence"
	"github.com/cognicore/topika/pkg/topika/dtm"
)

// Manager holds the current stoplist with the reason each entry was
// added.
type Manager struct {
	stops map[string]Reason
}

// Reason explains why a term is a stopword.
type Reason struct {
	HighDF  bool    // appears in too large a share of documents
	LowNPMI bool    // no strong association with any other term
	DFShare float64 // document frequency as a share of the corpus
	NPMIMax float64 // maximum NPMI against any other term
}

// NewManager builds a manager over an initial word list.
func NewManager(initial []string) *Manager {
	stops := make(map[string]Reason, len(initial))
	for _, s := range initial {
		stops[s] = Reason{}
	}
	return &Manager{stops: stops}
}

// IsStop reports whether a term is on the list.
func (m *Manager) IsStop(term string) bool {
	_, ok := m.stops[term]
	return ok
}

// Add puts a term on the list.
func (m *Manager) Add(term string, reason Reason) {
	m.stops[term] = reason
}

// Remove takes a term off the list.
func (m *Manager) Remove(term string) {
	delete(m.stops, term)
}

// All returns the list sorted alphabetically.
func (m *Manager) All() []string {
	out := make([]string, 0, len(m.stops))
	for s := range m.stops {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the list size.
func (m *Manager) Len() int {
	return len(m.stops)
}

// Candidate is a term the manager suggests adding to the list.
type Candidate struct {
	Term   string
	Reason Reason
	Score  float64
}

// Thresholds defines when a term becomes a stopword candidate.
type Thresholds struct {
	// DFShare flags terms appearing in more than this share of
	// documents, e.g. 0.8.
	DFShare float64
	// NPMIMax flags terms whose strongest association falls below
	// this, e.g. 0.15.
	NPMIMax float64
}

// DefaultThresholds returns the suggestion defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFShare: 0.8,
		NPMIMax: 0.15,
	}
}

// Suggest evaluates every term of a corpus and returns the ones that
// meet both thresholds: saturating document frequency and no strong
// co-occurrence partner. Terms already on the list are skipped.
// Candidates come back sorted by descending score.
func (m *Manager) Suggest(x *dtm.Matrix, th Thresholds) []Candidate {
	if th.DFShare == 0 {
		th.DFShare = DefaultThresholds().DFShare
	}
	if th.NPMIMax == 0 {
		th.NPMIMax = DefaultThresholds().NPMIMax
	}

	counter := coherence.NewCounter(x)
	docs := float64(counter.Docs())
	if docs == 0 {
		return nil
	}

	var candidates []Candidate
	for t := 0; t < x.Terms(); t++ {
		term := x.Term(t)
		if m.IsStop(term) {
			continue
		}

		share := float64(counter.TermCount(t)) / docs
		if share <= th.DFShare {
			continue
		}

		maxNPMI := 0.0
		for u := 0; u < x.Terms(); u++ {
			if u == t {
				continue
			}
			if npmi := counter.NPMI(t, u, coherence.DefaultEpsilon); npmi > maxNPMI {
				maxNPMI = npmi
			}
		}
		if maxNPMI >= th.NPMIMax {
			continue
		}

		candidates = append(candidates, Candidate{
			Term: term,
			Reason: Reason{
				HighDF:  true,
				LowNPMI: true,
				DFShare: share,
				NPMIMax: maxNPMI,
			},
			Score: (share + (1 - maxNPMI)) / 2,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
