package lda

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/topika/pkg/topika/dtm"
)

// Method names accepted by Fit.
const (
	MethodVEM   = "VEM"
	MethodGibbs = "Gibbs"
)

var entropy = ulid.Monotonic(rand.Reader, 0)

func newModelID() string {
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Model is a fitted LDA model.
//
// LogBeta holds the topic-term distributions on the log scale, one row
// per topic over the vocabulary. Gamma holds the per-document topic
// proportions, one row per document, rows summing to one.
type Model struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	K      int    `json:"k"`

	Alpha float64 `json:"alpha"`
	Delta float64 `json:"delta,omitempty"`

	Vocab   []string    `json:"vocab"`
	LogBeta [][]float64 `json:"log_beta"`
	Gamma   [][]float64 `json:"gamma"`

	LogLik  float64   `json:"loglik"`
	LogLiks []float64 `json:"logliks,omitempty"`
	Iter    int       `json:"iter"`
	Seed    int64     `json:"seed"`

	CreatedAt time.Time `json:"created_at"`
}

// Terms returns the n most probable terms for each topic, most
// probable first.
func (m *Model) Terms(n int) [][]string {
	out := make([][]string, m.K)
	for k := 0; k < m.K; k++ {
		idx := topIndices(m.LogBeta[k], n)
		terms := make([]string, len(idx))
		for i, t := range idx {
			terms[i] = m.Vocab[t]
		}
		out[k] = terms
	}
	return out
}

// TermWeights returns the n most probable terms for each topic with
// their probabilities.
func (m *Model) TermWeights(n int) [][]TermWeight {
	out := make([][]TermWeight, m.K)
	for k := 0; k < m.K; k++ {
		idx := topIndices(m.LogBeta[k], n)
		tw := make([]TermWeight, len(idx))
		for i, t := range idx {
			tw[i] = TermWeight{Term: m.Vocab[t], Weight: math.Exp(m.LogBeta[k][t])}
		}
		out[k] = tw
	}
	return out
}

// TermWeight is one term with its probability under a topic.
type TermWeight struct {
	Term   string
	Weight float64
}

// Topics returns the most probable topic for each training document.
func (m *Model) Topics() []int {
	out := make([]int, len(m.Gamma))
	for d, row := range m.Gamma {
		best, bestVal := 0, math.Inf(-1)
		for k, v := range row {
			if v > bestVal {
				best, bestVal = k, v
			}
		}
		out[d] = best
	}
	return out
}

// Posterior infers topic proportions for new documents under the
// fitted topic-term distributions, which stay fixed. The new matrix
// must share the model's vocabulary width.
func (m *Model) Posterior(x *dtm.Matrix) ([][]float64, error) {
	if err := x.CheckVocabWidth(len(m.Vocab)); err != nil {
		return nil, err
	}

	gamma := make([][]float64, x.Docs())
	for d := 0; d < x.Docs(); d++ {
		g, _, _ := docVariational(x, d, m.K, m.Alpha, m.LogBeta, 1e-6, 100, nil)
		gamma[d] = normalized(g)
	}
	return gamma, nil
}

// Perplexity computes exp(-loglik/N) of the model over a matrix,
// using variational posteriors for the document mixtures. Lower is
// better.
func (m *Model) Perplexity(x *dtm.Matrix) (float64, error) {
	gamma, err := m.Posterior(x)
	if err != nil {
		return 0, err
	}

	loglik := 0.0
	for d := 0; d < x.Docs(); d++ {
		theta := gamma[d]
		x.DoRow(d, func(term int, count float64) {
			p := 0.0
			for k := 0; k < m.K; k++ {
				p += theta[k] * math.Exp(m.LogBeta[k][term])
			}
			if p <= 0 {
				p = math.SmallestNonzeroFloat64
			}
			loglik += count * math.Log(p)
		})
	}
	return math.Exp(-loglik / x.Sum()), nil
}

// Save writes the model as JSON. Gibbs checkpoints use the same
// format, so any checkpoint loads back as a Model.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a model previously written by Save.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return &m, nil
}

// topIndices returns the indices of the n largest values, largest
// first. n larger than the slice returns every index.
func topIndices(vals []float64, n int) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return vals[idx[i]] > vals[idx[j]]
	})
	if n >= 0 && n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

// normalized returns v scaled to sum to one.
func normalized(v []float64) []float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	out := make([]float64, len(v))
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}
