package lda

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cognicore/topika/pkg/topika/dtm"
)

// gibbsState holds the count tables of a collapsed Gibbs sampler:
// word-topic and document-topic assignment counts plus per-topic
// totals, and the current topic assignment of every token.
type gibbsState struct {
	k, v, d int
	alpha   float64
	delta   float64
	rng     *rand.Rand
	vocab   []string

	docWords  [][]int // token term ids, documents expanded by count
	docTopics [][]int // current assignment per token

	wordTopic []int // v*k: times term t assigned to topic j
	docTopic  []int // d*k: tokens of doc assigned to topic j
	topicSum  []int // k: tokens assigned to topic j

	probs []float64 // scratch for the full conditional
}

// newGibbsState expands the matrix into token streams and assigns
// initial topics. With init == nil assignments are uniform random;
// otherwise tokens are assigned by sampling the posterior implied by
// the initial model's distributions, which seeds resumed fits and
// fold-in close to where the snapshot left off.
func newGibbsState(x *dtm.Matrix, k int, alpha, delta float64, rng *rand.Rand, init *Model) *gibbsState {
	d := x.Docs()
	v := x.Terms()

	s := &gibbsState{
		k: k, v: v, d: d,
		alpha: alpha, delta: delta,
		rng:       rng,
		vocab:     x.Vocab(),
		docWords:  make([][]int, d),
		docTopics: make([][]int, d),
		wordTopic: make([]int, v*k),
		docTopic:  make([]int, d*k),
		topicSum:  make([]int, k),
		probs:     make([]float64, k),
	}

	for doc := 0; doc < d; doc++ {
		var words []int
		x.DoRow(doc, func(term int, count float64) {
			for i := 0; i < int(count); i++ {
				words = append(words, term)
			}
		})
		topics := make([]int, len(words))
		for i, term := range words {
			var topic int
			if init == nil {
				topic = rng.Intn(k)
			} else {
				topic = s.sampleFromModel(init, doc, term)
			}
			topics[i] = topic
			s.wordTopic[term*k+topic]++
			s.docTopic[doc*k+topic]++
			s.topicSum[topic]++
		}
		s.docWords[doc] = words
		s.docTopics[doc] = topics
	}
	return s
}

// sampleFromModel draws a topic for one token proportional to
// theta_dk * beta_kt under an existing model. Documents beyond the
// model's gamma rows fall back to the term distribution alone.
func (s *gibbsState) sampleFromModel(m *Model, doc, term int) int {
	total := 0.0
	for j := 0; j < s.k; j++ {
		p := math.Exp(m.LogBeta[j][term])
		if doc < len(m.Gamma) {
			p *= m.Gamma[doc][j]
		}
		s.probs[j] = p
		total += p
	}
	if total <= 0 {
		return s.rng.Intn(s.k)
	}
	u := s.rng.Float64() * total
	for j := 0; j < s.k; j++ {
		u -= s.probs[j]
		if u <= 0 {
			return j
		}
	}
	return s.k - 1
}

// sweep resamples every token once from its full conditional
//
//	p(z=j) ∝ (n_wj + δ)/(n_j + Vδ) · (n_dj + α)
//
// with the token's own assignment removed from the counts.
func (s *gibbsState) sweep() {
	vDelta := float64(s.v) * s.delta

	for doc := 0; doc < s.d; doc++ {
		words := s.docWords[doc]
		topics := s.docTopics[doc]
		for i, term := range words {
			old := topics[i]
			s.wordTopic[term*s.k+old]--
			s.docTopic[doc*s.k+old]--
			s.topicSum[old]--

			total := 0.0
			for j := 0; j < s.k; j++ {
				p := (float64(s.wordTopic[term*s.k+j]) + s.delta) /
					(float64(s.topicSum[j]) + vDelta) *
					(float64(s.docTopic[doc*s.k+j]) + s.alpha)
				s.probs[j] = p
				total += p
			}

			u := s.rng.Float64() * total
			topic := s.k - 1
			for j := 0; j < s.k; j++ {
				u -= s.probs[j]
				if u <= 0 {
					topic = j
					break
				}
			}

			topics[i] = topic
			s.wordTopic[term*s.k+topic]++
			s.docTopic[doc*s.k+topic]++
			s.topicSum[topic]++
		}
	}
}

// logLik computes log p(w|z) of the current assignment state
// (Griffiths-Steyvers), the quantity multi-start selection compares.
func (s *gibbsState) logLik() float64 {
	vf := float64(s.v)
	ll := float64(s.k) * (lgamma(vf*s.delta) - vf*lgamma(s.delta))
	for j := 0; j < s.k; j++ {
		for t := 0; t < s.v; t++ {
			if n := s.wordTopic[t*s.k+j]; n > 0 {
				ll += lgamma(float64(n) + s.delta)
			} else {
				ll += lgamma(s.delta)
			}
		}
		ll -= lgamma(float64(s.topicSum[j]) + vf*s.delta)
	}
	return ll
}

// phi returns the smoothed topic-term point estimate of the current
// state.
func (s *gibbsState) phi() [][]float64 {
	vDelta := float64(s.v) * s.delta
	out := makeMatrix(s.k, s.v)
	for j := 0; j < s.k; j++ {
		denom := float64(s.topicSum[j]) + vDelta
		for t := 0; t < s.v; t++ {
			out[j][t] = (float64(s.wordTopic[t*s.k+j]) + s.delta) / denom
		}
	}
	return out
}

// theta returns the smoothed document-topic point estimate of the
// current state.
func (s *gibbsState) theta() [][]float64 {
	kAlpha := float64(s.k) * s.alpha
	out := makeMatrix(s.d, s.k)
	for doc := 0; doc < s.d; doc++ {
		denom := float64(len(s.docWords[doc])) + kAlpha
		for j := 0; j < s.k; j++ {
			out[doc][j] = (float64(s.docTopic[doc*s.k+j]) + s.alpha) / denom
		}
	}
	return out
}

// snapshot converts the current state (or an accumulated average) into
// a Model.
func (s *gibbsState) snapshot(phi, theta [][]float64, seed int64, iter int, logLiks []float64) *Model {
	logBeta := makeMatrix(s.k, s.v)
	for j := 0; j < s.k; j++ {
		for t := 0; t < s.v; t++ {
			if phi[j][t] > 0 {
				logBeta[j][t] = math.Log(phi[j][t])
			} else {
				logBeta[j][t] = betaFloor
			}
		}
	}
	gamma := make([][]float64, s.d)
	for doc := 0; doc < s.d; doc++ {
		gamma[doc] = normalized(theta[doc])
	}

	return &Model{
		ID:        newModelID(),
		Method:    MethodGibbs,
		K:         s.k,
		Alpha:     s.alpha,
		Delta:     s.delta,
		Vocab:     s.vocab,
		LogBeta:   logBeta,
		Gamma:     gamma,
		LogLik:    s.logLik(),
		LogLiks:   append([]float64(nil), logLiks...),
		Iter:      iter,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
}

// gibbsFit runs one collapsed Gibbs estimation from one seed.
//
// The sweep schedule is Burnin discarded sweeps followed by Iter
// sampling sweeps; a sample of the point estimates is taken every
// thin() sampling sweeps and averaged into the returned model. With
// SaveEvery > 0 an intermediate snapshot lands in the Prefix directory
// after every SaveEvery sweeps; the final model is written there too.
func gibbsFit(x *dtm.Matrix, k int, ctl *GibbsControl, seed int64, init *Model) (*Model, error) {
	rng := rand.New(rand.NewSource(seed))
	alpha := defaultAlpha(ctl.Alpha, k)
	delta := ctl.Delta
	if delta == 0 {
		delta = 0.1
	}

	state := newGibbsState(x, k, alpha, delta, rng, init)

	if ctl.SaveEvery > 0 {
		if err := os.MkdirAll(ctl.Prefix, 0o755); err != nil {
			return nil, fmt.Errorf("create checkpoint directory: %w", err)
		}
	}

	runID := newModelID()
	total := ctl.Burnin + ctl.Iter
	thin := ctl.thin()

	var logLiks []float64
	phiSum := makeMatrix(k, x.Terms())
	thetaSum := makeMatrix(x.Docs(), k)
	samples := 0

	for sweep := 1; sweep <= total; sweep++ {
		state.sweep()

		if sweep > ctl.Burnin && (sweep-ctl.Burnin)%thin == 0 {
			addMatrix(phiSum, state.phi())
			addMatrix(thetaSum, state.theta())
			samples++
		}
		if ctl.Keep > 0 && sweep%ctl.Keep == 0 {
			logLiks = append(logLiks, state.logLik())
		}
		if ctl.Verbose > 0 && sweep%ctl.Verbose == 0 {
			ctl.logger().Printf("gibbs: sweep %d/%d loglik %.2f", sweep, total, state.logLik())
		}
		if ctl.SaveEvery > 0 && sweep%ctl.SaveEvery == 0 && sweep < total {
			ckpt := state.snapshot(state.phi(), state.theta(), seed, sweep, logLiks)
			if err := ckpt.Save(checkpointPath(ctl.Prefix, runID, sweep)); err != nil {
				return nil, fmt.Errorf("write checkpoint at sweep %d: %w", sweep, err)
			}
		}
	}

	// The sampling schedule guarantees at least the final state is
	// sampled when Thin exceeds the sampling window.
	if samples == 0 {
		addMatrix(phiSum, state.phi())
		addMatrix(thetaSum, state.theta())
		samples = 1
	}
	scaleMatrix(phiSum, 1/float64(samples))
	scaleMatrix(thetaSum, 1/float64(samples))

	model := state.snapshot(phiSum, thetaSum, seed, total, logLiks)
	if ctl.SaveEvery > 0 {
		if err := model.Save(checkpointPath(ctl.Prefix, runID, total)); err != nil {
			return nil, fmt.Errorf("write final checkpoint: %w", err)
		}
	}
	return model, nil
}

// checkpointPath names one snapshot inside the checkpoint directory.
func checkpointPath(prefix, runID string, sweep int) string {
	return filepath.Join(prefix, fmt.Sprintf("gibbs-%s-%06d.json", runID, sweep))
}

func addMatrix(dst, src [][]float64) {
	for i := range dst {
		for j := range dst[i] {
			dst[i][j] += src[i][j]
		}
	}
}

func scaleMatrix(m [][]float64, f float64) {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= f
		}
	}
}
