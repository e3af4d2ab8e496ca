package lda

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/cognicore/topika/pkg/topika/dtm"
)

// betaFloor replaces log(0) in the topic-term distributions so the
// inner loops stay finite.
const betaFloor = -100

// vemFit runs one variational EM estimation from one seed.
// When init is non-nil its topic-term distributions seed the run;
// combined with EstimateBeta=false this is posterior inference over
// new documents.
func vemFit(x *dtm.Matrix, k int, ctl *VEMControl, seed int64, init *Model) (*Model, error) {
	rng := rand.New(rand.NewSource(seed))
	d := x.Docs()
	v := x.Terms()
	alpha := defaultAlpha(ctl.Alpha, k)

	var logBeta [][]float64
	if init != nil {
		logBeta = copyMatrix(init.LogBeta)
		if ctl.Alpha == 0 && init.Alpha > 0 {
			alpha = init.Alpha
		}
	} else {
		logBeta = randomLogBeta(rng, k, v)
	}

	gamma := make([][]float64, d)
	var logLiks []float64
	bound := math.Inf(-1)
	iter := 0

	for iter = 1; iter <= ctl.EMMaxIter; iter++ {
		classWord := makeMatrix(k, v)
		classTotal := make([]float64, k)

		// E-step
		newBound := 0.0
		for doc := 0; doc < d; doc++ {
			g, b, _ := docVariational(x, doc, k, alpha, logBeta, ctl.VarTol, ctl.VarMaxIter,
				func(term int, count float64, phi []float64) {
					for j := 0; j < k; j++ {
						classWord[j][term] += count * phi[j]
						classTotal[j] += count * phi[j]
					}
				})
			gamma[doc] = g
			newBound += b
		}

		// M-step
		if ctl.EstimateBeta {
			for j := 0; j < k; j++ {
				for t := 0; t < v; t++ {
					if classWord[j][t] > 0 {
						logBeta[j][t] = math.Log(classWord[j][t]) - math.Log(classTotal[j])
					} else {
						logBeta[j][t] = betaFloor
					}
				}
			}
		}
		if ctl.EstimateAlpha {
			alpha = optimizeAlpha(alphaSuffStats(gamma), d, k, alpha)
		}

		if ctl.Keep > 0 && iter%ctl.Keep == 0 {
			logLiks = append(logLiks, newBound)
		}
		if ctl.Verbose > 0 && iter%ctl.Verbose == 0 {
			ctl.logger().Printf("vem: iteration %d bound %.4f", iter, newBound)
		}

		if converged(bound, newBound, ctl.EMTol) {
			bound = newBound
			break
		}
		bound = newBound
	}

	for doc := range gamma {
		gamma[doc] = normalized(gamma[doc])
	}

	return &Model{
		ID:        newModelID(),
		Method:    MethodVEM,
		K:         k,
		Alpha:     alpha,
		Vocab:     x.Vocab(),
		LogBeta:   logBeta,
		Gamma:     gamma,
		LogLik:    bound,
		LogLiks:   logLiks,
		Iter:      iter,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// converged reports whether the relative bound change fell below tol.
func converged(prev, cur, tol float64) bool {
	if math.IsInf(prev, -1) {
		return false
	}
	return math.Abs((cur-prev)/math.Abs(prev)) < tol
}

// docVariational runs the per-document variational loop: phi updates
// in log space against the current topic-term distributions, gamma
// accumulation, until the mean absolute gamma change drops below tol.
//
// It returns the unnormalized variational Dirichlet parameters, the
// document's contribution to the variational bound, and the number of
// inner iterations. When accum is non-nil it receives the converged
// phi row for every term, for M-step accumulation.
func docVariational(x *dtm.Matrix, doc, k int, alpha float64, logBeta [][]float64,
	tol float64, maxIter int, accum func(term int, count float64, phi []float64)) ([]float64, float64, int) {

	var terms []int
	var counts []float64
	x.DoRow(doc, func(term int, count float64) {
		terms = append(terms, term)
		counts = append(counts, count)
	})

	total := x.RowSum(doc)
	gamma := make([]float64, k)
	dig := make([]float64, k)
	for j := 0; j < k; j++ {
		gamma[j] = alpha + total/float64(k)
		dig[j] = digamma(gamma[j])
	}

	logPhi := make([]float64, k)
	phi := make([]float64, k)
	next := make([]float64, k)
	iters := 0

	for it := 0; it < maxIter; it++ {
		iters = it + 1
		for j := 0; j < k; j++ {
			next[j] = alpha
		}
		for i, term := range terms {
			for j := 0; j < k; j++ {
				logPhi[j] = dig[j] + logBeta[j][term]
			}
			lse := floats.LogSumExp(logPhi)
			for j := 0; j < k; j++ {
				next[j] += counts[i] * math.Exp(logPhi[j]-lse)
			}
		}

		change := 0.0
		for j := 0; j < k; j++ {
			change += math.Abs(next[j] - gamma[j])
			gamma[j] = next[j]
			dig[j] = digamma(gamma[j])
		}
		if change/float64(k) < tol {
			break
		}
	}

	// Final pass: variational bound and M-step accumulation with the
	// converged gamma.
	gammaSum := floats.Sum(gamma)
	digSum := digamma(gammaSum)

	bound := lgamma(float64(k)*alpha) - float64(k)*lgamma(alpha) - lgamma(gammaSum)
	for j := 0; j < k; j++ {
		bound += (alpha-1)*(dig[j]-digSum) + lgamma(gamma[j]) - (gamma[j]-1)*(dig[j]-digSum)
	}

	for i, term := range terms {
		for j := 0; j < k; j++ {
			logPhi[j] = dig[j] + logBeta[j][term]
		}
		lse := floats.LogSumExp(logPhi)
		for j := 0; j < k; j++ {
			phi[j] = math.Exp(logPhi[j] - lse)
			if phi[j] > 0 {
				bound += counts[i] * phi[j] * ((dig[j] - digSum) + logBeta[j][term] - (logPhi[j] - lse))
			}
		}
		if accum != nil {
			accum(term, counts[i], phi)
		}
	}

	return gamma, bound, iters
}

// alphaSuffStats computes the sufficient statistic for the alpha
// Newton step: sum over documents and topics of E[log theta].
func alphaSuffStats(gamma [][]float64) float64 {
	ss := 0.0
	for _, row := range gamma {
		digSum := digamma(floats.Sum(row))
		for _, g := range row {
			ss += digamma(g) - digSum
		}
	}
	return ss
}

// optimizeAlpha maximizes the bound terms involving a symmetric alpha
// by Newton iteration in log space, which keeps alpha positive.
func optimizeAlpha(ss float64, d, k int, init float64) float64 {
	df := float64(d)
	kf := float64(k)

	a := init
	if a <= 0 {
		a = 0.1
	}
	logA := math.Log(a)

	for i := 0; i < 100; i++ {
		a = math.Exp(logA)
		if math.IsNaN(a) || math.IsInf(a, 0) {
			a = init * 10
			if a <= 0 {
				a = 1
			}
			logA = math.Log(a)
		}

		grad := df*(kf*digamma(kf*a)-kf*digamma(a)) + ss
		hess := df * (kf*kf*trigamma(kf*a) - kf*trigamma(a))

		logA -= grad / (hess*a + grad)
		if math.Abs(grad) < 1e-5 {
			break
		}
	}
	out := math.Exp(logA)
	if math.IsNaN(out) || math.IsInf(out, 0) || out <= 0 {
		return init
	}
	return out
}

// randomLogBeta draws uniform positive weights per topic and
// normalizes them into log probabilities.
func randomLogBeta(rng *rand.Rand, k, v int) [][]float64 {
	logBeta := make([][]float64, k)
	for j := 0; j < k; j++ {
		row := make([]float64, v)
		sum := 0.0
		for t := 0; t < v; t++ {
			row[t] = rng.Float64() + 0.01
			sum += row[t]
		}
		for t := 0; t < v; t++ {
			row[t] = math.Log(row[t] / sum)
		}
		logBeta[j] = row
	}
	return logBeta
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func copyMatrix(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
