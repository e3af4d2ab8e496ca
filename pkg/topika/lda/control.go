package lda

import (
	"fmt"
	"log"
	"os"

	"github.com/cognicore/topika/pkg/topika/internalerr"
)

// Common holds the control fields shared by both estimation methods.
//
// NStart restarts run sequentially, one seed per start. When Best is
// set only the fit with the highest log-likelihood is returned.
type Common struct {
	// NStart is the number of restarts. Zero means one.
	NStart int
	// Seed holds one RNG seed per start. Empty means time-derived
	// seeds; a non-empty list must have exactly NStart entries.
	Seed []int64
	// Best keeps only the restart with maximum log-likelihood.
	Best bool
	// Keep > 0 records the log-likelihood every Keep iterations.
	Keep int
	// Verbose > 0 logs progress every Verbose iterations.
	Verbose int
	// Logger receives Verbose output. Nil means stderr.
	Logger *log.Logger
}

func (c *Common) starts() int {
	if c.NStart <= 0 {
		return 1
	}
	return c.NStart
}

func (c *Common) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

func (c *Common) validateCommon() error {
	if len(c.Seed) > 0 && len(c.Seed) != c.starts() {
		return fmt.Errorf("%w: %d seeds for %d starts",
			internalerr.ErrSeedCount, len(c.Seed), c.starts())
	}
	if c.Keep < 0 {
		return fmt.Errorf("%w: negative Keep", internalerr.ErrInvalidControl)
	}
	return nil
}

// Control is the parameter object passed to Fit. The concrete type
// must match the requested method: *VEMControl for "VEM",
// *GibbsControl for "Gibbs".
type Control interface {
	common() *Common
	method() string
	validate() error
}

// VEMControl configures variational EM estimation.
type VEMControl struct {
	Common

	// Alpha is the symmetric document-topic Dirichlet prior.
	// Zero means the 50/k default.
	Alpha float64
	// EstimateAlpha re-estimates Alpha by Newton iteration each
	// EM step.
	EstimateAlpha bool
	// EstimateBeta re-estimates the topic-term distributions each
	// EM step. Turn off to hold an initial model's terms fixed
	// (posterior inference over new documents).
	EstimateBeta bool

	// EM stopping rule: relative change of the variational bound.
	EMTol     float64
	EMMaxIter int

	// Per-document variational loop stopping rule.
	VarTol     float64
	VarMaxIter int
}

// DefaultVEMControl returns the VEM defaults: alpha estimated, beta
// estimated, EM tolerance 1e-4 over at most 1000 iterations, inner
// variational tolerance 1e-6 over at most 500 iterations.
func DefaultVEMControl() *VEMControl {
	return &VEMControl{
		EstimateAlpha: true,
		EstimateBeta:  true,
		EMTol:         1e-4,
		EMMaxIter:     1000,
		VarTol:        1e-6,
		VarMaxIter:    500,
	}
}

func (c *VEMControl) common() *Common { return &c.Common }
func (c *VEMControl) method() string  { return MethodVEM }

func (c *VEMControl) validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.Alpha < 0 {
		return fmt.Errorf("%w: negative alpha", internalerr.ErrInvalidControl)
	}
	if c.EMTol < 0 || c.VarTol < 0 {
		return fmt.Errorf("%w: negative tolerance", internalerr.ErrInvalidControl)
	}
	if c.EMMaxIter <= 0 || c.VarMaxIter <= 0 {
		return fmt.Errorf("%w: iteration limits must be positive", internalerr.ErrInvalidControl)
	}
	return nil
}

// GibbsControl configures collapsed Gibbs sampling.
type GibbsControl struct {
	Common

	// Alpha is the symmetric document-topic prior. Zero means 50/k.
	Alpha float64
	// Delta is the symmetric topic-term prior. Zero means 0.1.
	Delta float64

	// Iter is the number of sampling sweeps after burn-in.
	Iter int
	// Burnin sweeps are discarded before sampling starts.
	Burnin int
	// Thin takes a sample every Thin post-burn-in sweeps. Zero
	// means Iter, i.e. a single sample of the final state.
	Thin int

	// SaveEvery > 0 writes a model snapshot to Prefix after every
	// SaveEvery sweeps.
	SaveEvery int
	// Prefix is the checkpoint directory, created if absent.
	Prefix string
}

// DefaultGibbsControl returns the Gibbs defaults: delta 0.1, 2000
// sampling sweeps, no burn-in discard beyond the default 0, a single
// final sample, no checkpointing.
func DefaultGibbsControl() *GibbsControl {
	return &GibbsControl{
		Delta: 0.1,
		Iter:  2000,
	}
}

func (c *GibbsControl) common() *Common { return &c.Common }
func (c *GibbsControl) method() string  { return MethodGibbs }

func (c *GibbsControl) validate() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.Alpha < 0 || c.Delta < 0 {
		return fmt.Errorf("%w: negative prior", internalerr.ErrInvalidControl)
	}
	if c.Iter <= 0 {
		return fmt.Errorf("%w: Iter must be positive", internalerr.ErrInvalidControl)
	}
	if c.Burnin < 0 || c.Thin < 0 || c.SaveEvery < 0 {
		return fmt.Errorf("%w: negative iteration parameter", internalerr.ErrInvalidControl)
	}
	if c.SaveEvery > 0 && c.Prefix == "" {
		return fmt.Errorf("%w: SaveEvery set without Prefix", internalerr.ErrInvalidControl)
	}
	return nil
}

// thin returns the effective thinning interval.
func (c *GibbsControl) thin() int {
	if c.Thin <= 0 {
		return c.Iter
	}
	return c.Thin
}

// defaultAlpha is the conventional symmetric prior when none is given.
func defaultAlpha(alpha float64, k int) float64 {
	if alpha > 0 {
		return alpha
	}
	return 50.0 / float64(k)
}
