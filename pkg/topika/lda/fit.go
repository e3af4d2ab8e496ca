package lda

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/topika/pkg/topika/dtm"
	"github.com/cognicore/topika/pkg/topika/internalerr"
)

// Fit estimates LDA models over a document-term matrix.
//
// method selects the estimator ("VEM" or "Gibbs", case-insensitive)
// and ctl must be the matching control type, or nil for that method's
// defaults. The control's NStart restarts run sequentially, one seed
// per start; with Best set the returned slice holds the single fit
// with maximum log-likelihood, otherwise all fits in start order.
func Fit(x *dtm.Matrix, k int, method string, ctl Control) ([]*Model, error) {
	return fit(x, k, method, ctl, nil)
}

// FitBest is Fit returning only the highest log-likelihood fit,
// regardless of the control's Best flag.
func FitBest(x *dtm.Matrix, k int, method string, ctl Control) (*Model, error) {
	models, err := fit(x, k, method, ctl, nil)
	if err != nil {
		return nil, err
	}
	return pickBest(models), nil
}

// FitWithModel continues estimation from an existing model over a new
// matrix, whose vocabulary width must match the model. The method is
// taken from the control type; k from the model.
//
// For VEM with EstimateBeta off this is pure posterior inference: the
// model's topics stay fixed and only document mixtures are estimated.
func FitWithModel(x *dtm.Matrix, model *Model, ctl Control) ([]*Model, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil initial model", internalerr.ErrInvalidControl)
	}
	if err := x.CheckVocabWidth(len(model.Vocab)); err != nil {
		return nil, err
	}
	if ctl == nil {
		ctl = defaultControl(model.Method)
	}
	return fit(x, model.K, ctl.method(), ctl, model)
}

func fit(x *dtm.Matrix, k int, method string, ctl Control, init *Model) ([]*Model, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil matrix", internalerr.ErrInvalidMatrix)
	}
	if k < 2 {
		return nil, fmt.Errorf("%w: k = %d, need at least 2 topics", internalerr.ErrInvalidControl, k)
	}

	canonical, err := canonicalMethod(method)
	if err != nil {
		return nil, err
	}
	if ctl == nil {
		ctl = defaultControl(canonical)
	}
	if ctl.method() != canonical {
		return nil, fmt.Errorf("%w: %T cannot control method %q",
			internalerr.ErrInvalidControl, ctl, canonical)
	}
	if err := ctl.validate(); err != nil {
		return nil, err
	}

	common := ctl.common()
	seeds := fitSeeds(common)

	models := make([]*Model, 0, len(seeds))
	for i, seed := range seeds {
		if common.Verbose > 0 && len(seeds) > 1 {
			common.logger().Printf("%s: start %d/%d seed %d",
				strings.ToLower(canonical), i+1, len(seeds), seed)
		}

		var m *Model
		switch c := ctl.(type) {
		case *VEMControl:
			m, err = vemFit(x, k, c, seed, init)
		case *GibbsControl:
			m, err = gibbsFit(x, k, c, seed, init)
		}
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	if common.Best && len(models) > 1 {
		return []*Model{pickBest(models)}, nil
	}
	return models, nil
}

// canonicalMethod maps a user-supplied method name onto the canonical
// constant, rejecting anything unrecognized before estimation starts.
func canonicalMethod(method string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "vem":
		return MethodVEM, nil
	case "gibbs":
		return MethodGibbs, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)",
			internalerr.ErrUnknownMethod, method, MethodVEM, MethodGibbs)
	}
}

func defaultControl(method string) Control {
	if method == MethodGibbs {
		return DefaultGibbsControl()
	}
	return DefaultVEMControl()
}

// fitSeeds returns one seed per start: the control's list when given,
// otherwise time-derived seeds.
func fitSeeds(c *Common) []int64 {
	n := c.starts()
	if len(c.Seed) > 0 {
		return append([]int64(nil), c.Seed...)
	}
	seeds := make([]int64, n)
	base := time.Now().UnixNano()
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	return seeds
}

// pickBest returns the fit with maximum log-likelihood.
func pickBest(models []*Model) *Model {
	best := models[0]
	for _, m := range models[1:] {
		if m.LogLik > best.LogLik {
			best = m
		}
	}
	return best
}
