// Package config loads fit specifications and stopword lists from YAML
// files and turns them into runnable components.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/topika/pkg/topika/internalerr"
	"github.com/cognicore/topika/pkg/topika/lda"
)

// FitSpec is the YAML description of one estimation run.
type FitSpec struct {
	// Method is "VEM" or "Gibbs".
	Method string `yaml:"method"`
	// K is the number of topics.
	K int `yaml:"k"`

	Corpus CorpusSpec `yaml:"corpus"`
	Common CommonSpec `yaml:"common"`
	VEM    *VEMSpec   `yaml:"vem,omitempty"`
	Gibbs  *GibbsSpec `yaml:"gibbs,omitempty"`
}

// CorpusSpec configures tokenization and vocabulary pruning.
type CorpusSpec struct {
	StoplistPath string  `yaml:"stoplist"`
	MinTokenLen  int     `yaml:"min_token_len"`
	MinDF        int     `yaml:"min_df"`
	MaxDFShare   float64 `yaml:"max_df_share"`
}

// CommonSpec carries the restart fields shared by both methods.
type CommonSpec struct {
	NStart  int     `yaml:"nstart"`
	Seed    []int64 `yaml:"seed"`
	Best    bool    `yaml:"best"`
	Keep    int     `yaml:"keep"`
	Verbose int     `yaml:"verbose"`
}

// VEMSpec mirrors lda.VEMControl in YAML.
type VEMSpec struct {
	Alpha         float64 `yaml:"alpha"`
	EstimateAlpha *bool   `yaml:"estimate_alpha,omitempty"`
	EstimateBeta  *bool   `yaml:"estimate_beta,omitempty"`
	EMTol         float64 `yaml:"em_tol"`
	EMMaxIter     int     `yaml:"em_max_iter"`
	VarTol        float64 `yaml:"var_tol"`
	VarMaxIter    int     `yaml:"var_max_iter"`
}

// GibbsSpec mirrors lda.GibbsControl in YAML.
type GibbsSpec struct {
	Alpha     float64 `yaml:"alpha"`
	Delta     float64 `yaml:"delta"`
	Iter      int     `yaml:"iter"`
	Burnin    int     `yaml:"burnin"`
	Thin      int     `yaml:"thin"`
	SaveEvery int     `yaml:"save_every"`
	Prefix    string  `yaml:"prefix"`
}

// Load reads a fit specification from a YAML file.
func Load(path string) (*FitSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fit spec %s: %w", path, err)
	}

	var spec FitSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse fit spec %s: %w", path, err)
	}
	if spec.Method == "" {
		spec.Method = lda.MethodVEM
	}
	return &spec, nil
}

// Control materializes the spec's control object for its method,
// starting from that method's defaults so absent YAML fields keep
// their default values.
func (s *FitSpec) Control() (lda.Control, error) {
	switch s.Method {
	case lda.MethodVEM, "vem":
		ctl := lda.DefaultVEMControl()
		applyCommon(&ctl.Common, s.Common)
		if v := s.VEM; v != nil {
			ctl.Alpha = v.Alpha
			if v.EstimateAlpha != nil {
				ctl.EstimateAlpha = *v.EstimateAlpha
			}
			if v.EstimateBeta != nil {
				ctl.EstimateBeta = *v.EstimateBeta
			}
			if v.EMTol > 0 {
				ctl.EMTol = v.EMTol
			}
			if v.EMMaxIter > 0 {
				ctl.EMMaxIter = v.EMMaxIter
			}
			if v.VarTol > 0 {
				ctl.VarTol = v.VarTol
			}
			if v.VarMaxIter > 0 {
				ctl.VarMaxIter = v.VarMaxIter
			}
		}
		return ctl, nil
	case lda.MethodGibbs, "gibbs", "GIBBS":
		ctl := lda.DefaultGibbsControl()
		applyCommon(&ctl.Common, s.Common)
		if g := s.Gibbs; g != nil {
			ctl.Alpha = g.Alpha
			if g.Delta > 0 {
				ctl.Delta = g.Delta
			}
			if g.Iter > 0 {
				ctl.Iter = g.Iter
			}
			ctl.Burnin = g.Burnin
			ctl.Thin = g.Thin
			ctl.SaveEvery = g.SaveEvery
			ctl.Prefix = g.Prefix
		}
		return ctl, nil
	default:
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownMethod, s.Method)
	}
}

func applyCommon(dst *lda.Common, src CommonSpec) {
	dst.NStart = src.NStart
	dst.Seed = src.Seed
	dst.Best = src.Best
	dst.Keep = src.Keep
	dst.Verbose = src.Verbose
}

// Stoplist is the stopword list configuration.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist reads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stoplist %s: %w", path, err)
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist %s: %w", path, err)
	}
	return &sl, nil
}
