package lda

import (
	"errors"
	"testing"

	"github.com/cognicore/topika/pkg/topika/internalerr"
)

func TestVEMControlValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VEMControl)
		wantErr error
	}{
		{"defaults", func(c *VEMControl) {}, nil},
		{"negative alpha", func(c *VEMControl) { c.Alpha = -1 }, internalerr.ErrInvalidControl},
		{"negative em tol", func(c *VEMControl) { c.EMTol = -1 }, internalerr.ErrInvalidControl},
		{"zero em max iter", func(c *VEMControl) { c.EMMaxIter = 0 }, internalerr.ErrInvalidControl},
		{"zero var max iter", func(c *VEMControl) { c.VarMaxIter = 0 }, internalerr.ErrInvalidControl},
		{"negative keep", func(c *VEMControl) { c.Keep = -1 }, internalerr.ErrInvalidControl},
		{"seed count mismatch", func(c *VEMControl) {
			c.NStart = 2
			c.Seed = []int64{1}
		}, internalerr.ErrSeedCount},
		{"seeds match starts", func(c *VEMControl) {
			c.NStart = 2
			c.Seed = []int64{1, 2}
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := DefaultVEMControl()
			tt.mutate(ctl)
			err := ctl.validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGibbsControlValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GibbsControl)
		wantErr bool
	}{
		{"defaults", func(c *GibbsControl) {}, false},
		{"negative delta", func(c *GibbsControl) { c.Delta = -0.1 }, true},
		{"zero iter", func(c *GibbsControl) { c.Iter = 0 }, true},
		{"negative burnin", func(c *GibbsControl) { c.Burnin = -1 }, true},
		{"negative thin", func(c *GibbsControl) { c.Thin = -1 }, true},
		{"save without prefix", func(c *GibbsControl) { c.SaveEvery = 10 }, true},
		{"save with prefix", func(c *GibbsControl) {
			c.SaveEvery = 10
			c.Prefix = "ckpt"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl := DefaultGibbsControl()
			tt.mutate(ctl)
			err := ctl.validate()
			if tt.wantErr && err == nil {
				t.Fatal("validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("validate() = %v, want nil", err)
			}
		})
	}
}

func TestGibbsControlThin(t *testing.T) {
	ctl := DefaultGibbsControl()
	ctl.Iter = 500
	if got := ctl.thin(); got != 500 {
		t.Errorf("thin() with Thin=0 = %d, want Iter", got)
	}
	ctl.Thin = 25
	if got := ctl.thin(); got != 25 {
		t.Errorf("thin() = %d, want 25", got)
	}
}

func TestCommonStarts(t *testing.T) {
	c := &Common{}
	if c.starts() != 1 {
		t.Errorf("starts() with NStart=0 = %d, want 1", c.starts())
	}
	c.NStart = 4
	if c.starts() != 4 {
		t.Errorf("starts() = %d, want 4", c.starts())
	}
}

func TestDefaultAlpha(t *testing.T) {
	if got := defaultAlpha(0, 10); got != 5 {
		t.Errorf("defaultAlpha(0, 10) = %v, want 5", got)
	}
	if got := defaultAlpha(0.3, 10); got != 0.3 {
		t.Errorf("defaultAlpha(0.3, 10) = %v, want 0.3", got)
	}
}
