package stoplist

import (
	"reflect"
	"testing"

	"github.com/cognicore/topika/pkg/topika/dtm"
)

func TestManagerBasic(t *testing.T) {
	mgr := NewManager([]string{"the", "a", "and"})

	if !mgr.IsStop("the") {
		t.Error("the should be a stopword")
	}
	if mgr.IsStop("solar") {
		t.Error("solar should not be a stopword")
	}
	if mgr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", mgr.Len())
	}
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"the"})

	mgr.Add("said", Reason{HighDF: true})
	if !mgr.IsStop("said") {
		t.Error("said should be a stopword after Add")
	}

	mgr.Remove("said")
	if mgr.IsStop("said") {
		t.Error("said should not be a stopword after Remove")
	}
}

func TestManagerAllSorted(t *testing.T) {
	mgr := NewManager([]string{"the", "and", "said"})
	got := mgr.All()
	want := []string{"and", "said", "the"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestSuggest(t *testing.T) {
	// "the" appears in every document with no stable partner; the
	// content terms each appear in a minority of documents.
	vocab := []string{"the", "sun", "moon", "tide", "star"}
	x, err := dtm.FromDense([][]float64{
		{1, 1, 0, 0, 1},
		{1, 0, 1, 0, 0},
		{1, 0, 0, 1, 0},
		{1, 1, 0, 0, 0},
	}, vocab)
	if err != nil {
		t.Fatalf("FromDense: %v", err)
	}

	mgr := NewManager(nil)
	candidates := mgr.Suggest(x, DefaultThresholds())

	if len(candidates) != 1 {
		t.Fatalf("got %d candidates %v, want 1", len(candidates), candidates)
	}
	c := candidates[0]
	if c.Term != "the" {
		t.Errorf("candidate = %q, want the", c.Term)
	}
	if !c.Reason.HighDF || !c.Reason.LowNPMI {
		t.Errorf("reason = %+v, want both flags set", c.Reason)
	}
	if c.Reason.DFShare != 1 {
		t.Errorf("DFShare = %v, want 1", c.Reason.DFShare)
	}
}

func TestSuggestSkipsExistingStops(t *testing.T) {
	vocab := []string{"the", "sun"}
	x, err := dtm.FromDense([][]float64{
		{1, 1},
		{1, 2},
	}, vocab)
	if err != nil {
		t.Fatalf("FromDense: %v", err)
	}

	mgr := NewManager([]string{"the"})
	for _, c := range mgr.Suggest(x, DefaultThresholds()) {
		if c.Term == "the" {
			t.Error("suggested a term already on the list")
		}
	}
}
