package browse

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/csheth/benotes/internal/resources"
)

func samplePlan() resources.Plan {
	return resources.BuildPlan([]resources.Record{{Type: "Notes", Link: "https://f.example/n.pdf"}})
}

func TestRegistryExpandFetchesOnce(t *testing.T) {
	r := NewRegistry()

	panel, fetch := r.Expand("res-DSA", "DSA")
	if !fetch {
		t.Fatal("first expand must request a fetch")
	}
	if panel.State() != ExpandedLoading {
		t.Fatalf("state = %v, want loading", panel.State())
	}

	// A second click before the response lands must not fetch again.
	if _, fetch := r.Expand("res-DSA", "DSA"); fetch {
		t.Fatal("expand while loading must not fetch")
	}

	if !r.Resolve(r.Generation(), "res-DSA", samplePlan(), nil) {
		t.Fatal("resolve should apply to a loading panel")
	}
	panel, _ = r.Panel("res-DSA")
	if panel.State() != ExpandedLoaded {
		t.Fatalf("state = %v, want loaded", panel.State())
	}

	r.Collapse("res-DSA")
	panel, _ = r.Panel("res-DSA")
	if panel.State() != Collapsed || panel.Plan.Empty() {
		t.Fatalf("collapse must keep the loaded plan, got %#v", panel)
	}
	if _, fetch := r.Expand("res-DSA", "DSA"); fetch {
		t.Fatal("re-expanding a loaded panel must not fetch")
	}
	panel, _ = r.Panel("res-DSA")
	if panel.Fetches != 1 {
		t.Fatalf("fetches = %d, want 1", panel.Fetches)
	}
}

func TestRegistryRetriesAfterFailure(t *testing.T) {
	r := NewRegistry()
	r.Expand("res-DSA", "DSA")
	r.Resolve(r.Generation(), "res-DSA", resources.Plan{}, errors.New("offline"))

	panel, _ := r.Panel("res-DSA")
	if panel.State() != ExpandedError || panel.Err == nil {
		t.Fatalf("expected error state, got %#v", panel)
	}

	if _, fetch := r.Toggle("res-DSA", "DSA"); fetch {
		t.Fatal("collapsing must not fetch")
	}
	panel, fetch := r.Toggle("res-DSA", "DSA")
	if !fetch {
		t.Fatal("re-expanding after an error must retry")
	}
	if panel.State() != ExpandedLoading || panel.Err != nil {
		t.Fatalf("retry should reset to loading, got %#v", panel)
	}
	if panel.Fetches != 2 {
		t.Fatalf("fetches = %d, want 2", panel.Fetches)
	}
}

func TestRegistryDropsStaleResults(t *testing.T) {
	r := NewRegistry()
	r.Expand("res-DSA", "DSA")
	old := r.Generation()
	r.Reset()

	if r.Resolve(old, "res-DSA", samplePlan(), nil) {
		t.Fatal("result from a previous generation must be dropped")
	}
	if _, ok := r.Panel("res-DSA"); ok {
		t.Fatal("reset must drop panels")
	}
	if r.Resolve(r.Generation(), "res-DSA", samplePlan(), nil) {
		t.Fatal("result for an unknown panel must be dropped")
	}
}

func TestRegistryResultWhileCollapsed(t *testing.T) {
	r := NewRegistry()
	r.Expand("res-DSA", "DSA")
	r.Collapse("res-DSA")
	if !r.Resolve(r.Generation(), "res-DSA", samplePlan(), nil) {
		t.Fatal("result must apply even if the row was collapsed meanwhile")
	}
	if _, fetch := r.Expand("res-DSA", "DSA"); fetch {
		t.Fatal("panel loaded while collapsed must not refetch")
	}
}

// Model check: over any interleaving of clicks and responses, a panel is
// fetched once per failure plus one, never while a request is outstanding,
// and never again after a success.
func TestRegistryFetchAccounting(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		const key = "res-X"
		var (
			outstanding bool
			loaded      bool
			failures    int
			fetches     int
		)
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "action") {
			case 0:
				_, fetch := r.Toggle(key, "X")
				if fetch {
					if outstanding || loaded {
						t.Fatalf("duplicate fetch (outstanding=%v loaded=%v)", outstanding, loaded)
					}
					outstanding = true
					fetches++
				}
			case 1:
				if !outstanding {
					continue
				}
				ok := rapid.Bool().Draw(t, "ok")
				var err error
				if !ok {
					err = errors.New("boom")
				}
				if !r.Resolve(r.Generation(), key, samplePlan(), err) {
					t.Fatal("outstanding result rejected")
				}
				outstanding = false
				if ok {
					loaded = true
				} else {
					failures++
				}
			case 2:
				r.Collapse(key)
			}
		}
		if limit := failures + 1; fetches > limit {
			t.Fatalf("fetches = %d, failures = %d", fetches, failures)
		}
		if p, ok := r.Panel(key); ok && p.Fetches != fetches {
			t.Fatalf("panel counted %d fetches, model %d", p.Fetches, fetches)
		}
	})
}
