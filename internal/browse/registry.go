package browse

import (
	"github.com/csheth/benotes/internal/resources"
)

// LoadStatus is the lazy-load progress of a panel.
type LoadStatus int

const (
	NotLoaded LoadStatus = iota
	Loading
	Loaded
	Failed
)

// PanelState is the combined open/load state of one subject row.
type PanelState int

const (
	Collapsed PanelState = iota
	ExpandedLoading
	ExpandedLoaded
	ExpandedError
)

func (s PanelState) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case ExpandedLoading:
		return "loading"
	case ExpandedLoaded:
		return "loaded"
	case ExpandedError:
		return "error"
	default:
		return "unknown"
	}
}

// Panel is the resource area under one subject row.
type Panel struct {
	Key string
	// Subject is what the latest fetch asked for. Colliding rows share the
	// panel, so it follows whichever row triggered that fetch.
	Subject string
	Open    bool
	Status  LoadStatus
	Plan    resources.Plan
	Err     error
	Fetches int
}

// State folds the open flag and load status into a PanelState. A closed panel
// is Collapsed whatever it has loaded.
func (p Panel) State() PanelState {
	if !p.Open {
		return Collapsed
	}
	switch p.Status {
	case Loaded:
		return ExpandedLoaded
	case Failed:
		return ExpandedError
	default:
		return ExpandedLoading
	}
}

// Registry holds the panels of the rows currently rendered. It is rebuilt
// (new generation) whenever the subject list is re-rendered.
type Registry struct {
	panels     map[string]*Panel
	generation int
}

// NewRegistry returns an empty registry at generation 1.
func NewRegistry() *Registry {
	return &Registry{panels: map[string]*Panel{}, generation: 1}
}

// Generation identifies the current set of rows. Fetch results tagged with an
// older generation belong to rows that no longer exist.
func (r *Registry) Generation() int {
	return r.generation
}

// Reset drops every panel and advances the generation.
func (r *Registry) Reset() {
	r.panels = map[string]*Panel{}
	r.generation++
}

// Panel returns a copy of the panel stored under key.
func (r *Registry) Panel(key string) (Panel, bool) {
	p, ok := r.panels[key]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

func (r *Registry) ensure(key, subject string) *Panel {
	p, ok := r.panels[key]
	if !ok {
		p = &Panel{Key: key, Subject: subject}
		r.panels[key] = p
	}
	return p
}

// Expand opens the panel. The bool result is true when the caller must issue
// exactly one fetch: the panel has never loaded or its last attempt failed.
// The status flips to Loading before returning, so a second Expand while the
// request is in flight asks for nothing.
func (r *Registry) Expand(key, subject string) (Panel, bool) {
	p := r.ensure(key, subject)
	p.Open = true
	if p.Status == NotLoaded || p.Status == Failed {
		p.Subject = subject
		p.Status = Loading
		p.Err = nil
		p.Fetches++
		return *p, true
	}
	return *p, false
}

// Collapse closes the panel and keeps whatever it has loaded.
func (r *Registry) Collapse(key string) {
	if p, ok := r.panels[key]; ok {
		p.Open = false
	}
}

// Toggle flips the panel open or closed. It reports whether a fetch must be
// dispatched, with the same contract as Expand.
func (r *Registry) Toggle(key, subject string) (Panel, bool) {
	if p, ok := r.panels[key]; ok && p.Open {
		p.Open = false
		return *p, false
	}
	return r.Expand(key, subject)
}

// Resolve applies a fetch outcome. It returns false when the result is stale:
// another generation, an unknown key, or a panel that is not waiting.
func (r *Registry) Resolve(generation int, key string, plan resources.Plan, err error) bool {
	if generation != r.generation {
		return false
	}
	p, ok := r.panels[key]
	if !ok || p.Status != Loading {
		return false
	}
	if err != nil {
		p.Status = Failed
		p.Err = err
		p.Plan = resources.Plan{}
		return true
	}
	p.Status = Loaded
	p.Plan = plan
	p.Err = nil
	return true
}
