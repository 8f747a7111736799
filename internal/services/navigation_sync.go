package services

import (
	"net/url"
	"sync"
)

// Shareable parameter keys mirrored into listing links.
const (
	paramCategory    = "category"
	paramSubcategory = "subcategory"
)

// FilterState is the navigation-visible selection. Query stays local to the
// session and is never mirrored into the shareable parameters.
type FilterState struct {
	Category    string
	Subcategory string
	Query       string
}

// Criteria converts the state into filter criteria for the catalog service.
func (s FilterState) Criteria() FilterCriteria {
	return FilterCriteria{Category: s.Category, Subcategory: s.Subcategory, Query: s.Query}
}

// ParamWriter receives outbound rewrites of the shareable parameters. Replace
// overwrites the full parameter set rather than appending, so incremental
// filter tweaks do not accumulate navigable history entries.
type ParamWriter interface {
	Replace(params url.Values)
}

type syncPhase int

const (
	phaseIdle syncPhase = iota
	phaseInboundApply
	phaseOutboundApply
)

// NavigationSync keeps FilterState and the shareable parameters consistent in
// both directions. Every transition runs as a guarded two-phase step: a
// direction is entered only from idle, and both directions compare values
// before applying, so an echo of a write the sync itself produced is inert.
type NavigationSync struct {
	mu     sync.Mutex
	phase  syncPhase
	state  FilterState
	params url.Values
	writer ParamWriter
}

// NewNavigationSync constructs a sync with empty state. The writer may be nil
// when no external parameter surface is attached.
func NewNavigationSync(writer ParamWriter) *NavigationSync {
	return &NavigationSync{params: url.Values{}, writer: writer}
}

// State returns a snapshot of the current filter state.
func (n *NavigationSync) State() FilterState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Params returns a copy of the parameter mirror as last written or adopted.
func (n *NavigationSync) Params() url.Values {
	n.mu.Lock()
	defer n.mu.Unlock()
	return cloneParams(n.params)
}

// ApplyParams adopts an inbound parameter change, for example a followed
// link. Each field is compared independently and adopted only when it
// differs from current state. The query field is untouched. Returns whether
// any field changed.
func (n *NavigationSync) ApplyParams(params url.Values) bool {
	n.mu.Lock()
	if n.phase != phaseIdle {
		n.mu.Unlock()
		return false
	}
	n.phase = phaseInboundApply

	changed := false
	if category := params.Get(paramCategory); category != n.state.Category {
		n.state.Category = category
		changed = true
	}
	if sub := params.Get(paramSubcategory); sub != n.state.Subcategory {
		n.state.Subcategory = sub
		changed = true
	}
	n.params = shareableParams(n.state)

	n.phase = phaseIdle
	n.mu.Unlock()
	return changed
}

// SetCategory selects a category. Selecting the active category again clears
// both category and subcategory; selecting a different one clears the
// subcategory. Returns whether the state changed.
func (n *NavigationSync) SetCategory(categoryID string) bool {
	return n.outbound(func(state *FilterState) bool {
		switch {
		case categoryID != "" && state.Category == categoryID:
			state.Category = ""
			state.Subcategory = ""
			return true
		case state.Category != categoryID:
			state.Category = categoryID
			state.Subcategory = ""
			return true
		}
		return false
	})
}

// SetSubcategory selects a subcategory. Idempotent when the value already
// matches.
func (n *NavigationSync) SetSubcategory(subID string) bool {
	return n.outbound(func(state *FilterState) bool {
		if state.Subcategory == subID {
			return false
		}
		state.Subcategory = subID
		return true
	})
}

// SetQuery updates the local search query. The query is never mirrored into
// the shareable parameters.
func (n *NavigationSync) SetQuery(query string) bool {
	n.mu.Lock()
	if n.phase != phaseIdle {
		n.mu.Unlock()
		return false
	}
	changed := n.state.Query != query
	n.state.Query = query
	n.mu.Unlock()
	return changed
}

// ClearAll resets every facet, including the local query.
func (n *NavigationSync) ClearAll() bool {
	cleared := n.outbound(func(state *FilterState) bool {
		if state.Category == "" && state.Subcategory == "" {
			return false
		}
		state.Category = ""
		state.Subcategory = ""
		return true
	})

	n.mu.Lock()
	if n.state.Query != "" {
		n.state.Query = ""
		cleared = true
	}
	n.mu.Unlock()
	return cleared
}

// outbound runs a state mutation and, when the resulting parameters differ
// from the mirror, rewrites the external parameters. The writer is invoked
// outside the critical section so a re-entrant callback cannot deadlock; the
// phase guard makes such a callback a no-op instead.
func (n *NavigationSync) outbound(mutate func(*FilterState) bool) bool {
	n.mu.Lock()
	if n.phase != phaseIdle {
		n.mu.Unlock()
		return false
	}
	n.phase = phaseOutboundApply

	changed := mutate(&n.state)
	var write url.Values
	if changed {
		next := shareableParams(n.state)
		if !paramsEqual(next, n.params) {
			n.params = next
			write = cloneParams(next)
		}
	}
	n.mu.Unlock()

	// Phase stays in outbound-apply across the writer call.
	if write != nil && n.writer != nil {
		n.writer.Replace(write)
	}

	n.mu.Lock()
	n.phase = phaseIdle
	n.mu.Unlock()
	return changed
}

// shareableParams encodes the state's navigation facets. Absent facets are
// omitted entirely; an empty-string value is never written.
func shareableParams(state FilterState) url.Values {
	params := url.Values{}
	if state.Category != "" {
		params.Set(paramCategory, state.Category)
	}
	if state.Subcategory != "" {
		params.Set(paramSubcategory, state.Subcategory)
	}
	return params
}

func paramsEqual(a, b url.Values) bool {
	return a.Get(paramCategory) == b.Get(paramCategory) &&
		a.Get(paramSubcategory) == b.Get(paramSubcategory)
}

func cloneParams(params url.Values) url.Values {
	out := url.Values{}
	for key, values := range params {
		for _, value := range values {
			out.Add(key, value)
		}
	}
	return out
}
