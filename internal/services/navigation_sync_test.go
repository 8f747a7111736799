package services

import (
	"net/url"
	"reflect"
	"testing"
)

// recordingWriter captures every outbound parameter rewrite.
type recordingWriter struct {
	writes []url.Values
}

func (w *recordingWriter) Replace(params url.Values) {
	w.writes = append(w.writes, params)
}

func TestNavigationSyncOutbound(t *testing.T) {
	t.Run("selecting a category writes only the category key", func(t *testing.T) {
		writer := &recordingWriter{}
		sync := NewNavigationSync(writer)

		if !sync.SetCategory("printers") {
			t.Fatalf("expected state change")
		}
		if len(writer.writes) != 1 {
			t.Fatalf("expected one write, got %d", len(writer.writes))
		}
		want := url.Values{"category": {"printers"}}
		if !reflect.DeepEqual(writer.writes[0], want) {
			t.Fatalf("unexpected params: %v", writer.writes[0])
		}
		if _, present := writer.writes[0]["subcategory"]; present {
			t.Fatalf("subcategory key must be omitted, not empty")
		}
	})

	t.Run("selecting a category clears the subcategory", func(t *testing.T) {
		sync := NewNavigationSync(nil)
		sync.SetCategory("printers")
		sync.SetSubcategory("laser")

		sync.SetCategory("scanners")
		state := sync.State()
		if state.Category != "scanners" || state.Subcategory != "" {
			t.Fatalf("unexpected state: %+v", state)
		}
	})

	t.Run("re-selecting the active category toggles everything off", func(t *testing.T) {
		writer := &recordingWriter{}
		sync := NewNavigationSync(writer)
		sync.SetCategory("printers")
		sync.SetSubcategory("laser")

		if !sync.SetCategory("printers") {
			t.Fatalf("expected toggle-off to report a change")
		}
		state := sync.State()
		if state.Category != "" || state.Subcategory != "" {
			t.Fatalf("unexpected state after toggle: %+v", state)
		}
		last := writer.writes[len(writer.writes)-1]
		if len(last) != 0 {
			t.Fatalf("cleared facets must be removed, got %v", last)
		}
	})

	t.Run("query changes never touch the parameters", func(t *testing.T) {
		writer := &recordingWriter{}
		sync := NewNavigationSync(writer)

		if !sync.SetQuery("laser") {
			t.Fatalf("expected state change")
		}
		if len(writer.writes) != 0 {
			t.Fatalf("query must stay local, got writes %v", writer.writes)
		}
	})

	t.Run("clear all resets every facet", func(t *testing.T) {
		sync := NewNavigationSync(nil)
		sync.SetCategory("printers")
		sync.SetSubcategory("laser")
		sync.SetQuery("jet")

		if !sync.ClearAll() {
			t.Fatalf("expected state change")
		}
		if state := sync.State(); state != (FilterState{}) {
			t.Fatalf("unexpected state: %+v", state)
		}
		if len(sync.Params()) != 0 {
			t.Fatalf("unexpected params: %v", sync.Params())
		}
	})
}

func TestNavigationSyncInbound(t *testing.T) {
	t.Run("adopts incoming facets", func(t *testing.T) {
		sync := NewNavigationSync(nil)

		changed := sync.ApplyParams(url.Values{
			"category":    {"printers"},
			"subcategory": {"laser"},
		})
		if !changed {
			t.Fatalf("expected state change")
		}
		state := sync.State()
		if state.Category != "printers" || state.Subcategory != "laser" {
			t.Fatalf("unexpected state: %+v", state)
		}
	})

	t.Run("leaves the local query untouched", func(t *testing.T) {
		sync := NewNavigationSync(nil)
		sync.SetQuery("jet")

		sync.ApplyParams(url.Values{"category": {"printers"}})
		if state := sync.State(); state.Query != "jet" {
			t.Fatalf("query was clobbered: %+v", state)
		}
	})

	t.Run("absent keys clear their facet", func(t *testing.T) {
		sync := NewNavigationSync(nil)
		sync.ApplyParams(url.Values{"category": {"printers"}, "subcategory": {"laser"}})

		sync.ApplyParams(url.Values{"category": {"printers"}})
		state := sync.State()
		if state.Category != "printers" || state.Subcategory != "" {
			t.Fatalf("unexpected state: %+v", state)
		}
	})
}

func TestNavigationSyncLoopSafety(t *testing.T) {
	t.Run("inbound echo of current state is inert", func(t *testing.T) {
		writer := &recordingWriter{}
		sync := NewNavigationSync(writer)
		sync.SetCategory("printers")
		writes := len(writer.writes)

		if sync.ApplyParams(url.Values{"category": {"printers"}}) {
			t.Fatalf("echo must not register as a change")
		}
		if len(writer.writes) != writes {
			t.Fatalf("echo produced outbound writes: %v", writer.writes[writes:])
		}
	})

	t.Run("repeated identical selections write once", func(t *testing.T) {
		writer := &recordingWriter{}
		sync := NewNavigationSync(writer)
		sync.SetCategory("printers")
		sync.SetSubcategory("laser")
		writes := len(writer.writes)

		if sync.SetSubcategory("laser") {
			t.Fatalf("identical selection must be a no-op")
		}
		if len(writer.writes) != writes {
			t.Fatalf("identical selection produced writes: %v", writer.writes[writes:])
		}
	})

	t.Run("re-entrant writer callback is a no-op", func(t *testing.T) {
		sync := NewNavigationSync(nil)
		reentrant := &reentrantWriter{}
		sync.writer = reentrant
		reentrant.sync = sync

		sync.SetCategory("printers")
		if state := sync.State(); state.Category != "printers" {
			t.Fatalf("unexpected state: %+v", state)
		}
		if reentrant.innerChanged {
			t.Fatalf("nested transition must be rejected")
		}
	})
}

// reentrantWriter calls back into the sync from inside Replace, imitating a
// parameter surface that immediately reports its own write as a new change.
type reentrantWriter struct {
	sync         *NavigationSync
	innerChanged bool
}

func (w *reentrantWriter) Replace(params url.Values) {
	w.innerChanged = w.sync.SetCategory("scanners")
}

func TestFilterStateCriteria(t *testing.T) {
	state := FilterState{Category: "printers", Subcategory: "laser", Query: "jet"}
	want := FilterCriteria{Category: "printers", Subcategory: "laser", Query: "jet"}
	if got := state.Criteria(); got != want {
		t.Fatalf("unexpected criteria: %+v", got)
	}
}
