package session

import (
	"testing"

	"cxfront/internal/diag"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Options{})
	if s.Strings == nil || s.Types == nil || s.Registry == nil || s.Bag == nil {
		t.Fatalf("session state not initialized: %+v", s)
	}
	// The zero MaxDiagnostics falls back to the session default rather
	// than the bag's one-element minimum.
	for i := 0; i < DefaultMaxDiagnostics; i++ {
		if !s.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.TplInfo}) {
			t.Fatalf("dropped diagnostic %d under the default cap", i)
		}
	}
	if s.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.TplInfo}) {
		t.Fatalf("cap must stop at %d", DefaultMaxDiagnostics)
	}
}

func TestReporterFeedsBag(t *testing.T) {
	s := New(Options{MaxDiagnostics: 4})
	diag.ReportError(s.Reporter(), diag.TplUnknownTemplate, source.Span{File: 1, Start: 2, End: 5}, "unknown template")
	if !s.Bag.HasErrors() {
		t.Fatalf("report did not land in the bag")
	}
	if got := s.Bag.Items()[0].Code; got != diag.TplUnknownTemplate {
		t.Fatalf("code = %s", got)
	}
}

func TestInstantiatorWiring(t *testing.T) {
	s := New(Options{MaxInstantiationDepth: 16})
	it := s.Instantiator()
	if it.Registry != s.Registry || it.Types != s.Types || it.Strings != s.Strings {
		t.Fatalf("instantiator not wired to session state")
	}
	if it.MaxDepth != 16 {
		t.Fatalf("MaxDepth = %d, want 16", it.MaxDepth)
	}
}

func TestResetIsolatesRuns(t *testing.T) {
	s := New(Options{MaxDiagnostics: 8})
	name := s.Strings.Intern("widget")
	h := s.Types.Register(types.Info{Name: name, Base: types.BaseStruct})
	s.Bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.TplUnknownTemplate})

	s.Reset()

	if _, ok := s.Types.Lookup(h); ok {
		t.Fatalf("pre-reset type handle survived")
	}
	if _, ok := s.Strings.Lookup(name); ok {
		t.Fatalf("pre-reset string id survived the interner reset")
	}
	if s.Bag.Len() != 0 {
		t.Fatalf("diagnostics survived reset")
	}
	if got := len(s.Registry.Instantiations()); got != 0 {
		t.Fatalf("registry kept %d instantiations", got)
	}
}
