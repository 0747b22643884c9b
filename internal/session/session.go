// Package session owns the per-compilation state: the string interner,
// the type table, the template registry and the diagnostic bag. One
// Session corresponds to one translation unit; nothing in it is
// global, so independent units cannot observe each other's
// instantiations.
package session

import (
	"cxfront/internal/diag"
	"cxfront/internal/source"
	"cxfront/internal/templ"
	"cxfront/internal/types"
)

// DefaultMaxDiagnostics bounds the bag when the manifest does not.
const DefaultMaxDiagnostics = 256

// Session threads the compilation state explicitly through the
// frontend phases.
type Session struct {
	Strings  *source.Interner
	Types    *types.Table
	Registry *templ.Registry
	Bag      *diag.Bag
	Options  Options
}

// New builds a session from options.
func New(opts Options) *Session {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	strs := source.NewInterner()
	tbl := types.NewTable()
	return &Session{
		Strings:  strs,
		Types:    tbl,
		Registry: templ.NewRegistry(strs),
		Bag:      diag.NewBag(maxDiags),
		Options:  opts,
	}
}

// Reporter returns the bag-backed reporter the engine phases report
// through.
func (s *Session) Reporter() diag.Reporter {
	return &diag.BagReporter{Bag: s.Bag}
}

// Instantiator builds an instantiation driver over this session's
// state. Collaborators (body parser, constant evaluator) are attached
// by the caller.
func (s *Session) Instantiator() *templ.Instantiator {
	return &templ.Instantiator{
		Registry: s.Registry,
		Types:    s.Types,
		Strings:  s.Strings,
		Reporter: s.Reporter(),
		MaxDepth: s.Options.MaxInstantiationDepth,
	}
}

// Reset clears everything derived from source while keeping the
// session value (and its options) alive: interned strings, type
// handles, registered templates, cached instantiations and
// diagnostics are all dropped. Old type handles fail their generation
// check afterwards.
func (s *Session) Reset() {
	s.Strings.Reset()
	s.Types.Reset()
	s.Registry.Clear()
	s.Bag.Reset()
}
