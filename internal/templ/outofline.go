package templ

import (
	"cxfront/internal/ast"
	"cxfront/internal/source"
)

// OutOfLineKind enumerates the member definitions that can appear
// outside their enclosing class template.
type OutOfLineKind uint8

const (
	// OutOfLineMethod is `template<...> R C<T>::f(...) { ... }`.
	OutOfLineMethod OutOfLineKind = iota
	// OutOfLineStaticVar is a static data member definition.
	OutOfLineStaticVar
	// OutOfLineNestedClass is a nested class defined out of line.
	OutOfLineNestedClass
)

// OutOfLineMember is a member definition parked in the registry until
// its enclosing template is instantiated. Method bodies stay as saved
// token positions and are re-parsed through the BodyParser once the
// parameter bindings are known.
type OutOfLineMember struct {
	Kind      OutOfLineKind
	Enclosing source.StringID
	Name      source.StringID
	Result    ast.TypeSpec
	Params    []ast.Param
	Type      ast.TypeSpec // static vars / nested class fields
	Init      *ast.Expr
	BodyPos   ast.TokenPos
}

// RegisterOutOfLineMember parks a member definition awaiting its
// enclosing template's instantiation.
func (r *Registry) RegisterOutOfLineMember(m *OutOfLineMember) {
	r.pending[m.Enclosing] = append(r.pending[m.Enclosing], m)
}

// PendingMembers returns the out-of-line definitions registered for an
// enclosing template, in registration order.
func (r *Registry) PendingMembers(enclosing source.StringID) []*OutOfLineMember {
	if set, ok := lookupQualified(r, r.pending, enclosing); ok {
		return set
	}
	return nil
}
