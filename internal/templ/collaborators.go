package templ

import (
	"cxfront/internal/ast"
)

// BodyParser re-enters parsing at a saved token position. The core
// uses it to lazily materialize an out-of-line member function body
// once its enclosing template is instantiated; the parser resolves the
// supplied bindings while re-parsing.
type BodyParser interface {
	ParseMemberBody(pos ast.TokenPos, bindings *Bindings) (*ast.Node, error)
}

// ConstEvaluator evaluates a constant expression to an integer. The
// core uses it for non-type arguments, dependent array bounds and
// variable-template values; the expression handed over has already
// been substituted and contains no dependent references.
type ConstEvaluator interface {
	Eval(expr *ast.Expr) (int64, error)
}
