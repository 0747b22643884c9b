// Package templ is the template-instantiation core: given a template
// declaration and a concrete argument list it selects the applicable
// definition (primary, partial specialization or full specialization),
// deduces parameter bindings, substitutes them through the
// declaration's type and expression tree, and mints — exactly once per
// unique argument set — a concrete AST node for downstream phases.
//
// The package is single-threaded by design: nested instantiations are
// ordinary recursive calls on the same stack, bounded by a configured
// depth cap.
package templ
