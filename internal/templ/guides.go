package templ

import (
	"cxfront/internal/ast"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// DeductionGuide maps constructor argument shapes to the class
// template's argument list (`template<class T> pair(T, T) ->
// pair<T, T>`). Guides are matched in registration order.
type DeductionGuide struct {
	// Template is the class template the guide deduces for.
	Template source.StringID
	// Params are the guide's own template parameters.
	Params []ast.TemplateParam
	// ArgShapes are the constructor parameter shapes, each either
	// concrete or a placeholder over Params.
	ArgShapes []PatternArg
	// Result positions each class template argument: a placeholder
	// picks up the deduced parameter, a concrete entry is passed
	// through.
	Result []PatternArg
}

// RegisterDeductionGuide appends a guide for its class template.
func (r *Registry) RegisterDeductionGuide(g *DeductionGuide) {
	r.guides[g.Template] = append(r.guides[g.Template], g)
}

// DeductionGuides returns the guides registered for a class template.
func (r *Registry) DeductionGuides(template source.StringID) []*DeductionGuide {
	if set, ok := lookupQualified(r, r.guides, template); ok {
		return set
	}
	return nil
}

// DeduceClassArguments runs CTAD-style deduction: the first guide
// whose parameter shapes match the constructor arguments produces the
// class template's argument list. Returns false when no guide matches;
// the caller falls back to explicit arguments.
func (r *Registry) DeduceClassArguments(template source.StringID, ctorArgs []TypeArg, table *types.Table) ([]TypeArg, bool) {
	for _, g := range r.DeductionGuides(template) {
		args, ok := g.apply(ctorArgs, table, r)
		if ok {
			return args, true
		}
	}
	return nil, false
}

func (g *DeductionGuide) apply(ctorArgs []TypeArg, table *types.Table, reg *Registry) ([]TypeArg, bool) {
	// Reuse the pattern matcher over the guide's parameter shapes.
	p := &Pattern{Params: g.Params, Args: g.ArgShapes}
	b, ok := p.Match(ctorArgs, table, reg)
	if !ok {
		return nil, false
	}
	out := make([]TypeArg, 0, len(g.Result))
	for _, res := range g.Result {
		switch res.Kind {
		case PatternConcrete:
			out = append(out, res.Arg)
		case PatternParam:
			name, ok := p.paramName(res)
			if !ok {
				return nil, false
			}
			arg, bound := b.Lookup(name)
			if !bound {
				if pack, isPack := b.Packs[name]; isPack {
					out = append(out, pack...)
					continue
				}
				return nil, false
			}
			out = append(out, applyShape(arg, res.Arg))
		default:
			return nil, false
		}
	}
	return out, true
}
