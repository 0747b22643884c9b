package templ

import (
	"cxfront/internal/ast"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// PatternArgKind discriminates the forms a specialization pattern
// argument can take.
type PatternArgKind uint8

const (
	// PatternConcrete is a fully concrete value/type; matching is pure
	// equality and produces no binding.
	PatternConcrete PatternArgKind = iota
	// PatternParam is a placeholder tied to one of the pattern's own
	// parameters, possibly with qualifier structure on top (T*, const
	// T&, T[]).
	PatternParam
	// PatternTemplateInst is a dependent template instantiation built
	// from parameters (pair<T, U>); inner arguments match recursively.
	PatternTemplateInst
)

// PatternArg is one argument of a partial-specialization pattern.
type PatternArg struct {
	Kind PatternArgKind

	// Arg carries the concrete argument (PatternConcrete) or the
	// qualifier shape the pattern itself contributes (PatternParam:
	// Ref/PtrDepth/Quals/array describe the T* around the parameter).
	Arg TypeArg

	// ParamName is the parameter name recorded on the placeholder;
	// NoStringID falls back to positional lookup via ParamIndex.
	ParamName  source.StringID
	ParamIndex int

	// TemplateName plus Inner describe a PatternTemplateInst.
	TemplateName source.StringID
	Inner        []PatternArg
}

// SFINAECondition excludes a pattern unless the type deduced for the
// indexed parameter has the required nested member.
type SFINAECondition struct {
	ParamIndex int
	Member     source.StringID
}

// Pattern is one partial-specialization candidate: its own parameter
// list, the pattern arguments, the specialized declaration it resolves
// to, and an optional SFINAE condition. Immutable after registration
// except for the lazily built parameter-name cache.
type Pattern struct {
	Params []ast.TemplateParam
	Args   []PatternArg
	Node   *ast.Node
	Cond   *SFINAECondition

	// seq is the registration order, used for tie-breaking.
	seq int

	paramIndexByName map[source.StringID]int
}

// paramIndex resolves a parameter name to its position, building the
// cache on first use.
func (p *Pattern) paramIndex(name source.StringID) (int, bool) {
	if p.paramIndexByName == nil {
		p.paramIndexByName = make(map[source.StringID]int, len(p.Params))
		for i, tp := range p.Params {
			if tp.Name != source.NoStringID {
				p.paramIndexByName[tp.Name] = i
			}
		}
	}
	idx, ok := p.paramIndexByName[name]
	return idx, ok
}

// paramName resolves the parameter a placeholder refers to, preferring
// the name recorded on the placeholder and falling back to positional
// lookup into the pattern's parameter list.
func (p *Pattern) paramName(pa PatternArg) (source.StringID, bool) {
	if pa.ParamName != source.NoStringID {
		return pa.ParamName, true
	}
	if pa.ParamIndex >= 0 && pa.ParamIndex < len(p.Params) {
		return p.Params[pa.ParamIndex].Name, true
	}
	return source.NoStringID, false
}

// isVariadicTail reports whether the pattern's final argument is a
// placeholder for a parameter pack.
func (p *Pattern) isVariadicTail() bool {
	if len(p.Args) == 0 {
		return false
	}
	last := p.Args[len(p.Args)-1]
	if last.Kind != PatternParam {
		return false
	}
	if last.Arg.IsPack {
		return true
	}
	name, ok := p.paramName(last)
	if !ok {
		return false
	}
	if idx, ok := p.paramIndex(name); ok {
		return p.Params[idx].IsPack
	}
	return false
}

// Bindings maps deduced parameter names to arguments. Packs bind a
// list of arguments under the pack parameter's name.
type Bindings struct {
	ByName map[source.StringID]TypeArg
	Packs  map[source.StringID][]TypeArg
}

// NewBindings constructs an empty binding set.
func NewBindings() *Bindings {
	return &Bindings{
		ByName: make(map[source.StringID]TypeArg),
		Packs:  make(map[source.StringID][]TypeArg),
	}
}

// Lookup returns the argument bound to name.
func (b *Bindings) Lookup(name source.StringID) (TypeArg, bool) {
	if b == nil {
		return TypeArg{}, false
	}
	a, ok := b.ByName[name]
	return a, ok
}

// bind records a deduction; a repeat occurrence must agree on the base
// type or the whole match fails.
func (b *Bindings) bind(name source.StringID, arg TypeArg) bool {
	if name == source.NoStringID {
		return false
	}
	if prev, ok := b.ByName[name]; ok {
		return prev.baseEqual(arg)
	}
	b.ByName[name] = arg
	return true
}

// matchEnv gives the matcher access to the type table (SFINAE member
// lookups) and to instantiation records (nested template-id matching).
type matchEnv struct {
	table *types.Table
	reg   *Registry
}

// Match tests whether the pattern accepts the concrete argument list,
// returning the deduced bindings on success. "No match" is the normal
// negative outcome; no partial bindings escape.
func (p *Pattern) Match(concrete []TypeArg, table *types.Table, reg *Registry) (*Bindings, bool) {
	env := matchEnv{table: table, reg: reg}

	variadic := p.isVariadicTail()
	switch {
	case variadic:
		// The trailing pack may bind zero arguments.
		if len(concrete) < len(p.Args)-1 {
			return nil, false
		}
	case len(concrete) != len(p.Args):
		return nil, false
	}

	b := NewBindings()
	for i, pa := range p.Args {
		if variadic && i == len(p.Args)-1 {
			name, ok := p.paramName(pa)
			if !ok {
				return nil, false
			}
			rest := concrete[i:]
			pack := make([]TypeArg, len(rest))
			copy(pack, rest)
			b.Packs[name] = pack
			break
		}
		if !p.matchOne(pa, concrete[i], b, env) {
			return nil, false
		}
	}

	if p.Cond != nil && !p.sfinaeHolds(b, env) {
		return nil, false
	}
	return b, true
}

// matchOne matches a single pattern argument against a concrete one,
// extending b.
func (p *Pattern) matchOne(pa PatternArg, arg TypeArg, b *Bindings, env matchEnv) bool {
	switch pa.Kind {
	case PatternConcrete:
		return pa.Arg.Equal(arg)

	case PatternTemplateInst:
		return p.matchTemplateInst(pa, arg, b, env)

	case PatternParam:
		if !qualifierGate(pa.Arg, arg) {
			return false
		}
		name, ok := p.paramName(pa)
		if !ok {
			return false
		}
		deduced := arg.stripShape(pa.Arg)
		return b.bind(name, deduced)

	default:
		return false
	}
}

// matchTemplateInst handles a pattern argument that is itself a
// template instantiation built from parameters: the concrete argument
// must be an instantiation of the same base template and the inner
// arguments match recursively under the shared binding map.
func (p *Pattern) matchTemplateInst(pa PatternArg, arg TypeArg, b *Bindings, env matchEnv) bool {
	if !qualifierGate(pa.Arg, arg) {
		return false
	}
	inner := arg.stripShape(pa.Arg)
	if !inner.IsType() || !inner.Base.IsUserDefined() || !inner.Type.IsValid() {
		return false
	}
	if env.reg == nil {
		return false
	}
	tmpl, instArgs, ok := env.reg.instantiationArgs(inner.Type)
	if !ok || tmpl != pa.TemplateName {
		return false
	}
	if len(instArgs) != len(pa.Inner) {
		return false
	}
	for i := range pa.Inner {
		if !p.matchOne(pa.Inner[i], instArgs[i], b, env) {
			return false
		}
	}
	return true
}

// qualifierGate enforces the structural-equality gate: reference kind,
// pointer depth and per-level qualifiers, cv, array-ness/extent and
// member-pointer kind are checked, never deduced.
func qualifierGate(shape, arg TypeArg) bool {
	if !arg.IsType() {
		// Values and template-template args carry no qualifier
		// structure; the shape must not demand any.
		return shape.Ref == types.RefNone && shape.PtrDepth == 0 &&
			!shape.IsArray && shape.Quals == types.QualNone &&
			shape.MemberPtr == types.MemberPtrNone
	}
	if shape.Ref != arg.Ref {
		return false
	}
	if shape.PtrDepth != arg.PtrDepth {
		return false
	}
	if !qualListsEqual(shape.PtrQuals, arg.PtrQuals, shape.PtrDepth) {
		return false
	}
	if shape.Quals != arg.Quals {
		return false
	}
	if shape.MemberPtr != arg.MemberPtr {
		return false
	}
	if shape.IsArray != arg.IsArray {
		return false
	}
	if shape.IsArray {
		if shape.HasExtent {
			// ExtentAny in the pattern matches any concrete extent; a
			// fixed extent must be matched exactly.
			if !arg.HasExtent {
				return false
			}
			if shape.Extent != ast.ExtentAny && shape.Extent != arg.Extent {
				return false
			}
		} else if arg.HasExtent {
			// A concrete sized array does not match a pattern with no
			// extent; unsized only matches unsized.
			return false
		}
	}
	return true
}

// sfinaeHolds checks the pattern's dependent-member condition against
// the deduced binding for the named parameter.
func (p *Pattern) sfinaeHolds(b *Bindings, env matchEnv) bool {
	cond := p.Cond
	if cond.ParamIndex < 0 || cond.ParamIndex >= len(p.Params) {
		return false
	}
	arg, ok := b.Lookup(p.Params[cond.ParamIndex].Name)
	if !ok {
		return false
	}
	if !arg.IsType() || !arg.Base.IsUserDefined() || !arg.Type.IsValid() {
		// Builtins have no nested members.
		return false
	}
	if env.table == nil {
		return false
	}
	return env.table.HasNestedMember(arg.Type, cond.Member)
}
