package templ

import (
	"fmt"

	"fortio.org/safecast"

	"cxfront/internal/ast"
	"cxfront/internal/diag"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// Subst rewrites one declaration's type and expression tree under a
// set of parameter bindings, asking the Instantiator for nested
// instantiations as dependent template-ids are resolved.
type Subst struct {
	// Params is the chosen declaration's own parameter list,
	// positional fallback for unnamed dependent references.
	Params []ast.TemplateParam
	// Bindings maps parameter names to deduced/bound arguments.
	Bindings *Bindings
	// Outer carries the enclosing class's bindings when substituting a
	// member template body.
	Outer *Bindings

	inst *Instantiator
}

// lookup resolves a parameter name against the local bindings first,
// then the enclosing class's.
func (s *Subst) lookup(name source.StringID) (TypeArg, bool) {
	if arg, ok := s.Bindings.Lookup(name); ok {
		return arg, true
	}
	if s.Outer != nil {
		if arg, ok := s.Outer.Lookup(name); ok {
			return arg, true
		}
	}
	return TypeArg{}, false
}

func (s *Subst) lookupPack(name source.StringID) ([]TypeArg, bool) {
	if s.Bindings != nil {
		if pack, ok := s.Bindings.Packs[name]; ok {
			return pack, true
		}
	}
	if s.Outer != nil {
		if pack, ok := s.Outer.Packs[name]; ok {
			return pack, true
		}
	}
	return nil, false
}

// paramFor resolves a dependent TypeSpec to its parameter name, using
// the recorded name first and the positional index as fallback.
func (s *Subst) paramFor(ts ast.TypeSpec) (source.StringID, bool) {
	if ts.Name != source.NoStringID {
		return ts.Name, true
	}
	if ts.ParamIndex != ast.NoParamIndex && ts.ParamIndex < len(s.Params) {
		return s.Params[ts.ParamIndex].Name, true
	}
	return source.NoStringID, false
}

// shapeOf extracts the qualifier contribution a TypeSpec layers on top
// of whatever it refers to.
func shapeOf(ts ast.TypeSpec) TypeArg {
	shape := TypeArg{
		Ref:       ts.Ref,
		PtrDepth:  ts.PtrDepth,
		Quals:     ts.Quals,
		IsArray:   ts.IsArray,
		HasExtent: ts.HasExtent,
		Extent:    ts.Extent,
		MemberPtr: ts.MemberPtr,
	}
	if len(ts.PtrQuals) > 0 {
		shape.PtrQuals = append([]types.Qual(nil), ts.PtrQuals...)
	}
	return shape
}

// ResolveTypeSpec rewrites a (possibly dependent) type specifier into
// a concrete argument, instantiating nested template-ids on the way.
func (s *Subst) ResolveTypeSpec(ts ast.TypeSpec) (TypeArg, error) {
	shape := shapeOf(ts)

	// Dependent array extents are substituted and constant-evaluated.
	if ts.ExtentExpr != nil {
		sub, err := s.Expr(ts.ExtentExpr)
		if err != nil {
			return TypeArg{}, err
		}
		value, err := s.inst.evalConst(sub)
		if err != nil {
			return TypeArg{}, err
		}
		extent, convErr := safecast.Conv[uint32](value)
		if convErr != nil || extent == ast.ExtentAny {
			diag.ReportError(s.inst.Reporter, diag.TplValueNotConstant, ts.ExtentExpr.Span,
				fmt.Sprintf("array bound %d is out of range", value))
			return TypeArg{}, fmt.Errorf("templ: array bound %d out of range", value)
		}
		shape.IsArray = true
		shape.HasExtent = true
		shape.Extent = extent
	}

	switch {
	case len(ts.TemplateArgs) > 0:
		args, err := s.resolveTemplateArgs(ts.TemplateArgs)
		if err != nil {
			return TypeArg{}, err
		}
		inner, err := s.inst.instantiateForType(ts.Name, args)
		if err != nil {
			return TypeArg{}, err
		}
		return applyShape(inner, shape), nil

	case ts.Base == types.BaseDependent:
		name, ok := s.paramFor(ts)
		if !ok {
			return TypeArg{}, fmt.Errorf("templ: unresolvable dependent type")
		}
		arg, ok := s.lookup(name)
		if !ok {
			return TypeArg{}, fmt.Errorf("templ: no binding for parameter %q", s.inst.name(name))
		}
		return applyShape(arg, shape), nil

	default:
		arg := FromTypeSpec(ts)
		if ts.ExtentExpr != nil {
			// The syntactic qualifiers are already on the argument; only
			// the evaluated bound is layered on top.
			arg.IsArray = true
			arg.HasExtent = true
			arg.Extent = shape.Extent
		}
		return arg, nil
	}
}

// resolveTemplateArgs rewrites a template-id argument list, expanding
// pack references in place.
func (s *Subst) resolveTemplateArgs(specs []ast.TypeSpec) ([]TypeArg, error) {
	out := make([]TypeArg, 0, len(specs))
	for _, spec := range specs {
		if spec.IsPack && spec.Base == types.BaseDependent {
			if name, ok := s.paramFor(spec); ok {
				if pack, isPack := s.lookupPack(name); isPack {
					for _, a := range pack {
						expanded := a
						expanded.IsPack = true
						out = append(out, expanded)
					}
					continue
				}
			}
		}
		arg, err := s.ResolveTypeSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
	}
	return out, nil
}

// ApplyTypeSpec is ResolveTypeSpec followed by conversion back into a
// concrete syntactic specifier, for rewritten declarations.
func (s *Subst) ApplyTypeSpec(ts ast.TypeSpec) (ast.TypeSpec, error) {
	if !ts.IsDependent() {
		return ts, nil
	}
	arg, err := s.ResolveTypeSpec(ts)
	if err != nil {
		return ast.TypeSpec{}, err
	}
	return typeSpecFromArg(arg, s.inst), nil
}

// typeSpecFromArg renders a concrete argument back into a TypeSpec.
func typeSpecFromArg(a TypeArg, it *Instantiator) ast.TypeSpec {
	ts := ast.TypeSpec{
		Base:       a.Base,
		Type:       a.Type,
		ParamIndex: ast.NoParamIndex,
		Ref:        a.Ref,
		PtrDepth:   a.PtrDepth,
		Quals:      a.Quals,
		IsArray:    a.IsArray,
		HasExtent:  a.HasExtent,
		Extent:     a.Extent,
		MemberPtr:  a.MemberPtr,
	}
	if len(a.PtrQuals) > 0 {
		ts.PtrQuals = append([]types.Qual(nil), a.PtrQuals...)
	}
	if a.IsValue {
		ts.IsValue = true
		ts.Value = a.Value
	}
	if a.Base.IsUserDefined() && it != nil {
		if info, ok := it.Types.Lookup(a.Type); ok {
			ts.Name = info.Name
		}
	}
	return ts
}

// Expr rewrites an expression subtree, resolving every dependent
// reference. The returned tree is freshly allocated; the input is
// never mutated.
func (s *Subst) Expr(e *ast.Expr) (*ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch data := e.Data.(type) {
	case ast.LiteralData:
		out := *e
		return &out, nil

	case ast.IdentData:
		// Bare identifiers naming a non-type parameter become
		// numeric literals.
		if arg, ok := s.lookup(data.Name); ok && arg.IsValue {
			return ast.IntLiteral(arg.Value, e.Span), nil
		}
		out := *e
		return &out, nil

	case ast.SizeofTypeData:
		arg, err := s.ResolveTypeSpec(data.Operand)
		if err != nil {
			return nil, err
		}
		size, err := s.inst.sizeOf(arg)
		if err != nil {
			return nil, err
		}
		return ast.IntLiteral(int64(size), e.Span), nil

	case ast.SizeofExprData:
		operand, err := s.Expr(data.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprSizeofExpr, Span: e.Span, Data: ast.SizeofExprData{Operand: operand}}, nil

	case ast.UnaryData:
		// Legacy grammar parks sizeof-with-type inside a unary node.
		if data.Op == ast.OpSizeof && data.SizeofType != nil {
			arg, err := s.ResolveTypeSpec(*data.SizeofType)
			if err != nil {
				return nil, err
			}
			size, err := s.inst.sizeOf(arg)
			if err != nil {
				return nil, err
			}
			return ast.IntLiteral(int64(size), e.Span), nil
		}
		operand, err := s.Expr(data.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprUnary, Span: e.Span, Data: ast.UnaryData{Op: data.Op, Operand: operand}}, nil

	case ast.BinaryData:
		left, err := s.Expr(data.Left)
		if err != nil {
			return nil, err
		}
		right, err := s.Expr(data.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: ast.ExprBinary, Span: e.Span, Data: ast.BinaryData{Op: data.Op, Left: left, Right: right}}, nil

	case ast.CtorCallData:
		declared, err := s.ApplyTypeSpec(data.Type)
		if err != nil {
			return nil, err
		}
		args := make([]*ast.Expr, len(data.Args))
		for i, a := range data.Args {
			if args[i], err = s.Expr(a); err != nil {
				return nil, err
			}
		}
		return &ast.Expr{Kind: ast.ExprCtorCall, Span: e.Span, Data: ast.CtorCallData{Type: declared, Args: args}}, nil

	case ast.QualifiedNameData:
		return s.qualifiedName(e, data)

	default:
		return nil, fmt.Errorf("templ: unhandled expression kind %s", e.Kind)
	}
}

// qualifiedName resolves Scope::Member. A dependent or template-id
// scope triggers a recursive instantiation request so the member can
// be read off the instantiated node.
func (s *Subst) qualifiedName(e *ast.Expr, data ast.QualifiedNameData) (*ast.Expr, error) {
	scope, err := s.ResolveTypeSpec(data.Scope)
	if err != nil {
		return nil, err
	}
	value, ok, err := s.inst.memberValue(scope, data.Member, e.Span)
	if err != nil {
		return nil, err
	}
	if ok {
		return ast.IntLiteral(value, e.Span), nil
	}
	// Not a constant member: keep the qualified reference with the
	// scope rewritten to the concrete instance.
	out := &ast.Expr{Kind: ast.ExprQualifiedName, Span: e.Span, Data: ast.QualifiedNameData{
		Scope:  typeSpecFromArg(scope, s.inst),
		Member: data.Member,
	}}
	return out, nil
}
