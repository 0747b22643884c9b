package templ

import (
	"errors"
	"fmt"

	"cxfront/internal/ast"
	"cxfront/internal/diag"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// Resolution failure sentinels. Expected negatives (pattern did not
// match, SFINAE unsatisfied) are never errors; these cover the
// recoverable and fatal cases of spec resolution.
var (
	ErrUnknownTemplate  = errors.New("templ: unknown template")
	ErrArityMismatch    = errors.New("templ: template argument count mismatch")
	ErrSelfRecursive    = errors.New("templ: self-recursive instantiation")
	ErrDepthExceeded    = errors.New("templ: instantiation depth exceeded")
	ErrNotConstant      = errors.New("templ: expression is not a constant")
	ErrNoSpecialization = errors.New("templ: no specialization registered")
)

// DefaultMaxDepth bounds nested instantiation when the session does
// not configure its own cap.
const DefaultMaxDepth = 64

// Instantiator drives template instantiation against one Registry.
// It is single-threaded: nested instantiation requests are ordinary
// recursive calls on the same stack.
type Instantiator struct {
	Registry *Registry
	Types    *types.Table
	Strings  *source.Interner
	Reporter diag.Reporter

	// Parser lazily re-parses out-of-line member bodies; optional.
	Parser BodyParser
	// Eval evaluates constant expressions the built-in folder cannot;
	// optional.
	Eval ConstEvaluator

	// MaxDepth caps nested instantiation depth; DefaultMaxDepth when
	// zero.
	MaxDepth int

	depth int
}

func (it *Instantiator) maxDepth() int {
	if it.MaxDepth > 0 {
		return it.MaxDepth
	}
	return DefaultMaxDepth
}

func (it *Instantiator) name(id source.StringID) string {
	if it.Strings == nil {
		return fmt.Sprintf("str#%d", id)
	}
	if s, ok := it.Strings.Lookup(id); ok {
		return s
	}
	return fmt.Sprintf("str#%d", id)
}

func (it *Instantiator) enter(name source.StringID, span source.Span) error {
	if it.depth >= it.maxDepth() {
		diag.ReportError(it.Reporter, diag.TplDepthExceeded, span,
			fmt.Sprintf("instantiating %q exceeds the maximum template depth of %d", it.name(name), it.maxDepth()))
		return fmt.Errorf("%w: %q at depth %d", ErrDepthExceeded, it.name(name), it.depth)
	}
	it.depth++
	return nil
}

func (it *Instantiator) leave() {
	it.depth--
}

// InstantiateClassTemplate instantiates a class template for args.
// The node is returned only on the first instantiation for the key;
// (nil, false, nil) signals a cache hit and the caller looks the
// existing definition up by name instead of re-inserting it.
func (it *Instantiator) InstantiateClassTemplate(name source.StringID, args []TypeArg) (*ast.Node, bool, error) {
	key := MakeInstKey(name, args)
	if _, ok := it.Registry.Instantiation(key); ok {
		return nil, false, nil
	}

	chosen, matched, found := it.Registry.LookupSpecialization(name, args, it.Types, it.Reporter)

	var (
		params   []ast.TemplateParam
		body     ast.ClassDeclData
		bindings *Bindings
		pattern  *Pattern
		span     source.Span
	)
	switch {
	case found:
		span = chosen.Span
		switch d := chosen.Data.(type) {
		case ast.TemplateClassData:
			params = d.Params
			body = d.Body
		case ast.ClassDeclData:
			body = d
		default:
			return nil, false, fmt.Errorf("templ: specialization of %q is not a class declaration", it.name(name))
		}
		if matched != nil {
			bindings = matched.Bindings
			pattern = matched.Pattern
		} else {
			bindings = NewBindings()
		}

	default:
		primary, ok := it.Registry.ClassTemplate(name)
		if !ok {
			diag.ReportError(it.Reporter, diag.TplUnknownTemplate, source.Span{},
				fmt.Sprintf("no template named %q is registered", it.name(name)))
			return nil, false, fmt.Errorf("%w: %q", ErrUnknownTemplate, it.name(name))
		}
		d, ok := primary.Data.(ast.TemplateClassData)
		if !ok {
			return nil, false, fmt.Errorf("templ: %q is not a class template", it.name(name))
		}
		span = primary.Span
		params = d.Params
		body = d.Body
		var err error
		bindings, err = it.bindPositional(d.Params, args, primary.Span)
		if err != nil {
			return nil, false, err
		}
	}

	if err := it.enter(name, span); err != nil {
		return nil, false, err
	}
	defer it.leave()

	// Two-phase resolution: the placeholder is registered in the cache
	// and given its type handle before substitution recurses into the
	// body, so self-references resolve to the placeholder.
	mangled := it.Registry.MangledName(key)
	placeholder := &ast.Node{Kind: ast.NodeClassDecl, Span: span, Data: ast.ClassDeclData{Name: mangled}}
	inst := it.Registry.RegisterInstantiation(&Instantiation{
		Key: key, Args: cloneArgs(args), Kind: InstClass, State: InstPending,
		Name: mangled, Node: placeholder, Pattern: pattern,
	})
	handle := it.Types.Register(types.Info{Name: mangled, Base: types.BaseStruct})
	it.Registry.bindInstanceType(inst, handle)

	sub := &Subst{Params: params, Bindings: bindings, inst: it}
	if outer, ok := it.Registry.OuterBindings(name); ok {
		sub.Outer = outer
	}

	data, members, size, err := it.substituteClassBody(name, body, sub, mangled, handle)
	if err != nil {
		inst.State = InstFailed
		return nil, false, err
	}

	it.Types.SetMembers(handle, members, size)
	placeholder.Data = data
	inst.State = InstDone
	return placeholder, true, nil
}

// substituteClassBody rewrites the chosen declaration's body under
// sub, folding in any out-of-line member definitions parked for the
// template, and computes the concrete member layout.
func (it *Instantiator) substituteClassBody(name source.StringID, body ast.ClassDeclData, sub *Subst, mangled source.StringID, handle types.Handle) (ast.ClassDeclData, []types.Member, uint32, error) {
	out := ast.ClassDeclData{Name: mangled, Type: handle}
	var members []types.Member
	var size uint32

	for _, base := range body.Bases {
		ts, err := sub.ApplyTypeSpec(base)
		if err != nil {
			return out, nil, 0, err
		}
		out.Bases = append(out.Bases, ts)
		if ts.Type.IsValid() {
			if info, ok := it.Types.Lookup(handle); ok {
				info.Bases = append(info.Bases, ts.Type)
			}
			baseSize, err := it.sizeOf(FromTypeSpec(ts))
			if err != nil {
				return out, nil, 0, err
			}
			size += baseSize
		}
	}

	for _, f := range body.Fields {
		ts, err := sub.ApplyTypeSpec(f.Type)
		if err != nil {
			return out, nil, 0, err
		}
		init, err := sub.Expr(f.Init)
		if err != nil {
			return out, nil, 0, err
		}
		out.Fields = append(out.Fields, ast.Field{Name: f.Name, Type: ts, Init: init})
		fieldSize, err := it.sizeOf(FromTypeSpec(ts))
		if err != nil {
			return out, nil, 0, err
		}
		members = append(members, types.Member{
			Name: f.Name, Kind: types.MemberField,
			Type: ts.Type, Base: ts.Base, Offset: size,
		})
		size += fieldSize
	}

	for _, td := range body.Typedefs {
		ts, err := sub.ApplyTypeSpec(td.Target)
		if err != nil {
			return out, nil, 0, err
		}
		out.Typedefs = append(out.Typedefs, ast.Typedef{Name: td.Name, Target: ts})
		members = append(members, types.Member{
			Name: td.Name, Kind: types.MemberTypedef,
			Type: ts.Type, Base: ts.Base,
		})
	}

	for _, sv := range body.StaticValues {
		ts, err := sub.ApplyTypeSpec(sv.Type)
		if err != nil {
			return out, nil, 0, err
		}
		init, err := sub.Expr(sv.Init)
		if err != nil {
			return out, nil, 0, err
		}
		value, err := it.evalConst(init)
		if err != nil {
			return out, nil, 0, err
		}
		out.StaticValues = append(out.StaticValues, ast.Field{Name: sv.Name, Type: ts, Init: init})
		members = append(members, types.Member{
			Name: sv.Name, Kind: types.MemberStaticValue,
			Base: ts.Base, Value: value,
		})
	}

	for _, m := range body.Methods {
		method, err := it.substituteMethod(m, sub)
		if err != nil {
			return out, nil, 0, err
		}
		out.Methods = append(out.Methods, method)
	}

	// Out-of-line definitions parked for this template join the
	// instantiated body.
	for _, pm := range it.Registry.PendingMembers(name) {
		switch pm.Kind {
		case OutOfLineMethod:
			method, err := it.substituteMethod(ast.Method{
				Name: pm.Name, Result: pm.Result, Params: pm.Params, BodyPos: pm.BodyPos,
			}, sub)
			if err != nil {
				return out, nil, 0, err
			}
			out.Methods = append(out.Methods, method)

		case OutOfLineStaticVar:
			ts, err := sub.ApplyTypeSpec(pm.Type)
			if err != nil {
				return out, nil, 0, err
			}
			init, err := sub.Expr(pm.Init)
			if err != nil {
				return out, nil, 0, err
			}
			value, err := it.evalConst(init)
			if err != nil {
				return out, nil, 0, err
			}
			out.StaticValues = append(out.StaticValues, ast.Field{Name: pm.Name, Type: ts, Init: init})
			members = append(members, types.Member{
				Name: pm.Name, Kind: types.MemberStaticValue,
				Base: ts.Base, Value: value,
			})

		case OutOfLineNestedClass:
			ts, err := sub.ApplyTypeSpec(pm.Type)
			if err != nil {
				return out, nil, 0, err
			}
			out.Typedefs = append(out.Typedefs, ast.Typedef{Name: pm.Name, Target: ts})
			members = append(members, types.Member{
				Name: pm.Name, Kind: types.MemberTypedef,
				Type: ts.Type, Base: ts.Base,
			})
		}
	}

	return out, members, size, nil
}

func (it *Instantiator) substituteMethod(m ast.Method, sub *Subst) (ast.Method, error) {
	result, err := sub.ApplyTypeSpec(m.Result)
	if err != nil {
		return ast.Method{}, err
	}
	params := make([]ast.Param, len(m.Params))
	for i, p := range m.Params {
		ts, err := sub.ApplyTypeSpec(p.Type)
		if err != nil {
			return ast.Method{}, err
		}
		params[i] = ast.Param{Name: p.Name, Type: ts}
	}
	out := ast.Method{Name: m.Name, Result: result, Params: params, BodyPos: m.BodyPos}
	if m.BodyPos.IsValid() && it.Parser != nil {
		body, err := it.Parser.ParseMemberBody(m.BodyPos, sub.Bindings)
		if err != nil {
			span := source.Span{File: m.BodyPos.File, Start: m.BodyPos.Offset, End: m.BodyPos.Offset}
			diag.ReportError(it.Reporter, diag.TplMemberBodyUnavailable, span,
				fmt.Sprintf("body of %q cannot be re-parsed: %v", it.name(m.Name), err))
			return ast.Method{}, fmt.Errorf("templ: re-parsing body of %q: %w", it.name(m.Name), err)
		}
		out.Body = body
	}
	return out, nil
}

// InstantiateVariableTemplate instantiates a variable template for
// args, selecting a matching partial specialization when one scores
// above the primary. Same first-time-only return contract as class
// instantiation. A cache hit on a still-pending entry means the
// variable's value depends on itself: a fatal resolution failure.
func (it *Instantiator) InstantiateVariableTemplate(name source.StringID, args []TypeArg) (*ast.Node, bool, error) {
	key := MakeInstKey(name, args)
	if inst, ok := it.Registry.Instantiation(key); ok {
		if inst.State == InstPending {
			diag.ReportError(it.Reporter, diag.TplSelfRecursive, inst.Node.Span,
				fmt.Sprintf("instantiation of %q recursively depends on its own value", it.name(name)))
			return nil, false, fmt.Errorf("%w: %q", ErrSelfRecursive, it.name(name))
		}
		return nil, false, nil
	}

	var (
		params   []ast.TemplateParam
		varType  ast.TypeSpec
		varInit  *ast.Expr
		bindings *Bindings
		pattern  *Pattern
		span     source.Span
	)
	if spec, ok := it.Registry.ExactSpecialization(name, args); ok {
		span = spec.Node.Span
		switch d := spec.Node.Data.(type) {
		case ast.VarDeclData:
			varType, varInit = d.Type, d.Init
		case ast.TemplateVarData:
			params, varType, varInit = d.Params, d.Type, d.Init
		default:
			return nil, false, fmt.Errorf("templ: specialization of %q is not a variable declaration", it.name(name))
		}
		bindings = NewBindings()
	} else if matched, ok := it.Registry.LookupVarSpecialization(name, args, it.Types, it.Reporter); ok {
		d, isVar := matched.Pattern.Node.Data.(ast.TemplateVarData)
		if !isVar {
			return nil, false, fmt.Errorf("templ: specialization of %q is not a variable template", it.name(name))
		}
		span = matched.Pattern.Node.Span
		params, varType, varInit = matched.Pattern.Params, d.Type, d.Init
		bindings = matched.Bindings
		pattern = matched.Pattern
	} else {
		primary, ok := it.Registry.VarTemplate(name)
		if !ok {
			diag.ReportError(it.Reporter, diag.TplUnknownTemplate, source.Span{},
				fmt.Sprintf("no variable template named %q is registered", it.name(name)))
			return nil, false, fmt.Errorf("%w: %q", ErrUnknownTemplate, it.name(name))
		}
		d, isVar := primary.Data.(ast.TemplateVarData)
		if !isVar {
			return nil, false, fmt.Errorf("templ: %q is not a variable template", it.name(name))
		}
		span = primary.Span
		params, varType, varInit = d.Params, d.Type, d.Init
		var err error
		bindings, err = it.bindPositional(d.Params, args, primary.Span)
		if err != nil {
			return nil, false, err
		}
	}

	if err := it.enter(name, span); err != nil {
		return nil, false, err
	}
	defer it.leave()

	mangled := it.Registry.MangledName(key)
	placeholder := &ast.Node{Kind: ast.NodeVarDecl, Span: span, Data: ast.VarDeclData{Name: mangled}}
	inst := it.Registry.RegisterInstantiation(&Instantiation{
		Key: key, Args: cloneArgs(args), Kind: InstVar, State: InstPending,
		Name: mangled, Node: placeholder, Pattern: pattern,
	})

	sub := &Subst{Params: params, Bindings: bindings, inst: it}
	if outer, ok := it.Registry.OuterBindings(name); ok {
		sub.Outer = outer
	}

	ts, err := sub.ApplyTypeSpec(varType)
	if err != nil {
		inst.State = InstFailed
		return nil, false, err
	}
	init, err := sub.Expr(varInit)
	if err != nil {
		inst.State = InstFailed
		return nil, false, err
	}

	data := ast.VarDeclData{Name: mangled, Type: ts, Init: init}
	if init != nil {
		if value, err := it.evalConst(init); err == nil {
			data.Value = value
			data.HasValue = true
			inst.Value = value
			inst.HasValue = true
		}
	}
	placeholder.Data = data
	inst.State = InstDone
	return placeholder, true, nil
}

// InstantiateAliasTemplate resolves an alias template to the concrete
// argument its target denotes, memoized like every other
// instantiation.
func (it *Instantiator) InstantiateAliasTemplate(name source.StringID, args []TypeArg) (TypeArg, error) {
	key := MakeInstKey(name, args)
	if inst, ok := it.Registry.Instantiation(key); ok {
		if inst.State == InstPending {
			diag.ReportError(it.Reporter, diag.TplSelfRecursive, source.Span{},
				fmt.Sprintf("alias template %q refers to itself", it.name(name)))
			return TypeArg{}, fmt.Errorf("%w: %q", ErrSelfRecursive, it.name(name))
		}
		return inst.Result, nil
	}

	node, ok := it.Registry.AliasTemplate(name)
	if !ok {
		diag.ReportError(it.Reporter, diag.TplUnknownTemplate, source.Span{},
			fmt.Sprintf("no alias template named %q is registered", it.name(name)))
		return TypeArg{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, it.name(name))
	}
	d, isAlias := node.Data.(ast.TemplateAliasData)
	if !isAlias {
		return TypeArg{}, fmt.Errorf("templ: %q is not an alias template", it.name(name))
	}
	bindings, err := it.bindPositional(d.Params, args, node.Span)
	if err != nil {
		return TypeArg{}, err
	}

	if err := it.enter(name, node.Span); err != nil {
		return TypeArg{}, err
	}
	defer it.leave()

	inst := it.Registry.RegisterInstantiation(&Instantiation{
		Key: key, Args: cloneArgs(args), Kind: InstAlias, State: InstPending,
		Name: it.Registry.MangledName(key),
	})
	sub := &Subst{Params: d.Params, Bindings: bindings, inst: it}
	res, err := sub.ResolveTypeSpec(d.Target)
	if err != nil {
		inst.State = InstFailed
		return TypeArg{}, err
	}
	inst.Result = res
	inst.State = InstDone
	return res, nil
}

// InstantiateFullSpecialization registers the exact specialization for
// args under its instantiation key. Like the other entry points it
// produces the node only once.
func (it *Instantiator) InstantiateFullSpecialization(name source.StringID, args []TypeArg) (*ast.Node, bool, error) {
	spec, ok := it.Registry.ExactSpecialization(name, args)
	if !ok {
		diag.ReportError(it.Reporter, diag.TplNoPatternMatched, source.Span{},
			fmt.Sprintf("no full specialization of %q matches the argument list", it.name(name)))
		return nil, false, fmt.Errorf("%w: %q", ErrNoSpecialization, it.name(name))
	}
	switch spec.Node.Data.(type) {
	case ast.VarDeclData, ast.TemplateVarData:
		return it.InstantiateVariableTemplate(name, args)
	default:
		return it.InstantiateClassTemplate(name, args)
	}
}

// instantiateForType services the substitution engine: a dependent
// template-id inside a declaration resolves to the concrete argument
// it instantiates to. Alias templates resolve through their target;
// class templates resolve to the minted instance type — including a
// still-pending placeholder, which is what makes self-referential
// bodies (a pointer to the own instantiation) work.
func (it *Instantiator) instantiateForType(name source.StringID, args []TypeArg) (TypeArg, error) {
	if _, ok := it.Registry.AliasTemplate(name); ok {
		return it.InstantiateAliasTemplate(name, args)
	}

	key := MakeInstKey(name, args)
	if inst, ok := it.Registry.Instantiation(key); ok {
		switch inst.Kind {
		case InstClass:
			return StructOf(inst.Type), nil
		case InstAlias:
			return inst.Result, nil
		default:
			return TypeArg{}, fmt.Errorf("templ: %q does not name a type", it.name(name))
		}
	}

	if _, _, err := it.InstantiateClassTemplate(name, args); err != nil {
		return TypeArg{}, err
	}
	inst, ok := it.Registry.Instantiation(key)
	if !ok {
		return TypeArg{}, fmt.Errorf("templ: instantiation of %q produced no cache entry", it.name(name))
	}
	return StructOf(inst.Type), nil
}

// memberValue resolves Scope::Member to a constant when the member is
// a static value of the (possibly just-instantiated) scope type.
// Returns ok=false when the member exists but is not a constant.
func (it *Instantiator) memberValue(scope TypeArg, member source.StringID, span source.Span) (int64, bool, error) {
	if !scope.IsType() || !scope.Base.IsUserDefined() || !scope.Type.IsValid() {
		diag.ReportError(it.Reporter, diag.SemUnknownMember, span,
			fmt.Sprintf("type has no members to resolve %q against", it.name(member)))
		return 0, false, fmt.Errorf("templ: qualified name on a non-class type")
	}
	if inst, ok := it.Registry.byHandle[scope.Type]; ok && inst.State == InstPending {
		diag.ReportError(it.Reporter, diag.TplSelfRecursive, span,
			fmt.Sprintf("member %q is read while its class is still being instantiated", it.name(member)))
		return 0, false, fmt.Errorf("%w: member %q of a pending instantiation", ErrSelfRecursive, it.name(member))
	}
	info, ok := it.Types.Lookup(scope.Type)
	if !ok {
		diag.ReportError(it.Reporter, diag.SemStaleHandle, span,
			fmt.Sprintf("the scope of %q refers to a type that no longer exists", it.name(member)))
		return 0, false, fmt.Errorf("templ: stale type handle in qualified name")
	}
	m, ok := info.Member(member)
	if !ok {
		diag.ReportError(it.Reporter, diag.SemUnknownMember, span,
			fmt.Sprintf("%q has no member named %q", it.name(info.Name), it.name(member)))
		return 0, false, fmt.Errorf("templ: unknown member %q", it.name(member))
	}
	if m.Kind != types.MemberStaticValue {
		return 0, false, nil
	}
	return m.Value, true, nil
}

// sizeOf computes sizeof for a concrete argument. References size as
// their referee; pointers and member pointers are word-sized; sized
// arrays multiply out their element.
func (it *Instantiator) sizeOf(arg TypeArg) (uint32, error) {
	if arg.IsValue {
		return 0, fmt.Errorf("templ: sizeof applied to a non-type argument")
	}
	if arg.PtrDepth > 0 || arg.MemberPtr != types.MemberPtrNone {
		return 8, nil
	}
	if arg.IsArray {
		if !arg.HasExtent || arg.Extent == ast.ExtentAny {
			return 0, fmt.Errorf("templ: sizeof applied to an array of unknown bound")
		}
		elem := arg
		elem.IsArray = false
		elem.HasExtent = false
		elemSize, err := it.sizeOf(elem)
		if err != nil {
			return 0, err
		}
		return elemSize * arg.Extent, nil
	}
	if arg.Base.IsUserDefined() {
		if inst, ok := it.Registry.byHandle[arg.Type]; ok && inst.State == InstPending {
			return 0, fmt.Errorf("%w: sizeof an instantiation still in progress", ErrSelfRecursive)
		}
		info, ok := it.Types.Lookup(arg.Type)
		if !ok {
			return 0, fmt.Errorf("templ: sizeof on a stale type handle")
		}
		return info.Size, nil
	}
	if s := arg.Base.Size(); s > 0 {
		return s, nil
	}
	return 0, fmt.Errorf("templ: sizeof has no value for %s", arg.Base)
}

// evalConst folds literals and pure integer operators directly and
// delegates anything richer to the ConstEvaluator collaborator.
func (it *Instantiator) evalConst(e *ast.Expr) (int64, error) {
	if e == nil {
		return 0, ErrNotConstant
	}
	if v, ok := foldConst(e); ok {
		return v, nil
	}
	if it.Eval != nil {
		return it.Eval.Eval(e)
	}
	return 0, fmt.Errorf("%w: %s", ErrNotConstant, e.Kind)
}

func foldConst(e *ast.Expr) (int64, bool) {
	switch data := e.Data.(type) {
	case ast.LiteralData:
		return data.Value, true
	case ast.UnaryData:
		if data.Operand == nil {
			return 0, false
		}
		v, ok := foldConst(data.Operand)
		if !ok {
			return 0, false
		}
		switch data.Op {
		case ast.OpNeg:
			return -v, true
		case ast.OpNot:
			if v == 0 {
				return 1, true
			}
			return 0, true
		case ast.OpBitNot:
			return ^v, true
		default:
			return 0, false
		}
	case ast.BinaryData:
		l, ok := foldConst(data.Left)
		if !ok {
			return 0, false
		}
		r, ok := foldConst(data.Right)
		if !ok {
			return 0, false
		}
		return foldBinary(data.Op, l, r)
	default:
		return 0, false
	}
}

func foldBinary(op ast.BinaryOp, l, r int64) (int64, bool) {
	boolVal := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case ast.OpAdd:
		return l + r, true
	case ast.OpSub:
		return l - r, true
	case ast.OpMul:
		return l * r, true
	case ast.OpDiv:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case ast.OpRem:
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case ast.OpShl:
		return l << uint64(r), true
	case ast.OpShr:
		return l >> uint64(r), true
	case ast.OpAnd:
		return l & r, true
	case ast.OpOr:
		return l | r, true
	case ast.OpXor:
		return l ^ r, true
	case ast.OpLogAnd:
		return boolVal(l != 0 && r != 0), true
	case ast.OpLogOr:
		return boolVal(l != 0 || r != 0), true
	case ast.OpEq:
		return boolVal(l == r), true
	case ast.OpNe:
		return boolVal(l != r), true
	case ast.OpLt:
		return boolVal(l < r), true
	case ast.OpLe:
		return boolVal(l <= r), true
	case ast.OpGt:
		return boolVal(l > r), true
	case ast.OpGe:
		return boolVal(l >= r), true
	default:
		return 0, false
	}
}

// bindPositional binds a primary template's parameters to the explicit
// argument list: kind-checked positionally, trailing defaults resolved
// under the bindings accumulated so far, and a trailing pack absorbing
// the remainder (possibly none).
func (it *Instantiator) bindPositional(params []ast.TemplateParam, args []TypeArg, span source.Span) (*Bindings, error) {
	b := NewBindings()
	variadic := len(params) > 0 && params[len(params)-1].IsPack
	fixed := len(params)
	if variadic {
		fixed--
	}

	if len(args) > fixed && !variadic {
		diag.ReportError(it.Reporter, diag.TplArityMismatch, span,
			fmt.Sprintf("template expects %d argument(s), got %d", len(params), len(args)))
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArityMismatch, len(params), len(args))
	}

	for i := 0; i < fixed; i++ {
		p := params[i]
		if i < len(args) {
			if err := it.checkParamKind(p, args[i], span); err != nil {
				return nil, err
			}
			b.bind(p.Name, args[i])
			continue
		}
		if p.Default == nil {
			diag.ReportError(it.Reporter, diag.TplArityMismatch, span,
				fmt.Sprintf("missing argument for template parameter %q", it.name(p.Name)))
			return nil, fmt.Errorf("%w: missing argument %d", ErrArityMismatch, i)
		}
		// Defaults may reference earlier parameters.
		sub := &Subst{Params: params[:i], Bindings: b, inst: it}
		arg, err := sub.ResolveTypeSpec(*p.Default)
		if err != nil {
			return nil, err
		}
		b.bind(p.Name, arg)
	}

	if variadic {
		pack := params[len(params)-1]
		rest := args
		if len(args) > fixed {
			rest = args[fixed:]
		} else {
			rest = nil
		}
		packArgs := make([]TypeArg, len(rest))
		copy(packArgs, rest)
		b.Packs[pack.Name] = packArgs
	}
	return b, nil
}

func (it *Instantiator) checkParamKind(p ast.TemplateParam, arg TypeArg, span source.Span) error {
	switch p.Kind {
	case ast.TypeParam:
		if !arg.IsType() {
			diag.ReportError(it.Reporter, diag.TplArityMismatch, span,
				fmt.Sprintf("parameter %q expects a type argument", it.name(p.Name)))
			return fmt.Errorf("%w: %q expects a type", ErrArityMismatch, it.name(p.Name))
		}
	case ast.NonTypeParam:
		if !arg.IsValue {
			diag.ReportError(it.Reporter, diag.TplNonTypeParamNotIntegral, span,
				fmt.Sprintf("parameter %q expects an integral constant", it.name(p.Name)))
			return fmt.Errorf("%w: %q expects a value", ErrArityMismatch, it.name(p.Name))
		}
	case ast.TemplateTemplateParam:
		if !arg.IsTemplate {
			diag.ReportError(it.Reporter, diag.TplTemplateTemplateMismatch, span,
				fmt.Sprintf("parameter %q expects a template", it.name(p.Name)))
			return fmt.Errorf("%w: %q expects a template", ErrArityMismatch, it.name(p.Name))
		}
	}
	return nil
}
