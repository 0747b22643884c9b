package templ

import (
	"testing"

	"cxfront/internal/ast"
	"cxfront/internal/diag"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// env bundles the per-test state: interner, type table, registry and
// an instantiator reporting into a bag.
type env struct {
	strs  *source.Interner
	table *types.Table
	reg   *Registry
	bag   *diag.Bag
	it    *Instantiator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	strs := source.NewInterner()
	table := types.NewTable()
	reg := NewRegistry(strs)
	bag := diag.NewBag(64)
	return &env{
		strs:  strs,
		table: table,
		reg:   reg,
		bag:   bag,
		it: &Instantiator{
			Registry: reg,
			Types:    table,
			Strings:  strs,
			Reporter: diag.BagReporter{Bag: bag},
		},
	}
}

func (e *env) id(s string) source.StringID { return e.strs.Intern(s) }

// typeParams builds a plain type-parameter list from names.
func typeParams(e *env, names ...string) []ast.TemplateParam {
	out := make([]ast.TemplateParam, len(names))
	for i, n := range names {
		out[i] = ast.TemplateParam{Name: e.id(n), Kind: ast.TypeParam}
	}
	return out
}

// classTemplate registers a primary class template and returns its node.
func (e *env) classTemplate(t *testing.T, name string, params []ast.TemplateParam, body ast.ClassDeclData) *ast.Node {
	t.Helper()
	body.Name = e.id(name)
	node := &ast.Node{
		Kind: ast.NodeTemplateClass,
		Data: ast.TemplateClassData{Name: e.id(name), Params: params, Body: body},
	}
	if err := e.reg.RegisterClassTemplate(node); err != nil {
		t.Fatalf("register class template %s: %v", name, err)
	}
	return node
}

// classPattern registers a partial specialization for template name.
func (e *env) classPattern(t *testing.T, name string, params []ast.TemplateParam, args []PatternArg, body ast.ClassDeclData) *Pattern {
	t.Helper()
	node := &ast.Node{
		Kind: ast.NodeTemplateClass,
		Data: ast.TemplateClassData{Name: e.id(name), Params: params, Body: body},
	}
	p := &Pattern{Params: params, Args: args, Node: node}
	e.reg.RegisterPattern(e.id(name), p)
	return p
}

// registerStruct mints a concrete user-defined type with members.
func (e *env) registerStruct(t *testing.T, name string, members []types.Member, size uint32) types.Handle {
	t.Helper()
	h := e.table.Register(types.Info{Name: e.id(name), Base: types.BaseStruct, Size: size, Members: members})
	if !h.IsValid() {
		t.Fatalf("register struct %s: invalid handle", name)
	}
	return h
}

// paramArg builds a bare placeholder pattern argument for the i-th
// pattern parameter.
func paramArg(e *env, name string, index int) PatternArg {
	return PatternArg{Kind: PatternParam, ParamName: e.id(name), ParamIndex: index}
}

// shapedParamArg is paramArg with a qualifier shape on top (T*, const
// T&, ...).
func shapedParamArg(e *env, name string, index int, shape TypeArg) PatternArg {
	return PatternArg{Kind: PatternParam, Arg: shape, ParamName: e.id(name), ParamIndex: index}
}

func concreteArg(a TypeArg) PatternArg {
	return PatternArg{Kind: PatternConcrete, Arg: a}
}

// depField builds a field whose type is the i-th template parameter.
func depField(e *env, fieldName, paramName string, index int) ast.Field {
	return ast.Field{Name: e.id(fieldName), Type: ast.MakeParamRef(e.id(paramName), index)}
}

// constInt is the canonical "const int" argument.
func constInt() TypeArg {
	a := TypeOf(types.BaseInt)
	a.Quals = types.QualConst
	return a
}

// ptrTo adds one pointer level to an argument.
func ptrTo(a TypeArg) TypeArg {
	a.PtrDepth++
	return a
}

func (e *env) errorCodes() []diag.Code {
	var out []diag.Code
	for _, d := range e.bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func (e *env) hasCode(code diag.Code) bool {
	for _, d := range e.bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
