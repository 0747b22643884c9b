package templ

import (
	"testing"

	"cxfront/internal/ast"
	"cxfront/internal/types"
)

func TestMatchQualifiersCheckedNotDeduced(t *testing.T) {
	e := newEnv(t)
	params := typeParams(e, "T")
	pointerPattern := &Pattern{
		Params: params,
		Args:   []PatternArg{shapedParamArg(e, "T", 0, TypeArg{PtrDepth: 1})},
	}

	cases := []struct {
		name  string
		arg   TypeArg
		match bool
	}{
		{"int*", ptrTo(TypeOf(types.BaseInt)), true},
		{"const int*", ptrTo(constInt()), false},
		{"int", TypeOf(types.BaseInt), false},
		{"int**", ptrTo(ptrTo(TypeOf(types.BaseInt))), false},
	}
	for _, tc := range cases {
		b, ok := pointerPattern.Match([]TypeArg{tc.arg}, e.table, e.reg)
		if ok != tc.match {
			t.Errorf("T* vs %s: match = %v, want %v", tc.name, ok, tc.match)
			continue
		}
		if tc.match {
			got, _ := b.Lookup(e.id("T"))
			if got.Base != types.BaseInt || got.PtrDepth != 0 {
				t.Errorf("T* vs %s: deduced %+v, want bare int", tc.name, got)
			}
		}
	}
}

func TestMatchConstRefShape(t *testing.T) {
	e := newEnv(t)
	p := &Pattern{
		Params: typeParams(e, "T"),
		Args: []PatternArg{shapedParamArg(e, "T", 0, TypeArg{
			Ref:   types.RefLValue,
			Quals: types.QualConst,
		})},
	}

	arg := constInt()
	arg.Ref = types.RefLValue
	b, ok := p.Match([]TypeArg{arg}, e.table, e.reg)
	if !ok {
		t.Fatalf("const T& must match const int&")
	}
	got, _ := b.Lookup(e.id("T"))
	if got.Quals != types.QualNone || got.Ref != types.RefNone {
		t.Fatalf("const T& deduced %+v, want plain int", got)
	}

	// A non-const reference does not satisfy the const shape.
	plain := TypeOf(types.BaseInt)
	plain.Ref = types.RefLValue
	if _, ok := p.Match([]TypeArg{plain}, e.table, e.reg); ok {
		t.Fatalf("const T& must not match int&")
	}
}

func TestMatchArrayExtents(t *testing.T) {
	e := newEnv(t)
	mk := func(shape TypeArg) *Pattern {
		return &Pattern{Params: typeParams(e, "T"), Args: []PatternArg{shapedParamArg(e, "T", 0, shape)}}
	}
	unsized := mk(TypeArg{IsArray: true})
	anySized := mk(TypeArg{IsArray: true, HasExtent: true, Extent: ast.ExtentAny})
	fixed := mk(TypeArg{IsArray: true, HasExtent: true, Extent: 4})

	arr := func(extent uint32, sized bool) TypeArg {
		a := TypeOf(types.BaseChar)
		a.IsArray = true
		a.HasExtent = sized
		a.Extent = extent
		return a
	}

	cases := []struct {
		name  string
		p     *Pattern
		arg   TypeArg
		match bool
	}{
		{"T[] vs char[]", unsized, arr(0, false), true},
		{"T[] vs char[4]", unsized, arr(4, true), false},
		{"T[N] vs char[4]", anySized, arr(4, true), true},
		{"T[N] vs char[]", anySized, arr(0, false), false},
		{"T[4] vs char[4]", fixed, arr(4, true), true},
		{"T[4] vs char[8]", fixed, arr(8, true), false},
	}
	for _, tc := range cases {
		if _, ok := tc.p.Match([]TypeArg{tc.arg}, e.table, e.reg); ok != tc.match {
			t.Errorf("%s: match = %v, want %v", tc.name, ok, tc.match)
		}
	}
}

func TestMatchRepeatedParameterMustAgree(t *testing.T) {
	e := newEnv(t)
	// Derived<T*, T>: the same parameter deduced through two positions.
	p := &Pattern{
		Params: typeParams(e, "T"),
		Args: []PatternArg{
			shapedParamArg(e, "T", 0, TypeArg{PtrDepth: 1}),
			paramArg(e, "T", 0),
		},
	}

	if b, ok := p.Match([]TypeArg{ptrTo(TypeOf(types.BaseInt)), TypeOf(types.BaseInt)}, e.table, e.reg); !ok {
		t.Fatalf("consistent deduction (int*, int) must match")
	} else if got, _ := b.Lookup(e.id("T")); got.Base != types.BaseInt {
		t.Fatalf("deduced %+v, want int", got)
	}

	if _, ok := p.Match([]TypeArg{ptrTo(TypeOf(types.BaseInt)), TypeOf(types.BaseChar)}, e.table, e.reg); ok {
		t.Fatalf("inconsistent deduction (int*, char) must not match")
	}
}

func TestMatchSFINAENestedMember(t *testing.T) {
	e := newEnv(t)
	typeID := e.id("type")

	withMember := e.registerStruct(t, "has_type", []types.Member{
		{Name: typeID, Kind: types.MemberTypedef, Base: types.BaseInt},
	}, 0)
	without := e.registerStruct(t, "plain", nil, 0)
	// Member inherited through a base class also satisfies the check.
	derived := e.table.Register(types.Info{Name: e.id("derived"), Base: types.BaseStruct, Bases: []types.Handle{withMember}})

	p := &Pattern{
		Params: typeParams(e, "T"),
		Args:   []PatternArg{paramArg(e, "T", 0)},
		Cond:   &SFINAECondition{ParamIndex: 0, Member: typeID},
	}

	cases := []struct {
		name  string
		arg   TypeArg
		match bool
	}{
		{"direct member", StructOf(withMember), true},
		{"inherited member", StructOf(derived), true},
		{"missing member", StructOf(without), false},
		{"builtin", TypeOf(types.BaseInt), false},
	}
	for _, tc := range cases {
		if _, ok := p.Match([]TypeArg{tc.arg}, e.table, e.reg); ok != tc.match {
			t.Errorf("%s: match = %v, want %v", tc.name, ok, tc.match)
		}
	}
}

func TestMatchVariadicTail(t *testing.T) {
	e := newEnv(t)
	params := []ast.TemplateParam{
		{Name: e.id("T"), Kind: ast.TypeParam},
		{Name: e.id("Rest"), Kind: ast.TypeParam, IsPack: true},
	}
	p := &Pattern{
		Params: params,
		Args: []PatternArg{
			paramArg(e, "T", 0),
			paramArg(e, "Rest", 1),
		},
	}

	if _, ok := p.Match(nil, e.table, e.reg); ok {
		t.Fatalf("pack cannot absorb the required head argument")
	}

	b, ok := p.Match([]TypeArg{TypeOf(types.BaseInt)}, e.table, e.reg)
	if !ok {
		t.Fatalf("pack may bind zero arguments")
	}
	if pack := b.Packs[e.id("Rest")]; len(pack) != 0 {
		t.Fatalf("empty pack expected, got %d", len(pack))
	}

	b, ok = p.Match([]TypeArg{TypeOf(types.BaseInt), TypeOf(types.BaseChar), TypeOf(types.BaseDouble)}, e.table, e.reg)
	if !ok {
		t.Fatalf("pack must absorb trailing arguments")
	}
	pack := b.Packs[e.id("Rest")]
	if len(pack) != 2 || pack[0].Base != types.BaseChar || pack[1].Base != types.BaseDouble {
		t.Fatalf("pack bound %+v, want [char double]", pack)
	}
}

func TestMatchNestedTemplateInstantiation(t *testing.T) {
	e := newEnv(t)
	pair := e.id("pair")

	// A concrete pair<int, char> instantiation record, as the engine
	// would leave behind.
	h := e.registerStruct(t, "pair$cafe", nil, 0)
	inst := e.reg.RegisterInstantiation(&Instantiation{
		Key:   MakeInstKey(pair, []TypeArg{TypeOf(types.BaseInt), TypeOf(types.BaseChar)}),
		Kind:  InstClass,
		State: InstDone,
		Name:  e.id("pair$cafe"),
	})
	e.reg.bindInstanceType(inst, h)

	p := &Pattern{
		Params: typeParams(e, "T", "U"),
		Args: []PatternArg{{
			Kind:         PatternTemplateInst,
			TemplateName: pair,
			Inner: []PatternArg{
				paramArg(e, "T", 0),
				paramArg(e, "U", 1),
			},
		}},
	}

	b, ok := p.Match([]TypeArg{StructOf(h)}, e.table, e.reg)
	if !ok {
		t.Fatalf("pair<T, U> must match a pair<int, char> instantiation")
	}
	if got, _ := b.Lookup(e.id("T")); got.Base != types.BaseInt {
		t.Fatalf("T deduced %+v, want int", got)
	}
	if got, _ := b.Lookup(e.id("U")); got.Base != types.BaseChar {
		t.Fatalf("U deduced %+v, want char", got)
	}

	// A plain struct that is not an instantiation does not match.
	plain := e.registerStruct(t, "not_a_pair", nil, 0)
	if _, ok := p.Match([]TypeArg{StructOf(plain)}, e.table, e.reg); ok {
		t.Fatalf("non-instantiation struct must not match pair<T, U>")
	}
}

func TestMatchNestedTemplateWithValueArgument(t *testing.T) {
	e := newEnv(t)
	arr := e.id("arr")

	// arr<int, 3>: the positional list mixes a type and a value
	// argument, which the key stores in separate sections.
	args := []TypeArg{TypeOf(types.BaseInt), ValueOf(3)}
	h := e.registerStruct(t, "arr$beef", nil, 12)
	inst := e.reg.RegisterInstantiation(&Instantiation{
		Key:   MakeInstKey(arr, args),
		Args:  args,
		Kind:  InstClass,
		State: InstDone,
		Name:  e.id("arr$beef"),
	})
	e.reg.bindInstanceType(inst, h)

	p := &Pattern{
		Params: []ast.TemplateParam{
			{Name: e.id("T"), Kind: ast.TypeParam},
			{Name: e.id("N"), Kind: ast.NonTypeParam},
		},
		Args: []PatternArg{{
			Kind:         PatternTemplateInst,
			TemplateName: arr,
			Inner: []PatternArg{
				paramArg(e, "T", 0),
				paramArg(e, "N", 1),
			},
		}},
	}

	b, ok := p.Match([]TypeArg{StructOf(h)}, e.table, e.reg)
	if !ok {
		t.Fatalf("arr<T, N> must match a concrete arr<int, 3> instantiation")
	}
	if got, _ := b.Lookup(e.id("T")); got.Base != types.BaseInt {
		t.Fatalf("T deduced %+v, want int", got)
	}
	if got, _ := b.Lookup(e.id("N")); !got.IsValue || got.Value != 3 {
		t.Fatalf("N deduced %+v, want the value 3", got)
	}

	// A different arity on the inner list does not match.
	narrow := &Pattern{
		Params: typeParams(e, "T"),
		Args: []PatternArg{{
			Kind:         PatternTemplateInst,
			TemplateName: arr,
			Inner:        []PatternArg{paramArg(e, "T", 0)},
		}},
	}
	if _, ok := narrow.Match([]TypeArg{StructOf(h)}, e.table, e.reg); ok {
		t.Fatalf("arr<T> must not match the two-argument instantiation")
	}
}
