package templ

import (
	"bytes"
	"strings"
	"testing"

	"cxfront/internal/ast"
	"cxfront/internal/types"
)

func TestFormatTypeArg(t *testing.T) {
	e := newEnv(t)
	h := e.registerStruct(t, "widget", nil, 0)

	refArg := constInt()
	refArg.Ref = types.RefLValue

	arr := TypeOf(types.BaseChar)
	arr.IsArray = true
	arr.HasExtent = true
	arr.Extent = 4

	cases := []struct {
		arg  TypeArg
		want string
	}{
		{TypeOf(types.BaseInt), "int"},
		{ptrTo(constInt()), "const int*"},
		{refArg, "const int&"},
		{arr, "char[4]"},
		{StructOf(h), "widget"},
		{ValueOf(42), "42"},
		{BoolValueOf(true), "true"},
		{TemplateRef(e.id("alloc")), "alloc"},
	}
	for _, tc := range cases {
		if got := FormatTypeArg(tc.arg, e.table, e.strs); got != tc.want {
			t.Errorf("FormatTypeArg = %q, want %q", got, tc.want)
		}
	}
}

func TestFormatKeyRendersAllSections(t *testing.T) {
	e := newEnv(t)
	key := MakeInstKey(e.id("array"), []TypeArg{
		TypeOf(types.BaseInt),
		ValueOf(8),
		TemplateRef(e.id("alloc")),
	})
	got := FormatKey(key, e.table, e.strs)
	if got != "array<int, 8, alloc>" {
		t.Fatalf("FormatKey = %q", got)
	}
}

func TestDumpIsSortedAndComplete(t *testing.T) {
	e := newEnv(t)
	e.classTemplate(t, "box", typeParams(e, "T"), ast.ClassDeclData{
		Fields: []ast.Field{depField(e, "value", "T", 0)},
	})
	for _, arg := range []TypeArg{TypeOf(types.BaseInt), TypeOf(types.BaseChar), TypeOf(types.BaseDouble)} {
		if _, _, err := e.it.InstantiateClassTemplate(e.id("box"), []TypeArg{arg}); err != nil {
			t.Fatalf("instantiate: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := Dump(&buf, e.reg, e.table, e.strs, DumpOptions{}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()

	// Deterministic: keys appear in sorted order.
	iChar := strings.Index(out, "box<char>")
	iDouble := strings.Index(out, "box<double>")
	iInt := strings.Index(out, "box<int>")
	if iChar < 0 || iDouble < 0 || iInt < 0 {
		t.Fatalf("dump missing entries:\n%s", out)
	}
	if !(iChar < iDouble && iDouble < iInt) {
		t.Fatalf("dump not sorted:\n%s", out)
	}

	// Re-dumping yields byte-identical output.
	var again bytes.Buffer
	if err := Dump(&again, e.reg, e.table, e.strs, DumpOptions{}); err != nil {
		t.Fatalf("second dump: %v", err)
	}
	if again.String() != out {
		t.Fatalf("dump output not deterministic")
	}
}
