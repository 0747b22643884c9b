package templ

import (
	"testing"

	"cxfront/internal/types"
)

func TestEqualIgnoresPackFlag(t *testing.T) {
	a := TypeOf(types.BaseInt)
	b := TypeOf(types.BaseInt)
	b.IsPack = true
	if !a.Equal(b) {
		t.Fatalf("pack-expanded int must equal plain int")
	}
}

func TestEqualBoolIntValuesInterchangeable(t *testing.T) {
	if !ValueOf(1).Equal(BoolValueOf(true)) {
		t.Fatalf("int 1 and bool true must compare equal")
	}
	if ValueOf(0).Equal(BoolValueOf(true)) {
		t.Fatalf("int 0 and bool true must differ")
	}
	if ValueOf(2).Equal(TypeOf(types.BaseInt)) {
		t.Fatalf("a value must never equal a type")
	}
}

func TestEqualQualifierStructure(t *testing.T) {
	intPtr := ptrTo(TypeOf(types.BaseInt))
	constIntPtr := ptrTo(constInt())
	if intPtr.Equal(constIntPtr) {
		t.Fatalf("int* must differ from const int*")
	}

	sized := TypeOf(types.BaseChar)
	sized.IsArray = true
	sized.HasExtent = true
	sized.Extent = 4
	other := sized
	other.Extent = 8
	if sized.Equal(other) {
		t.Fatalf("char[4] must differ from char[8]")
	}
}

func TestStripShapePeelsOnlyPatternContribution(t *testing.T) {
	// const int* against the pattern shape of "T*": T deduces to const
	// int, keeping the pointee qualifier.
	arg := ptrTo(constInt())
	shape := TypeArg{PtrDepth: 1}
	got := arg.stripShape(shape)
	if got.PtrDepth != 0 || !got.Quals.Const() || got.Base != types.BaseInt {
		t.Fatalf("stripShape(const int*, T*) = %+v, want const int", got)
	}

	// const T& peels both the reference and the const.
	ref := constInt()
	ref.Ref = types.RefLValue
	shape = TypeArg{Ref: types.RefLValue, Quals: types.QualConst}
	got = ref.stripShape(shape)
	if got.Ref != types.RefNone || got.Quals != types.QualNone {
		t.Fatalf("stripShape(const int&, const T&) = %+v, want int", got)
	}
}

func TestApplyShapeInvertsStripShape(t *testing.T) {
	shapes := []TypeArg{
		{PtrDepth: 1},
		{PtrDepth: 2, PtrQuals: []types.Qual{types.QualConst}},
		{Ref: types.RefRValue},
		{IsArray: true, HasExtent: true, Extent: 16},
		{Quals: types.QualVolatile},
	}
	base := TypeOf(types.BaseDouble)
	for _, shape := range shapes {
		layered := applyShape(base, shape)
		back := layered.stripShape(shape)
		if !back.Equal(base) {
			t.Fatalf("applyShape/stripShape not inverse for shape %+v: got %+v", shape, back)
		}
	}
}
