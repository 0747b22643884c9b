package templ

import (
	"cxfront/internal/ast"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// TypeArg is the canonical value describing one template argument,
// type or non-type. It is the unit the matcher deduces, the key
// canonicalizes and the substitution engine writes back into the tree.
type TypeArg struct {
	// Base is the base-type tag. Type is the table handle and is
	// meaningful only when Base is user-defined.
	Base types.BaseType
	Type types.Handle

	Ref      types.RefKind
	PtrDepth uint8
	// PtrQuals carries one qualifier per pointer level, outermost
	// last. Length never exceeds PtrDepth.
	PtrQuals []types.Qual
	// Quals qualifies the base/pointee itself.
	Quals types.Qual

	IsArray   bool
	HasExtent bool
	Extent    uint32

	MemberPtr types.MemberPtrKind

	// Value holds a non-type argument; IsValue discriminates it from
	// type arguments. The two are mutually exclusive.
	Value   int64
	IsValue bool

	// IsPack marks an argument produced by a parameter-pack
	// expansion. Equality deliberately ignores it.
	IsPack bool

	// Dependent marks an argument that still refers to an
	// uninstantiated template parameter named DepName.
	Dependent bool
	DepName   source.StringID

	// IsTemplate marks a template-template argument referring to the
	// template named TemplateName.
	IsTemplate   bool
	TemplateName source.StringID
}

// TypeOf builds a plain type argument from a base tag.
func TypeOf(base types.BaseType) TypeArg {
	return TypeArg{Base: base}
}

// StructOf builds a type argument for a user-defined type.
func StructOf(h types.Handle) TypeArg {
	return TypeArg{Base: types.BaseStruct, Type: h}
}

// ValueOf builds a non-type argument typed as int.
func ValueOf(v int64) TypeArg {
	return TypeArg{Base: types.BaseInt, Value: v, IsValue: true}
}

// BoolValueOf builds a non-type argument typed as bool.
func BoolValueOf(v bool) TypeArg {
	a := TypeArg{Base: types.BaseBool, IsValue: true}
	if v {
		a.Value = 1
	}
	return a
}

// TemplateRef builds a template-template argument.
func TemplateRef(name source.StringID) TypeArg {
	return TypeArg{IsTemplate: true, TemplateName: name}
}

// IsType reports whether the argument denotes a type (as opposed to a
// non-type value or a template-template reference).
func (a TypeArg) IsType() bool {
	return !a.IsValue && !a.IsTemplate
}

// valueTypesInterchangeable reports whether two value-argument base
// tags compare equal. C++ accepts bool where an int non-type parameter
// is expected, so Bool and Int are interchangeable here.
func valueTypesInterchangeable(a, b types.BaseType) bool {
	if a == b {
		return true
	}
	isBoolOrInt := func(t types.BaseType) bool {
		return t == types.BaseBool || t == types.BaseInt
	}
	return isBoolOrInt(a) && isBoolOrInt(b)
}

// Equal reports canonical equality: IsPack is ignored so a
// pack-expanded argument compares equal to a direct one of the same
// shape, and Bool/Int are interchangeable when both sides are values.
func (a TypeArg) Equal(b TypeArg) bool {
	if a.IsValue || b.IsValue {
		return a.IsValue && b.IsValue &&
			a.Value == b.Value &&
			valueTypesInterchangeable(a.Base, b.Base)
	}
	if a.IsTemplate || b.IsTemplate {
		return a.IsTemplate && b.IsTemplate && a.TemplateName == b.TemplateName
	}
	if a.Base != b.Base || a.Type != b.Type {
		return false
	}
	if a.Ref != b.Ref || a.PtrDepth != b.PtrDepth || a.Quals != b.Quals {
		return false
	}
	if !qualListsEqual(a.PtrQuals, b.PtrQuals, a.PtrDepth) {
		return false
	}
	if a.IsArray != b.IsArray || a.HasExtent != b.HasExtent {
		return false
	}
	if a.HasExtent && a.Extent != b.Extent {
		return false
	}
	if a.MemberPtr != b.MemberPtr {
		return false
	}
	if a.Dependent != b.Dependent || a.DepName != b.DepName {
		return false
	}
	return true
}

// qualListsEqual compares per-level qualifiers, treating missing
// trailing entries as QualNone.
func qualListsEqual(a, b []types.Qual, depth uint8) bool {
	for i := 0; i < int(depth); i++ {
		if qualAt(a, i) != qualAt(b, i) {
			return false
		}
	}
	return true
}

func qualAt(quals []types.Qual, level int) types.Qual {
	if level < 0 || level >= len(quals) {
		return types.QualNone
	}
	return quals[level]
}

// baseEqual compares only the base identity of two arguments: the part
// left once reference/pointer/array/cv structure is stripped. Used for
// repeat-occurrence consistency during deduction.
func (a TypeArg) baseEqual(b TypeArg) bool {
	if a.IsValue || b.IsValue {
		return a.IsValue && b.IsValue &&
			a.Value == b.Value &&
			valueTypesInterchangeable(a.Base, b.Base)
	}
	if a.IsTemplate || b.IsTemplate {
		return a.IsTemplate && b.IsTemplate && a.TemplateName == b.TemplateName
	}
	return a.Base == b.Base && a.Type == b.Type &&
		a.Dependent == b.Dependent && a.DepName == b.DepName
}

// stripShape removes the shape a pattern argument contributed from a
// concrete argument: deduction never includes what the pattern itself
// adds. shape's reference, pointer levels, array-ness and qualifiers
// are peeled off the concrete argument.
func (a TypeArg) stripShape(shape TypeArg) TypeArg {
	out := a
	if shape.Ref != types.RefNone {
		out.Ref = types.RefNone
	}
	if shape.PtrDepth > 0 {
		if out.PtrDepth >= shape.PtrDepth {
			out.PtrDepth -= shape.PtrDepth
		} else {
			out.PtrDepth = 0
		}
		if int(out.PtrDepth) < len(out.PtrQuals) {
			out.PtrQuals = append([]types.Qual(nil), out.PtrQuals[:out.PtrDepth]...)
		}
	}
	if shape.IsArray {
		out.IsArray = false
		out.HasExtent = false
		out.Extent = 0
	}
	if shape.MemberPtr != types.MemberPtrNone {
		out.MemberPtr = types.MemberPtrNone
	}
	out.Quals &^= shape.Quals
	out.IsPack = false
	return out
}

// applyShape layers a qualifier shape back onto a bound argument: the
// inverse of stripShape, used when a dependent occurrence like T* or
// const T& is rewritten with the deduced T.
func applyShape(a TypeArg, shape TypeArg) TypeArg {
	out := a
	if shape.Ref != types.RefNone {
		out.Ref = shape.Ref
	}
	if shape.PtrDepth > 0 {
		quals := make([]types.Qual, 0, int(out.PtrDepth)+int(shape.PtrDepth))
		for i := 0; i < int(out.PtrDepth); i++ {
			quals = append(quals, qualAt(out.PtrQuals, i))
		}
		for i := 0; i < int(shape.PtrDepth); i++ {
			quals = append(quals, qualAt(shape.PtrQuals, i))
		}
		out.PtrDepth += shape.PtrDepth
		out.PtrQuals = quals
	}
	if shape.IsArray {
		out.IsArray = true
		out.HasExtent = shape.HasExtent
		out.Extent = shape.Extent
	}
	if shape.MemberPtr != types.MemberPtrNone {
		out.MemberPtr = shape.MemberPtr
	}
	out.Quals |= shape.Quals
	return out
}

// FromTypeSpec converts a fully concrete type specifier into a
// canonical argument. Dependent specs convert into dependent
// arguments; template-id specs need the substitution engine instead.
func FromTypeSpec(ts ast.TypeSpec) TypeArg {
	a := TypeArg{
		Base:      ts.Base,
		Type:      ts.Type,
		Ref:       ts.Ref,
		PtrDepth:  ts.PtrDepth,
		Quals:     ts.Quals,
		IsArray:   ts.IsArray,
		HasExtent: ts.HasExtent,
		Extent:    ts.Extent,
		MemberPtr: ts.MemberPtr,
		IsPack:    ts.IsPack,
	}
	if len(ts.PtrQuals) > 0 {
		a.PtrQuals = append([]types.Qual(nil), ts.PtrQuals...)
	}
	if ts.IsValue {
		a.IsValue = true
		a.Value = ts.Value
	}
	if ts.Base == types.BaseDependent {
		a.Dependent = true
		a.DepName = ts.Name
	}
	return a
}
