package ast

import (
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// ExtentAny is the "unbounded" array-extent sentinel. In a
// specialization pattern it matches any concrete extent.
const ExtentAny = ^uint32(0)

// NoParamIndex marks a TypeSpec that does not refer to a template
// parameter by position.
const NoParamIndex = -1

// TypeSpec is the syntactic form of a type as it appears in a
// declaration. It may still be dependent: Base == types.BaseDependent
// with Name/ParamIndex identifying the template parameter, or a
// template-id whose arguments are themselves dependent.
type TypeSpec struct {
	Base types.BaseType
	// Name is the user-defined type name, the dependent parameter
	// name, or the base template name when TemplateArgs is set.
	Name source.StringID
	// Type is the resolved table handle for concrete user-defined
	// types. NoHandle while the spec is dependent.
	Type types.Handle
	// TemplateArgs marks a template-id Name<TemplateArgs...>.
	TemplateArgs []TypeSpec
	// ParamIndex positions a dependent spec inside the enclosing
	// template's parameter list; NoParamIndex otherwise.
	ParamIndex int

	Ref      types.RefKind
	PtrDepth uint8
	// PtrQuals holds one qualifier per pointer level, outermost last.
	PtrQuals []types.Qual
	// Quals qualifies the pointee/base itself.
	Quals types.Qual

	IsArray   bool
	HasExtent bool
	Extent    uint32
	// ExtentExpr is a dependent extent (e.g. N) awaiting substitution
	// and constant evaluation.
	ExtentExpr *Expr

	MemberPtr types.MemberPtrKind

	// IsPack marks a pack expansion (T...).
	IsPack bool

	// IsValue marks a non-type argument inside a template-id argument
	// list; Value then holds the constant.
	IsValue bool
	Value   int64
}

// IsDependent reports whether any part of the spec still refers to a
// template parameter.
func (ts TypeSpec) IsDependent() bool {
	if ts.Base == types.BaseDependent {
		return true
	}
	if ts.ExtentExpr != nil {
		return true
	}
	for _, a := range ts.TemplateArgs {
		if a.IsDependent() {
			return true
		}
	}
	return false
}

// MakeParamRef builds a dependent TypeSpec referring to a template
// parameter by name and position.
func MakeParamRef(name source.StringID, index int) TypeSpec {
	return TypeSpec{Base: types.BaseDependent, Name: name, ParamIndex: index}
}
