package ast

import (
	"cxfront/internal/source"
)

// TemplateParamKind enumerates the kinds of template parameters.
type TemplateParamKind uint8

const (
	// TypeParam is `typename T` / `class T`.
	TypeParam TemplateParamKind = iota
	// NonTypeParam is an integral non-type parameter (`int N`).
	NonTypeParam
	// TemplateTemplateParam is `template<...> class TT`.
	TemplateTemplateParam
)

// TemplateParam is one parameter of a template declaration.
type TemplateParam struct {
	Name   source.StringID
	Kind   TemplateParamKind
	IsPack bool
	// Default is the default argument, if declared.
	Default *TypeSpec
}

// TemplateClassData is the payload of NodeTemplateClass.
type TemplateClassData struct {
	Name source.StringID
	// Qualified is the namespace-qualified name, NoStringID when the
	// template lives at global scope.
	Qualified source.StringID
	Params    []TemplateParam
	Body      ClassDeclData
}

// TemplateFuncData is the payload of NodeTemplateFunc.
type TemplateFuncData struct {
	Name      source.StringID
	Qualified source.StringID
	Params    []TemplateParam
	Fn        FuncDeclData
}

// TemplateVarData is the payload of NodeTemplateVar.
type TemplateVarData struct {
	Name      source.StringID
	Qualified source.StringID
	Params    []TemplateParam
	Type      TypeSpec
	Init      *Expr
}

// TemplateAliasData is the payload of NodeTemplateAlias.
type TemplateAliasData struct {
	Name      source.StringID
	Qualified source.StringID
	Params    []TemplateParam
	Target    TypeSpec
}

func (TemplateClassData) nodeData() {}
func (TemplateFuncData) nodeData()  {}
func (TemplateVarData) nodeData()   {}
func (TemplateAliasData) nodeData() {}

// TemplateParams extracts the parameter list from any template node,
// or nil for concrete declarations.
func (n *Node) TemplateParams() []TemplateParam {
	if n == nil {
		return nil
	}
	switch d := n.Data.(type) {
	case TemplateClassData:
		return d.Params
	case TemplateFuncData:
		return d.Params
	case TemplateVarData:
		return d.Params
	case TemplateAliasData:
		return d.Params
	default:
		return nil
	}
}
