package ast

import (
	"fmt"

	"cxfront/internal/source"
	"cxfront/internal/types"
)

// NodeKind enumerates the closed set of declaration node kinds.
type NodeKind uint8

const (
	// NodeClassDecl is a concrete class/struct declaration.
	NodeClassDecl NodeKind = iota
	// NodeVarDecl is a concrete variable declaration.
	NodeVarDecl
	// NodeFuncDecl is a concrete function declaration.
	NodeFuncDecl
	// NodeAliasDecl is a concrete type alias.
	NodeAliasDecl
	// NodeTemplateClass is a class template (primary or specialized).
	NodeTemplateClass
	// NodeTemplateFunc is a function template.
	NodeTemplateFunc
	// NodeTemplateVar is a variable template.
	NodeTemplateVar
	// NodeTemplateAlias is an alias template.
	NodeTemplateAlias
)

func (k NodeKind) String() string {
	switch k {
	case NodeClassDecl:
		return "ClassDecl"
	case NodeVarDecl:
		return "VarDecl"
	case NodeFuncDecl:
		return "FuncDecl"
	case NodeAliasDecl:
		return "AliasDecl"
	case NodeTemplateClass:
		return "TemplateClass"
	case NodeTemplateFunc:
		return "TemplateFunc"
	case NodeTemplateVar:
		return "TemplateVar"
	case NodeTemplateAlias:
		return "TemplateAlias"
	default:
		return fmt.Sprintf("NodeKind(%d)", k)
	}
}

// Node is one declaration node.
type Node struct {
	Kind NodeKind
	Span source.Span
	Data NodeData
}

// NodeData is the kind-specific payload.
type NodeData interface {
	nodeData()
}

// TokenPos is an opaque saved parse position. The template core never
// interprets it; it is handed back to the parser collaborator to
// lazily re-parse an out-of-line member body.
type TokenPos struct {
	File   source.FileID
	Offset uint32
}

// IsValid reports whether the position was actually recorded.
func (p TokenPos) IsValid() bool {
	return p != TokenPos{}
}

// Field is one data member of a class declaration.
type Field struct {
	Name source.StringID
	Type TypeSpec
	Init *Expr
}

// Typedef is a nested type name inside a class declaration.
type Typedef struct {
	Name   source.StringID
	Target TypeSpec
}

// Method is a member function; its body stays unparsed until the
// enclosing class is instantiated.
type Method struct {
	Name    source.StringID
	Result  TypeSpec
	Params  []Param
	BodyPos TokenPos
	// Body is the re-parsed function body, set during instantiation
	// when a BodyParser is attached.
	Body *Node
}

// Param is one function parameter.
type Param struct {
	Name source.StringID
	Type TypeSpec
}

// ClassDeclData is the payload of NodeClassDecl. Template class bodies
// reuse it as the pattern the substitution engine rewrites.
type ClassDeclData struct {
	Name     source.StringID
	Type     types.Handle // table handle once the type is minted
	Fields   []Field
	Bases    []TypeSpec
	Typedefs []Typedef
	Methods  []Method
	// StaticValues are static data members with constant initializers.
	StaticValues []Field
}

// VarDeclData is the payload of NodeVarDecl.
type VarDeclData struct {
	Name source.StringID
	Type TypeSpec
	Init *Expr
	// Value is the evaluated constant once instantiation finalizes it.
	Value    int64
	HasValue bool
}

// FuncDeclData is the payload of NodeFuncDecl.
type FuncDeclData struct {
	Name    source.StringID
	Result  TypeSpec
	Params  []Param
	BodyPos TokenPos
	Body    *Node
}

// AliasDeclData is the payload of NodeAliasDecl.
type AliasDeclData struct {
	Name   source.StringID
	Target TypeSpec
}

func (ClassDeclData) nodeData() {}
func (VarDeclData) nodeData()   {}
func (FuncDeclData) nodeData()  {}
func (AliasDeclData) nodeData() {}
