package ast

import (
	"fmt"

	"cxfront/internal/source"
)

// ExprKind enumerates the closed set of expression node kinds the
// template core operates on.
type ExprKind uint8

const (
	// ExprLiteral is an integer/boolean constant.
	ExprLiteral ExprKind = iota
	// ExprIdent is a bare identifier, possibly naming a non-type
	// template parameter.
	ExprIdent
	// ExprUnary is a prefix operator applied to one operand. For
	// legacy grammar reasons sizeof can arrive in this shape with
	// SizeofType set instead of an operand.
	ExprUnary
	// ExprBinary is a binary operator over two operands.
	ExprBinary
	// ExprSizeofType is sizeof with a type operand.
	ExprSizeofType
	// ExprSizeofExpr is sizeof with an expression operand.
	ExprSizeofExpr
	// ExprCtorCall is a constructor-call expression T(args...).
	ExprCtorCall
	// ExprQualifiedName is Scope::Member where Scope may be a
	// (possibly uninstantiated) template-id.
	ExprQualifiedName
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprIdent:
		return "Ident"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprSizeofType:
		return "SizeofType"
	case ExprSizeofExpr:
		return "SizeofExpr"
	case ExprCtorCall:
		return "CtorCall"
	case ExprQualifiedName:
		return "QualifiedName"
	default:
		return fmt.Sprintf("ExprKind(%d)", k)
	}
}

// Expr is one expression node.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the kind-specific payload.
type ExprData interface {
	exprData()
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
	// OpSizeof is the legacy unary-shaped sizeof.
	OpSizeof
)

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpShl
	OpShr
	OpAnd
	OpOr
	OpXor
	OpLogAnd
	OpLogOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

type LiteralData struct {
	Value  int64
	IsBool bool
}

type IdentData struct {
	Name source.StringID
}

type UnaryData struct {
	Op      UnaryOp
	Operand *Expr
	// SizeofType is set instead of Operand when Op == OpSizeof and the
	// parser produced the unary-shaped form with a type operand.
	SizeofType *TypeSpec
}

type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

type SizeofTypeData struct {
	Operand TypeSpec
}

type SizeofExprData struct {
	Operand *Expr
}

type CtorCallData struct {
	Type TypeSpec
	Args []*Expr
}

type QualifiedNameData struct {
	Scope  TypeSpec
	Member source.StringID
}

func (LiteralData) exprData()       {}
func (IdentData) exprData()         {}
func (UnaryData) exprData()         {}
func (BinaryData) exprData()        {}
func (SizeofTypeData) exprData()    {}
func (SizeofExprData) exprData()    {}
func (CtorCallData) exprData()      {}
func (QualifiedNameData) exprData() {}

// IntLiteral builds a literal node carrying value.
func IntLiteral(value int64, span source.Span) *Expr {
	return &Expr{Kind: ExprLiteral, Span: span, Data: LiteralData{Value: value}}
}
