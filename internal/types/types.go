package types

import "fmt"

// BaseType enumerates the base-type tags a template argument or type
// specifier can carry. User-defined types additionally carry a Handle
// into the Table.
type BaseType uint8

const (
	BaseInvalid BaseType = iota
	BaseVoid
	BaseBool
	BaseChar
	BaseShort
	BaseInt
	BaseUInt
	BaseLong
	BaseULong
	BaseFloat
	BaseDouble
	// BaseStruct denotes a user-defined class/struct/union type.
	BaseStruct
	// BaseEnum denotes a user-defined enumeration type.
	BaseEnum
	// BaseDependent denotes a type that still refers to an
	// uninstantiated template parameter.
	BaseDependent
)

func (b BaseType) String() string {
	switch b {
	case BaseInvalid:
		return "invalid"
	case BaseVoid:
		return "void"
	case BaseBool:
		return "bool"
	case BaseChar:
		return "char"
	case BaseShort:
		return "short"
	case BaseInt:
		return "int"
	case BaseUInt:
		return "unsigned int"
	case BaseLong:
		return "long"
	case BaseULong:
		return "unsigned long"
	case BaseFloat:
		return "float"
	case BaseDouble:
		return "double"
	case BaseStruct:
		return "struct"
	case BaseEnum:
		return "enum"
	case BaseDependent:
		return "dependent"
	default:
		return fmt.Sprintf("BaseType(%d)", b)
	}
}

// IsUserDefined reports whether the base tag denotes a type stored in
// the Table (the only tags for which a Handle is meaningful).
func (b BaseType) IsUserDefined() bool {
	return b == BaseStruct || b == BaseEnum
}

// Size returns the storage size in bytes for builtin base types, or 0
// for tags whose size lives in the Table (or is unknown).
func (b BaseType) Size() uint32 {
	switch b {
	case BaseBool, BaseChar:
		return 1
	case BaseShort:
		return 2
	case BaseInt, BaseUInt, BaseFloat:
		return 4
	case BaseLong, BaseULong, BaseDouble:
		return 8
	default:
		return 0
	}
}

// Qual is a const/volatile qualifier bitmask.
type Qual uint8

const (
	QualNone     Qual = 0
	QualConst    Qual = 1 << 0
	QualVolatile Qual = 1 << 1
)

func (q Qual) Const() bool    { return q&QualConst != 0 }
func (q Qual) Volatile() bool { return q&QualVolatile != 0 }

func (q Qual) String() string {
	switch {
	case q.Const() && q.Volatile():
		return "const volatile"
	case q.Const():
		return "const"
	case q.Volatile():
		return "volatile"
	default:
		return ""
	}
}

// RefKind enumerates reference categories.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefLValue
	RefRValue
)

func (r RefKind) String() string {
	switch r {
	case RefNone:
		return ""
	case RefLValue:
		return "&"
	case RefRValue:
		return "&&"
	default:
		return fmt.Sprintf("RefKind(%d)", r)
	}
}

// MemberPtrKind enumerates pointer-to-member categories.
type MemberPtrKind uint8

const (
	MemberPtrNone MemberPtrKind = iota
	MemberPtrObject
	MemberPtrFunction
)
