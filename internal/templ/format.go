package templ

import (
	"fmt"
	"strconv"
	"strings"

	"cxfront/internal/ast"
	"cxfront/internal/source"
	"cxfront/internal/types"
)

// FormatTypeArg renders a concrete argument in source-like notation,
// e.g. "const int*" or "Box<int>[4]". Used by diagnostics and the
// cache dump; not a mangler.
func FormatTypeArg(arg TypeArg, table *types.Table, strs *source.Interner) string {
	var sb strings.Builder

	switch {
	case arg.IsValue:
		if arg.Base == types.BaseBool {
			if arg.Value != 0 {
				sb.WriteString("true")
			} else {
				sb.WriteString("false")
			}
		} else {
			sb.WriteString(strconv.FormatInt(arg.Value, 10))
		}

	case arg.IsTemplate:
		sb.WriteString(lookupName(strs, arg.TemplateName))

	case arg.Dependent:
		sb.WriteString(lookupName(strs, arg.DepName))

	default:
		if arg.Quals.Const() {
			sb.WriteString("const ")
		}
		if arg.Quals.Volatile() {
			sb.WriteString("volatile ")
		}
		if arg.Base.IsUserDefined() && table != nil {
			if info, ok := table.Lookup(arg.Type); ok {
				sb.WriteString(lookupName(strs, info.Name))
			} else {
				sb.WriteString("<stale>")
			}
		} else {
			sb.WriteString(arg.Base.String())
		}
	}

	for i := 0; i < int(arg.PtrDepth); i++ {
		sb.WriteByte('*')
		if i < len(arg.PtrQuals) && arg.PtrQuals[i] != types.QualNone {
			sb.WriteByte(' ')
			sb.WriteString(arg.PtrQuals[i].String())
		}
	}
	switch arg.MemberPtr {
	case types.MemberPtrObject:
		sb.WriteString(" C::*")
	case types.MemberPtrFunction:
		sb.WriteString(" (C::*)()")
	}
	switch arg.Ref {
	case types.RefLValue:
		sb.WriteByte('&')
	case types.RefRValue:
		sb.WriteString("&&")
	}
	if arg.IsArray {
		if arg.HasExtent && arg.Extent != ast.ExtentAny {
			fmt.Fprintf(&sb, "[%d]", arg.Extent)
		} else {
			sb.WriteString("[]")
		}
	}
	if arg.IsPack {
		sb.WriteString("...")
	}
	return sb.String()
}

// FormatKey renders an instantiation key as "name<arg, arg, ...>".
// The cross-kind interleave is not stored in the key (a template's
// parameter kinds fix it), so the sections render in order: types,
// then values, then template references.
func FormatKey(key InstKey, table *types.Table, strs *source.Interner) string {
	var sb strings.Builder
	sb.WriteString(lookupName(strs, key.Template))
	sb.WriteByte('<')
	n := 0
	emit := func(arg TypeArg) {
		if n > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatTypeArg(arg, table, strs))
		n++
	}
	for _, a := range key.TypeArgs {
		emit(a)
	}
	for _, v := range key.Values {
		emit(ValueOf(v))
	}
	for _, r := range key.TemplateRefs {
		emit(TemplateRef(r))
	}
	sb.WriteByte('>')
	return sb.String()
}

func lookupName(strs *source.Interner, id source.StringID) string {
	if strs == nil {
		return fmt.Sprintf("str#%d", id)
	}
	if s, ok := strs.Lookup(id); ok {
		return s
	}
	return fmt.Sprintf("str#%d", id)
}
