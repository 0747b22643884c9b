package templ

import (
	"encoding/binary"
	"hash/fnv"

	"cxfront/internal/source"
)

// InstKey is the canonical identity of one (template, argument list)
// pair: the template name plus the ordered type arguments, non-type
// values and template-template references. It is independent of any
// string rendering of the arguments, so a type literally named
// "foo_int" can never collide with the instantiation foo<int>.
type InstKey struct {
	Template     source.StringID
	TypeArgs     []TypeArg
	Values       []int64
	TemplateRefs []source.StringID
}

// MakeInstKey canonicalizes an argument list into a key: arguments are
// split by kind while preserving their relative order within each
// component list.
func MakeInstKey(template source.StringID, args []TypeArg) InstKey {
	k := InstKey{Template: template}
	for _, a := range args {
		switch {
		case a.IsValue:
			k.Values = append(k.Values, a.Value)
		case a.IsTemplate:
			k.TemplateRefs = append(k.TemplateRefs, a.TemplateName)
		default:
			k.TypeArgs = append(k.TypeArgs, a)
		}
	}
	return k
}

// Equal reports componentwise equality of two keys.
func (k InstKey) Equal(o InstKey) bool {
	if k.Template != o.Template {
		return false
	}
	if len(k.TypeArgs) != len(o.TypeArgs) ||
		len(k.Values) != len(o.Values) ||
		len(k.TemplateRefs) != len(o.TemplateRefs) {
		return false
	}
	for i := range k.TypeArgs {
		if !k.TypeArgs[i].Equal(o.TypeArgs[i]) {
			return false
		}
	}
	for i := range k.Values {
		if k.Values[i] != o.Values[i] {
			return false
		}
	}
	for i := range k.TemplateRefs {
		if k.TemplateRefs[i] != o.TemplateRefs[i] {
			return false
		}
	}
	return true
}

// Hash folds a canonical binary encoding of every component into
// FNV-1a. The encoding is order-sensitive and tags each component so
// differently shaped lists never produce the same byte stream. Fields
// Equal ignores (IsPack) are left out of the encoding.
func (k InstKey) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	put32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:4], v)
		h.Write(buf[:4])
	}
	put64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:8], v)
		h.Write(buf[:8])
	}
	putByte := func(v byte) {
		buf[0] = v
		h.Write(buf[:1])
	}

	put32(uint32(k.Template))

	putByte('T')
	put32(uint32(len(k.TypeArgs)))
	for _, a := range k.TypeArgs {
		putByte(byte(a.Base))
		put32(a.Type.Index)
		put32(a.Type.Gen)
		putByte(byte(a.Ref))
		putByte(a.PtrDepth)
		for i := 0; i < int(a.PtrDepth); i++ {
			putByte(byte(qualAt(a.PtrQuals, i)))
		}
		putByte(byte(a.Quals))
		putByte(boolByte(a.IsArray)<<1 | boolByte(a.HasExtent))
		if a.HasExtent {
			put32(a.Extent)
		}
		putByte(byte(a.MemberPtr))
		putByte(boolByte(a.Dependent))
		if a.Dependent {
			put32(uint32(a.DepName))
		}
	}

	putByte('V')
	put32(uint32(len(k.Values)))
	for _, v := range k.Values {
		put64(uint64(v))
	}

	putByte('R')
	put32(uint32(len(k.TemplateRefs)))
	for _, r := range k.TemplateRefs {
		put32(uint32(r))
	}

	return h.Sum64()
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
