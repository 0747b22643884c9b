package types

import (
	"fmt"

	"fortio.org/safecast"

	"cxfront/internal/source"
)

// Handle identifies a user-defined type in the Table. The generation
// component guards against a stale handle silently aliasing a slot
// reused after Reset.
type Handle struct {
	Index uint32
	Gen   uint32
}

// NoHandle marks the absence of a type.
var NoHandle = Handle{}

// IsValid reports whether the handle points at a real slot.
func (h Handle) IsValid() bool {
	return h != NoHandle
}

// MemberKind enumerates the kinds of members a user-defined type can
// expose to template machinery.
type MemberKind uint8

const (
	// MemberField is an ordinary non-static data member.
	MemberField MemberKind = iota
	// MemberTypedef is a nested type name (typedef/using/nested class).
	MemberTypedef
	// MemberStaticValue is a static data member with a constant value.
	MemberStaticValue
)

// Member describes one member of a user-defined type.
type Member struct {
	Name   source.StringID
	Kind   MemberKind
	Type   Handle // nested/field type when user-defined, NoHandle otherwise
	Base   BaseType
	Value  int64 // MemberStaticValue only
	Offset uint32
}

// Info stores the layout the template core needs for one user-defined
// type: its name, size and member/base lists.
type Info struct {
	Name    source.StringID
	Base    BaseType // BaseStruct or BaseEnum
	Size    uint32
	Align   uint32
	Members []Member
	Bases   []Handle
}

// HasMember reports whether the type declares a member with the name.
// Base classes are consulted through the Table, not here.
func (i *Info) HasMember(name source.StringID) bool {
	_, ok := i.Member(name)
	return ok
}

// Member finds a directly declared member by name.
func (i *Info) Member(name source.StringID) (Member, bool) {
	if i == nil || name == source.NoStringID {
		return Member{}, false
	}
	for _, m := range i.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Table is the arena of user-defined types shared across one
// compilation. Slot 0 is reserved so a zero Handle is always invalid.
type Table struct {
	slots []slot
	gen   uint32
}

type slot struct {
	gen  uint32
	info Info
}

// NewTable constructs an empty table with the invalid slot reserved.
func NewTable() *Table {
	t := &Table{gen: 1}
	t.slots = append(t.slots, slot{})
	return t
}

// Register appends a new type and returns its handle.
func (t *Table) Register(info Info) Handle {
	n, err := safecast.Conv[uint32](len(t.slots))
	if err != nil {
		panic(fmt.Errorf("types: table overflow: %w", err))
	}
	t.slots = append(t.slots, slot{gen: t.gen, info: info})
	return Handle{Index: n, Gen: t.gen}
}

// Lookup returns the info for a handle. A handle minted before the last
// Reset fails the generation check and yields (nil, false).
func (t *Table) Lookup(h Handle) (*Info, bool) {
	if !h.IsValid() || int(h.Index) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[h.Index]
	if s.gen != h.Gen {
		return nil, false
	}
	return &s.info, true
}

// MustLookup panics on an invalid or stale handle.
func (t *Table) MustLookup(h Handle) *Info {
	info, ok := t.Lookup(h)
	if !ok {
		panic("types: invalid type handle")
	}
	return info
}

// SetMembers stores the resolved member list and recomputed size for h.
func (t *Table) SetMembers(h Handle, members []Member, size uint32) {
	info, ok := t.Lookup(h)
	if !ok {
		return
	}
	info.Members = members
	info.Size = size
}

// HasNestedMember reports whether the type or any of its bases declares
// the named member.
func (t *Table) HasNestedMember(h Handle, name source.StringID) bool {
	info, ok := t.Lookup(h)
	if !ok {
		return false
	}
	if info.HasMember(name) {
		return true
	}
	for _, base := range info.Bases {
		if t.HasNestedMember(base, name) {
			return true
		}
	}
	return false
}

// Len returns the number of live slots, the reserved slot included.
func (t *Table) Len() int {
	return len(t.slots)
}

// Reset drops every registered type and invalidates all outstanding
// handles by advancing the generation. Used between compilation runs.
func (t *Table) Reset() {
	t.slots = t.slots[:1]
	t.gen++
}
