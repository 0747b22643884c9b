package driver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"cxfront/internal/source"
	"cxfront/internal/templ"
	"cxfront/internal/types"
)

// populatedRegistry builds a cache with one entry per kind plus a
// pending one that must not be rendered.
func populatedRegistry(t *testing.T) (*templ.Registry, *types.Table, *source.Interner) {
	t.Helper()
	strs := source.NewInterner()
	table := types.NewTable()
	reg := templ.NewRegistry(strs)

	boxKey := templ.MakeInstKey(strs.Intern("box"), []templ.TypeArg{templ.TypeOf(types.BaseInt)})
	boxName := reg.MangledName(boxKey)
	boxType := table.Register(types.Info{Name: boxName, Base: types.BaseStruct, Size: 4, Members: []types.Member{
		{Name: strs.Intern("value"), Kind: types.MemberField, Base: types.BaseInt},
	}})
	reg.RegisterInstantiation(&templ.Instantiation{
		Key: boxKey, Kind: templ.InstClass, State: templ.InstDone,
		Name: boxName, Type: boxType,
	})

	varKey := templ.MakeInstKey(strs.Intern("is_small_v"), []templ.TypeArg{templ.TypeOf(types.BaseChar)})
	reg.RegisterInstantiation(&templ.Instantiation{
		Key: varKey, Kind: templ.InstVar, State: templ.InstDone,
		Name: reg.MangledName(varKey), Value: 1, HasValue: true,
	})

	aliasKey := templ.MakeInstKey(strs.Intern("ptr_t"), []templ.TypeArg{templ.TypeOf(types.BaseDouble)})
	aliasTarget := templ.TypeOf(types.BaseDouble)
	aliasTarget.PtrDepth = 1
	reg.RegisterInstantiation(&templ.Instantiation{
		Key: aliasKey, Kind: templ.InstAlias, State: templ.InstDone,
		Name: reg.MangledName(aliasKey), Result: aliasTarget,
	})

	pendingKey := templ.MakeInstKey(strs.Intern("box"), []templ.TypeArg{templ.TypeOf(types.BaseLong)})
	reg.RegisterInstantiation(&templ.Instantiation{
		Key: pendingKey, Kind: templ.InstClass, State: templ.InstPending,
		Name: reg.MangledName(pendingKey),
	})

	return reg, table, strs
}

func TestBuildSnapshot(t *testing.T) {
	reg, table, strs := populatedRegistry(t)
	snap := BuildSnapshot(reg, table, strs)

	if snap.Schema != snapshotSchemaVersion {
		t.Fatalf("schema = %d", snap.Schema)
	}
	if len(snap.Entries) != 3 {
		t.Fatalf("pending entries must not be rendered: got %d entries", len(snap.Entries))
	}
	// Sorted by kind: class, var, alias.
	if snap.Entries[0].Key != "box<int>" || snap.Entries[0].Size != 4 || snap.Entries[0].Members != 1 {
		t.Errorf("class entry: %+v", snap.Entries[0])
	}
	if !snap.Entries[1].HasValue || snap.Entries[1].Value != 1 {
		t.Errorf("var entry: %+v", snap.Entries[1])
	}
	if snap.Entries[2].Target != "double*" {
		t.Errorf("alias target = %q", snap.Entries[2].Target)
	}
	for _, e := range snap.Entries {
		if e.Mangled == "" || e.Hash == 0 {
			t.Errorf("entry missing identity fields: %+v", e)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	reg, table, strs := populatedRegistry(t)
	snap := BuildSnapshot(reg, table, strs)

	path := filepath.Join(t.TempDir(), "deep", "cache.bin")
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	got, ok, err := ReadSnapshot(path)
	if err != nil || !ok {
		t.Fatalf("ReadSnapshot: ok=%v err=%v", ok, err)
	}
	if len(got.Entries) != len(snap.Entries) {
		t.Fatalf("entries = %d, want %d", len(got.Entries), len(snap.Entries))
	}
	for i := range snap.Entries {
		if got.Entries[i] != snap.Entries[i] {
			t.Errorf("entry %d changed across the round trip:\n got %+v\nwant %+v", i, got.Entries[i], snap.Entries[i])
		}
	}
}

func TestReadSnapshotMissingFile(t *testing.T) {
	snap, ok, err := ReadSnapshot(filepath.Join(t.TempDir(), "absent.bin"))
	if snap != nil || ok || err != nil {
		t.Fatalf("missing file must be (nil, false, nil), got (%v, %v, %v)", snap, ok, err)
	}
}

func TestReadSnapshotSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	stale, err := msgpack.Marshal(&Snapshot{Schema: snapshotSchemaVersion + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, stale, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := ReadSnapshot(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("want ErrSchemaMismatch, got %v", err)
	}
}

func TestReadSnapshotCorruptPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	if err := os.WriteFile(path, []byte{0xc1, 0x00}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := ReadSnapshot(path); err == nil {
		t.Fatalf("corrupt snapshot accepted")
	}
}
