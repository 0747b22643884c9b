// Package driver persists engine artifacts between runs. The
// instantiation-cache snapshot is a rendered, schema-versioned record
// of what a translation unit instantiated; tooling reads it back
// without re-running the frontend.
package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"cxfront/internal/source"
	"cxfront/internal/templ"
	"cxfront/internal/types"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// ErrSchemaMismatch indicates a snapshot written by an incompatible
// frontend version.
var ErrSchemaMismatch = errors.New("driver: snapshot schema mismatch")

// Entry is one instantiation in a snapshot, fully rendered so the
// reader needs no interner or type table.
type Entry struct {
	// Kind mirrors templ.InstKind.
	Kind uint8
	// Key is the rendered instantiation key, e.g. "Box<const int*>".
	Key string
	// Mangled is the minted instance name.
	Mangled string
	// Hash is the key's canonical hash, kept for cross-run diffing.
	Hash uint64

	// Size and Members describe class instantiations.
	Size    uint32
	Members uint32

	// Value is set for variable instantiations that folded to a
	// constant.
	Value    int64
	HasValue bool

	// Target is the rendered result of an alias instantiation.
	Target string
}

// Snapshot is the disk payload for one translation unit's
// instantiation cache.
type Snapshot struct {
	// Schema version for safe invalidation when format changes
	Schema  uint16
	Entries []Entry
}

// BuildSnapshot renders the completed entries of a registry into a
// snapshot, sorted by kind then key for deterministic output.
func BuildSnapshot(reg *templ.Registry, table *types.Table, strs *source.Interner) *Snapshot {
	snap := &Snapshot{Schema: snapshotSchemaVersion}
	for _, inst := range reg.Instantiations() {
		if inst.State != templ.InstDone {
			continue
		}
		e := Entry{
			Kind:    uint8(inst.Kind),
			Key:     templ.FormatKey(inst.Key, table, strs),
			Mangled: strs.MustLookup(inst.Name),
			Hash:    inst.Key.Hash(),
		}
		switch inst.Kind {
		case templ.InstClass:
			if info, ok := table.Lookup(inst.Type); ok {
				e.Size = info.Size
				e.Members = uint32(len(info.Members))
			}
		case templ.InstVar:
			e.Value = inst.Value
			e.HasValue = inst.HasValue
		case templ.InstAlias:
			e.Target = templ.FormatTypeArg(inst.Result, table, strs)
		}
		snap.Entries = append(snap.Entries, e)
	}
	sort.SliceStable(snap.Entries, func(i, j int) bool {
		a, b := snap.Entries[i], snap.Entries[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Key < b.Key
	})
	return snap
}

// WriteSnapshot serializes snap to path, replacing it atomically.
func WriteSnapshot(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadSnapshot deserializes a snapshot from path. A missing file is
// (nil, false, nil); a schema mismatch is an error so stale snapshots
// are never silently trusted.
func ReadSnapshot(path string) (*Snapshot, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var snap Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, false, fmt.Errorf("%s: failed to decode snapshot: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, false, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchemaMismatch, snap.Schema, snapshotSchemaVersion)
	}
	return &snap, true, nil
}
