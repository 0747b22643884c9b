package templ

import (
	"fmt"
	"io"
	"sort"

	"cxfront/internal/source"
	"cxfront/internal/types"
)

// DumpOptions configures the instantiation cache dump.
type DumpOptions struct {
	// IncludePending also lists entries still mid-substitution; useful
	// when dumping from a failure path.
	IncludePending bool
}

// Dump writes a deterministic text rendering of the instantiation
// cache: entries sorted by kind, then rendered key. Intended for
// tooling and golden tests, not for machine consumption.
func Dump(w io.Writer, r *Registry, table *types.Table, strs *source.Interner, opts DumpOptions) error {
	if w == nil || r == nil {
		return nil
	}

	entries := make([]*Instantiation, 0, len(r.byName))
	for _, inst := range r.Instantiations() {
		if inst.State == InstDone || opts.IncludePending {
			entries = append(entries, inst)
		}
	}

	type row struct {
		inst     *Instantiation
		rendered string
	}
	rows := make([]row, len(entries))
	for i, inst := range entries {
		rows[i] = row{inst, FormatKey(inst.Key, table, strs)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.inst.Kind != b.inst.Kind {
			return a.inst.Kind < b.inst.Kind
		}
		return a.rendered < b.rendered
	})

	for _, rw := range rows {
		inst := rw.inst
		label := "class"
		switch inst.Kind {
		case InstVar:
			label = "var"
		case InstAlias:
			label = "alias"
		case InstFunc:
			label = "fn"
		}
		state := ""
		switch inst.State {
		case InstPending:
			state = "  state=pending"
		case InstFailed:
			state = "  state=failed"
		}
		if _, err := fmt.Fprintf(w, "%s %s  as=%s%s\n", label, rw.rendered, lookupName(strs, inst.Name), state); err != nil {
			return err
		}

		switch inst.Kind {
		case InstClass:
			if info, ok := table.Lookup(inst.Type); ok {
				if _, err := fmt.Fprintf(w, "  - size=%d members=%d\n", info.Size, len(info.Members)); err != nil {
					return err
				}
			}
		case InstVar:
			if inst.HasValue {
				if _, err := fmt.Fprintf(w, "  - value=%d\n", inst.Value); err != nil {
					return err
				}
			}
		case InstAlias:
			if _, err := fmt.Fprintf(w, "  - target=%s\n", FormatTypeArg(inst.Result, table, strs)); err != nil {
				return err
			}
		}
	}
	return nil
}
