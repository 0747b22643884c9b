package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cxfront/internal/driver"
	"cxfront/internal/session"
	"cxfront/internal/templ"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the instantiation-cache snapshot",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show [snapshot]",
	Short: "List the instantiations recorded in a snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := snapshotPath(cmd, args)
		if err != nil {
			return err
		}
		snap, ok, err := driver.ReadSnapshot(path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no snapshot at %s", path)
		}
		renderSnapshot(cmd, snap)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
}

// snapshotPath resolves the snapshot location: positional argument
// first, then the manifest's cache_snapshot setting.
func snapshotPath(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	manifest, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return "", err
	}
	opts, err := session.LoadOptions(manifest)
	if err != nil {
		return "", err
	}
	if opts.CacheSnapshot == "" {
		return "", fmt.Errorf("%s: cache_snapshot is not set and no snapshot path was given", manifest)
	}
	return opts.CacheSnapshot, nil
}

func renderSnapshot(cmd *cobra.Command, snap *driver.Snapshot) {
	out := cmd.OutOrStdout()
	colored := useColor(cmd, os.Stdout)

	kindColor := color.New(color.FgCyan, color.Bold)
	nameColor := color.New(color.FgGreen)
	kindLabel := func(kind uint8) string {
		switch templ.InstKind(kind) {
		case templ.InstVar:
			return "var"
		case templ.InstAlias:
			return "alias"
		case templ.InstFunc:
			return "fn"
		default:
			return "class"
		}
	}

	for _, e := range snap.Entries {
		label := kindLabel(e.Kind)
		key := e.Key
		if colored {
			label = kindColor.Sprint(label)
			key = nameColor.Sprint(key)
		}
		fmt.Fprintf(out, "%s %s  as=%s\n", label, key, e.Mangled)
		switch templ.InstKind(e.Kind) {
		case templ.InstClass:
			fmt.Fprintf(out, "  - size=%d members=%d\n", e.Size, e.Members)
		case templ.InstVar:
			if e.HasValue {
				fmt.Fprintf(out, "  - value=%d\n", e.Value)
			}
		case templ.InstAlias:
			fmt.Fprintf(out, "  - target=%s\n", e.Target)
		}
	}
	fmt.Fprintf(out, "%d instantiation(s)\n", len(snap.Entries))
}
