package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Options are the engine knobs a cxfront.toml manifest can set.
type Options struct {
	// MaxInstantiationDepth caps nested template instantiation; the
	// engine default applies when zero.
	MaxInstantiationDepth int
	// MaxDiagnostics caps the diagnostic bag; the session default
	// applies when zero.
	MaxDiagnostics int
	// CacheSnapshot is the path the instantiation-cache snapshot is
	// read from and written to. Empty disables snapshotting.
	CacheSnapshot string
}

// ErrFrontendSectionMissing indicates that [frontend] is missing in a manifest.
var ErrFrontendSectionMissing = errors.New("missing [frontend]")

type manifest struct {
	Frontend struct {
		MaxInstantiationDepth int    `toml:"max_instantiation_depth"`
		MaxDiagnostics        int    `toml:"max_diagnostics"`
		CacheSnapshot         string `toml:"cache_snapshot"`
	} `toml:"frontend"`
}

// LoadOptions parses the [frontend] section of a cxfront.toml manifest.
func LoadOptions(path string) (Options, error) {
	var cfg manifest
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("frontend") {
		return Options{}, fmt.Errorf("%s: %w", path, ErrFrontendSectionMissing)
	}
	opts := Options{
		MaxInstantiationDepth: cfg.Frontend.MaxInstantiationDepth,
		MaxDiagnostics:        cfg.Frontend.MaxDiagnostics,
		CacheSnapshot:         strings.TrimSpace(cfg.Frontend.CacheSnapshot),
	}
	if opts.MaxInstantiationDepth < 0 {
		return Options{}, fmt.Errorf("%s: max_instantiation_depth must not be negative", path)
	}
	if opts.MaxDiagnostics < 0 {
		return Options{}, fmt.Errorf("%s: max_diagnostics must not be negative", path)
	}
	return opts, nil
}
