package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cxfront.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadOptions(t *testing.T) {
	path := writeManifest(t, `
[frontend]
max_instantiation_depth = 32
max_diagnostics = 100
cache_snapshot = "  .cxfront/cache.bin  "
`)
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.MaxInstantiationDepth != 32 {
		t.Errorf("depth = %d, want 32", opts.MaxInstantiationDepth)
	}
	if opts.MaxDiagnostics != 100 {
		t.Errorf("diagnostics = %d, want 100", opts.MaxDiagnostics)
	}
	if opts.CacheSnapshot != ".cxfront/cache.bin" {
		t.Errorf("snapshot path not trimmed: %q", opts.CacheSnapshot)
	}
}

func TestLoadOptionsEmptySection(t *testing.T) {
	path := writeManifest(t, "[frontend]\n")
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts != (Options{}) {
		t.Fatalf("empty section must yield zero options, got %+v", opts)
	}
}

func TestLoadOptionsMissingSection(t *testing.T) {
	path := writeManifest(t, "[other]\nkey = 1\n")
	if _, err := LoadOptions(path); !errors.Is(err, ErrFrontendSectionMissing) {
		t.Fatalf("want ErrFrontendSectionMissing, got %v", err)
	}
}

func TestLoadOptionsRejectsNegatives(t *testing.T) {
	for _, body := range []string{
		"[frontend]\nmax_instantiation_depth = -1\n",
		"[frontend]\nmax_diagnostics = -5\n",
	} {
		path := writeManifest(t, body)
		if _, err := LoadOptions(path); err == nil {
			t.Errorf("negative value accepted: %s", body)
		}
	}
}

func TestLoadOptionsBadTOML(t *testing.T) {
	path := writeManifest(t, "[frontend\nbroken")
	if _, err := LoadOptions(path); err == nil {
		t.Fatalf("malformed manifest accepted")
	}
}
