package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	c := Default()
	if c.BSAC.Version != 1 {
		t.Fatalf("BSAC.Version = %d, want 1", c.BSAC.Version)
	}
	if c.Bundle.WorkerPoolSize != 4 {
		t.Fatalf("Bundle.WorkerPoolSize = %d, want 4", c.Bundle.WorkerPoolSize)
	}
}

func TestLoadOverridesDefaultsAndKeepsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tachyfont.toml")
	contents := `
[font]
keep_hinting = true

[bsac]
version = 3
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Font.KeepHinting {
		t.Fatal("Font.KeepHinting = false, want true")
	}
	if c.BSAC.Version != 3 {
		t.Fatalf("BSAC.Version = %d, want 3", c.BSAC.Version)
	}
	if c.Bundle.WorkerPoolSize != 4 {
		t.Fatalf("Bundle.WorkerPoolSize = %d, want default 4", c.Bundle.WorkerPoolSize)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/tachyfont.toml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
