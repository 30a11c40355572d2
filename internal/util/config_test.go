package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.toml")
	content := `
log_level = "debug"
log_file = "/tmp/fern.log"
debug_ast = true
record_dsn = "runs.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &Configuration{}
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.LogLevel != "debug" || c.LogFile != "/tmp/fern.log" || !c.DebugAST || c.RecordDSN != "runs.db" {
		t.Errorf("unexpected configuration: %+v", c)
	}
}

func TestLoadFileMissing(t *testing.T) {
	c := &Configuration{LogLevel: "warn"}
	if err := c.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if c.LogLevel != "warn" {
		t.Errorf("missing file clobbered defaults: %+v", c)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.toml")
	if err := os.WriteFile(path, []byte("log_level = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &Configuration{}
	if err := c.LoadFile(path); err == nil {
		t.Error("malformed file parsed without error")
	}
}
