package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lectern/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeDisk(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeDisk("disk", dir, 0); !result.Passed {
		t.Fatalf("zero minimum must pass, got: %s", result.Detail)
	}
	if result := CheckFreeDisk("disk", dir, 1); !result.Passed {
		t.Fatalf("one byte minimum should pass on a temp dir, got: %s", result.Detail)
	}
	if result := CheckFreeDisk("disk", filepath.Join(dir, "nope"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_HealthyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected checks to run")
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if fatal := FatalFailures(results); len(fatal) != 0 {
		t.Fatalf("unexpected fatal failures: %+v", fatal)
	}
}

func TestFatalFailuresIgnoresDegradedSecrets(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutContentKey())
	cfg.Content.SigningSecret = ""

	results := RunAll(context.Background(), cfg)
	var failed int
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if failed != 2 {
		t.Fatalf("expected key and secret checks to fail, got %d failures", failed)
	}
	if fatal := FatalFailures(results); len(fatal) != 0 {
		t.Fatalf("secret checks must not be fatal: %+v", fatal)
	}
}
