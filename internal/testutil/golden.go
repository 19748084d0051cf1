package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv names the environment variable that rewrites golden files.
const UpdateGoldenEnv = "GOLDEN_UPDATE"

// GoldenPath returns testdata/<name>.golden relative to the test's package.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// Golden compares got with the golden file for name.
// With GOLDEN_UPDATE set the file is rewritten instead.
func Golden(t testing.TB, name string, got []byte) {
	t.Helper()
	path := GoldenPath(name)

	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("updating %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v (run with %s=1 to create it)\ngot:\n%s", path, err, UpdateGoldenEnv, got)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("%s mismatch (run with %s=1 to accept)\nwant:\n%s\ngot:\n%s", path, UpdateGoldenEnv, want, got)
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t testing.TB, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
