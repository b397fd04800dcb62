/*
NAME
  export_test.go

DESCRIPTION
  export_test.go validates the output-path collision policy: an
  existing path gets "_0", "_1", ... appended to its stem until free.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePathFreePathUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	if got := ResolvePath(path); got != path {
		t.Errorf("ResolvePath(%q) = %q, want unchanged", path, got)
	}
}

func TestResolvePathAppendsSuffixOnCollision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "out_0.xlsx")
	if got := ResolvePath(path); got != want {
		t.Errorf("ResolvePath(%q) = %q, want %q", path, got, want)
	}
}

func TestResolvePathSkipsTakenSuffixes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")
	for _, p := range []string{path, filepath.Join(dir, "out_0.xlsx"), filepath.Join(dir, "out_1.xlsx")} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	want := filepath.Join(dir, "out_2.xlsx")
	if got := ResolvePath(path); got != want {
		t.Errorf("ResolvePath(%q) = %q, want %q", path, got, want)
	}
}
