package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "artifacts"), 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "bundle.yml"), []byte("name: test\n"), 0666); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "artifacts", "model.bin"), []byte{0, 1, 2}, 0666); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "copy")
	if err := CopyTree(dst, src); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dst, "artifacts", "model.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{0, 1, 2}) {
		t.Fatalf("%#v", b)
	}

	// dst must not already exist
	if err := CopyTree(dst, src); err == nil {
		t.Fatal("expected an error copying over an existing directory")
	}
}

func TestToLines(t *testing.T) {
	lines := ToLines([]byte("*.pyc\n\n__pycache__/\n"))
	if len(lines) != 3 || lines[0] != "*.pyc" || lines[1] != "" || lines[2] != "__pycache__/" {
		t.Fatalf("%#v", lines)
	}
}

func TestPathnameInParents(t *testing.T) {
	if pathname, err := PathnameInParents("file_test.go"); err != nil || pathname != "file_test.go" {
		t.Error(pathname, err)
	}
	if pathname, err := PathnameInParents("go.mod"); err != nil || pathname != "../go.mod" {
		t.Error(pathname, err)
	}
}
