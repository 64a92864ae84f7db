package bundle

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	if err := Scaffold(testManifest(), src); err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	if err := Archive(src, buf); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "dst")
	if err := Extract(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(dst, ManifestFilename))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("IrisClassifier")) {
		t.Fatal(string(b))
	}

	if err := Extract(bytes.NewReader(buf.Bytes()), dst); err == nil {
		t.Fatal("expected an error extracting over an existing directory")
	}
}

func TestArchiveDeterministic(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	if err := Scaffold(testManifest(), src); err != nil {
		t.Fatal(err)
	}
	one, two := &bytes.Buffer{}, &bytes.Buffer{}
	if err := Archive(src, one); err != nil {
		t.Fatal(err)
	}
	if err := Archive(src, two); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(one.Bytes(), two.Bytes()) {
		t.Fatal("archives of the same directory differ")
	}
}

func TestExtractRefusesTraversal(t *testing.T) {
	for _, name := range []string{"../escape", "/etc/escape", "a/../../escape"} {
		buf := &bytes.Buffer{}
		gw := gzip.NewWriter(buf)
		tw := tar.NewWriter(gw)
		if err := tw.WriteHeader(&tar.Header{
			Mode: 0644,
			Name: name,
			Size: 0,
		}); err != nil {
			t.Fatal(err)
		}
		if err := tw.Close(); err != nil {
			t.Fatal(err)
		}
		if err := gw.Close(); err != nil {
			t.Fatal(err)
		}

		dst := filepath.Join(t.TempDir(), "dst")
		if err := Extract(bytes.NewReader(buf.Bytes()), dst); err == nil {
			t.Fatalf("expected an error extracting %q", name)
		}
	}
}
