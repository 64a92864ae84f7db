package bundle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScaffold(t *testing.T) {
	dirname := filepath.Join(t.TempDir(), "IrisClassifier")
	if err := Scaffold(testManifest(), dirname); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(dirname, "Dockerfile"))
	if err != nil {
		t.Fatal(err)
	}
	dockerfile := string(b)
	if !strings.Contains(dockerfile, "FROM "+DefaultBaseImage) {
		t.Fatal(dockerfile)
	}
	if !strings.Contains(dockerfile, "EXPOSE 8080") {
		t.Fatal(dockerfile)
	}

	b, err = os.ReadFile(filepath.Join(dirname, "app.py"))
	if err != nil {
		t.Fatal(err)
	}
	entrypoint := string(b)
	for _, s := range []string{
		`path="/predict"`,
		"endpoint=predict",
		`methods=["POST"]`,
		"port=8080",
	} {
		if !strings.Contains(entrypoint, s) {
			t.Fatalf("missing %q in %s", s, entrypoint)
		}
	}

	if _, err := LoadFromDir(dirname); err != nil {
		t.Fatal(err)
	}

	if err := Scaffold(testManifest(), dirname); err == nil {
		t.Fatal("expected an error scaffolding over existing files")
	}
}

func TestScaffoldGeneratesVersion(t *testing.T) {
	m := testManifest()
	m.Version = ""
	dirname := filepath.Join(t.TempDir(), "IrisClassifier")
	if err := Scaffold(m, dirname); err != nil {
		t.Fatal(err)
	}
	if m.Version == "" || !versionPattern.MatchString(m.Version) {
		t.Fatal(m.Version)
	}
}
