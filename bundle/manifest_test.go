package bundle

import (
	"strings"
	"testing"
	"time"
)

func testManifest() *Manifest {
	return &Manifest{
		Name:      "IrisClassifier",
		Version:   "20210618124154_B42F09",
		CreatedAt: time.Date(2021, 6, 18, 12, 41, 54, 0, time.UTC),
		Labels:    map[string]string{"stage": "dev"},
		Env:       Env{BaseImage: DefaultBaseImage, Port: 8080},
		APIs: []API{{
			Name:    "predict",
			Route:   "/predict",
			Methods: []string{"POST"},
			Doc:     "classify a flower",
		}},
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dirname := t.TempDir()
	if err := testManifest().Write(dirname); err != nil {
		t.Fatal(err)
	}
	m, err := ReadManifest(dirname)
	if err != nil {
		t.Fatal(err)
	}
	if m.Tag().String() != "IrisClassifier:20210618124154_B42F09" {
		t.Fatal(m.Tag())
	}
	if m.Labels["stage"] != "dev" || m.Env.Port != 8080 || len(m.APIs) != 1 {
		t.Fatalf("%+v", m)
	}
}

func TestManifestValidate(t *testing.T) {
	m := testManifest()
	m.Name = "1-bad-name"
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error")
	}

	m = testManifest()
	m.Version = "no spaces allowed"
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestValidateLabels(t *testing.T) {
	if err := ValidateLabels(map[string]string{
		"stage":   "dev",
		"ci":      "failed",
		"release": "v1.2.3",
		"empty":   "",
	}); err != nil {
		t.Fatal(err)
	}
	for _, labels := range []map[string]string{
		{"-leading-dash": "x"},
		{"trailing.": "x"},
		{"ok": "-leading-dash"},
		{strings.Repeat("k", 64): "x"},
		{"ok": strings.Repeat("v", 64)},
	} {
		if err := ValidateLabels(labels); err == nil {
			t.Fatalf("expected an error for %v", labels)
		}
	}
}
