package bundle

import (
	"strings"
	"testing"
)

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("IrisClassifier:20210618124154_B42F09")
	if err != nil {
		t.Fatal(err)
	}
	if tag.Name != "IrisClassifier" || tag.Version != "20210618124154_B42F09" {
		t.Fatal(tag)
	}
	if tag.String() != "IrisClassifier:20210618124154_B42F09" {
		t.Fatal(tag.String())
	}
}

func TestParseTagErrors(t *testing.T) {
	for _, s := range []string{"", "IrisClassifier", "IrisClassifier:", ":latest"} {
		if _, err := ParseTag(s); err == nil {
			t.Fatalf("expected an error parsing %q", s)
		}
	}
}

func TestGenerateVersion(t *testing.T) {
	version := GenerateVersion()
	if !versionPattern.MatchString(version) {
		t.Fatal(version)
	}
	if i := strings.IndexByte(version, '_'); i != 14 {
		t.Fatal(version)
	}
	if version == GenerateVersion() {
		t.Fatal("versions must not collide")
	}
}
