package bundle

import (
	"fmt"
	"strings"
	"time"

	"github.com/bundlekit/bundlekit/randutil"
)

// Latest is the pseudo-version that resolves to a bundle's most recently
// created version.
const Latest = "latest"

type Tag struct {
	Name, Version string
}

// ParseTag splits "NAME:VERSION". The colon is required; resolving a bare
// name is a repository concern, not a parsing one.
func ParseTag(s string) (Tag, error) {
	name, version, ok := strings.Cut(s, ":")
	if !ok || name == "" || version == "" {
		return Tag{}, fmt.Errorf("tag %q must take the form NAME:VERSION", s)
	}
	return Tag{Name: name, Version: version}, nil
}

func (t Tag) String() string {
	return fmt.Sprintf("%s:%s", t.Name, t.Version)
}

// GenerateVersion produces a sortable UTC timestamp with a random suffix
// for bundles saved without an explicit version.
func GenerateVersion() string {
	return fmt.Sprintf(
		"%s_%s",
		time.Now().UTC().Format("20060102150405"),
		randutil.Suffix(),
	)
}
