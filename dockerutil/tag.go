package dockerutil

import (
	"fmt"
	"strings"

	"github.com/bundlekit/bundlekit/bundle"
	"github.com/google/go-containerregistry/pkg/name"
)

// ValidateTag rejects image tags the registry would refuse, with the
// registry library's explanation attached.
func ValidateTag(tag string) error {
	if _, err := name.NewTag(tag); err != nil {
		return fmt.Errorf("invalid image tag %q: %w", tag, err)
	}
	return nil
}

// DefaultImageTag derives an image tag from a bundle tag. Image references
// must be lower case, bundle names need not be.
func DefaultImageTag(tag bundle.Tag) string {
	return strings.ToLower(fmt.Sprintf("%s:%s", tag.Name, tag.Version))
}

// ParseBuildArgs turns repeated "key=value" flags into docker build args.
func ParseBuildArgs(args []string) (map[string]*string, error) {
	buildArgs := make(map[string]*string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("build arg %q must take the form key=value", arg)
		}
		v := value
		buildArgs[key] = &v
	}
	return buildArgs, nil
}
