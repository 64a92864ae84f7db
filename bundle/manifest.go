// Package bundle models versioned service bundles: their manifests,
// archives, and generated scaffolding.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const ManifestFilename = "bundle.yml"

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	versionPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	labelPattern   = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
)

type Manifest struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	CreatedAt time.Time         `yaml:"created_at"`
	Labels    map[string]string `yaml:"labels,omitempty"`
	Env       Env               `yaml:"env"`
	APIs      []API             `yaml:"apis,omitempty"`
}

type Env struct {
	BaseImage string `yaml:"base_image"`
	Port      int    `yaml:"port"`
}

type API struct {
	Name    string   `yaml:"name"`
	Route   string   `yaml:"route"`
	Methods []string `yaml:"methods,omitempty"`
	Doc     string   `yaml:"doc,omitempty"`
}

func ReadManifest(dirname string) (*Manifest, error) {
	buf, err := os.ReadFile(filepath.Join(dirname, ManifestFilename))
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(buf, m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) Tag() Tag {
	return Tag{Name: m.Name, Version: m.Version}
}

func (m *Manifest) Validate() error {
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf(
			"bundle name %q must begin with a letter and contain only letters, numbers, and underscores",
			m.Name,
		)
	}
	if !versionPattern.MatchString(m.Version) {
		return fmt.Errorf(
			"bundle version %q may contain only letters, numbers, dots, underscores, and dashes",
			m.Version,
		)
	}
	return ValidateLabels(m.Labels)
}

func (m *Manifest) Write(dirname string) error {
	buf, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dirname, ManifestFilename), buf, 0666)
}

// ValidateLabels enforces Kubernetes-style label rules: 63 characters or
// fewer, beginning and ending with an alphanumeric.
func ValidateLabels(labels map[string]string) error {
	for key, value := range labels {
		if len(key) > 63 || !labelPattern.MatchString(key) {
			return fmt.Errorf("invalid label key %q", key)
		}
		if value != "" && (len(value) > 63 || !labelPattern.MatchString(value)) {
			return fmt.Errorf("invalid label value %q for key %q", value, key)
		}
	}
	return nil
}
