package bundle

import (
	"fmt"
	"os"
)

// Bundle is a directory with a valid manifest at its root.
type Bundle struct {
	Dir      string
	Manifest *Manifest
}

func LoadFromDir(dirname string) (*Bundle, error) {
	fi, err := os.Stat(dirname)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dirname)
	}
	m, err := ReadManifest(dirname)
	if err != nil {
		return nil, err
	}
	return &Bundle{Dir: dirname, Manifest: m}, nil
}

func (b *Bundle) Tag() Tag {
	return b.Manifest.Tag()
}
