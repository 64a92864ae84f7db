package registry

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/fileutil"
	"github.com/bundlekit/bundlekit/jsonutil"
)

const recordFilename = "record.json"

// LocalStore keeps bundles in
// <root>/<name>/<version>/{record.json,content/}.
type LocalStore struct {
	Root string
}

// DefaultLocalRoot is ~/.bundlekit/repository.
func DefaultLocalRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bundlekit", "repository"), nil
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		var err error
		if root, err = DefaultLocalRoot(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(root, 0777); err != nil {
		return nil, err
	}
	return &LocalStore{Root: root}, nil
}

func (s *LocalStore) Add(_ context.Context, r *Record) error {
	dirname := s.dirname(r.Tag())
	if fileutil.Exists(filepath.Join(dirname, recordFilename)) {
		return alreadyRegistered(r.Tag())
	}
	if err := os.MkdirAll(dirname, 0777); err != nil {
		return err
	}
	return jsonutil.Write(r, filepath.Join(dirname, recordFilename))
}

func (s *LocalStore) Delete(_ context.Context, tag bundle.Tag) error {
	dirname := s.dirname(tag)
	if !fileutil.Exists(filepath.Join(dirname, recordFilename)) {
		return notFound(tag)
	}
	if err := os.RemoveAll(dirname); err != nil {
		return err
	}

	// Tidy up the name directory if this was its last version.
	entries, err := os.ReadDir(filepath.Dir(dirname))
	if err == nil && len(entries) == 0 {
		return os.Remove(filepath.Dir(dirname))
	}
	return nil
}

func (s *LocalStore) Download(_ context.Context, tag bundle.Tag, dirname string) error {
	content := filepath.Join(s.dirname(tag), "content")
	if !fileutil.IsDir(content) {
		return notFound(tag)
	}
	return fileutil.CopyTree(dirname, content)
}

func (s *LocalStore) Get(ctx context.Context, tag bundle.Tag) (*Record, error) {
	if tag.Version == bundle.Latest {
		records, err := s.List(ctx, Query{Name: tag.Name})
		if err != nil {
			return nil, err
		}
		if r := latest(records); r != nil {
			return r, nil
		}
		return nil, notFound(tag)
	}
	r := &Record{}
	if err := jsonutil.Read(
		filepath.Join(s.dirname(tag), recordFilename),
		r,
	); errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(tag)
	} else if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *LocalStore) List(_ context.Context, q Query) ([]*Record, error) {
	names, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}
	var records []*Record
	for _, name := range names {
		if !name.IsDir() {
			continue
		}
		versions, err := os.ReadDir(filepath.Join(s.Root, name.Name()))
		if err != nil {
			return nil, err
		}
		for _, version := range versions {
			if !version.IsDir() {
				continue
			}
			r := &Record{}
			if err := jsonutil.Read(filepath.Join(
				s.Root,
				name.Name(),
				version.Name(),
				recordFilename,
			), r); err != nil {
				return nil, err
			}
			if matches(r, q) {
				records = append(records, r)
			}
		}
	}
	return page(records, q), nil
}

func (s *LocalStore) Upload(_ context.Context, tag bundle.Tag, dirname string) error {
	return fileutil.CopyTree(filepath.Join(s.dirname(tag), "content"), dirname)
}

func (s *LocalStore) dirname(tag bundle.Tag) string {
	return filepath.Join(s.Root, tag.Name, tag.Version)
}
