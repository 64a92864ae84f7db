package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyTree recursively copies the directory at src to dst, which must not
// already exist. File modes are preserved; symbolic links are not followed.
func CopyTree(dst, src string) error {
	if Exists(dst) {
		return fs.ErrExist
	}
	return filepath.Walk(src, func(pathname string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, pathname)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return os.MkdirAll(target, fi.Mode().Perm())
		}
		if !fi.Mode().IsRegular() {
			return nil // skip sockets, devices, and symbolic links
		}
		return copyFile(target, pathname, fi.Mode().Perm())
	})
}

func copyFile(dst, src string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
