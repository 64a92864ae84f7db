package bundle

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Archive writes the bundle directory as a gzipped tarball. Entries are
// sorted and timestamps zeroed so the same bundle always produces the same
// bytes.
func Archive(dirname string, w io.Writer) error {
	var pathnames []string
	if err := filepath.WalkDir(dirname, func(pathname string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			pathnames = append(pathnames, pathname)
		}
		return nil
	}); err != nil {
		return err
	}
	sort.Strings(pathnames)

	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)
	for _, pathname := range pathnames {
		rel, err := filepath.Rel(dirname, pathname)
		if err != nil {
			return err
		}
		fi, err := os.Stat(pathname)
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(&tar.Header{
			Mode: int64(fi.Mode().Perm()),
			Name: filepath.ToSlash(rel),
			Size: fi.Size(),
		}); err != nil {
			return err
		}
		f, err := os.Open(pathname)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gw.Close()
}

// Extract unpacks an archive into a directory that must not already exist.
// Absolute names and names that climb out of the target are refused.
func Extract(r io.Reader, dirname string) error {
	if _, err := os.Stat(dirname); err == nil {
		return fmt.Errorf("%s already exists", dirname)
	}
	if err := os.MkdirAll(dirname, 0777); err != nil {
		return err
	}

	gr, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	tr := tar.NewReader(gr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		name := header.Name
		if filepath.IsAbs(name) || !filepath.IsLocal(filepath.Clean(name)) {
			return fmt.Errorf("archive entry %q escapes the target directory", name)
		}
		pathname := filepath.Join(dirname, filepath.FromSlash(name))
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(pathname, 0777); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(pathname), 0777); err != nil {
				return err
			}
			f, err := os.OpenFile(
				pathname,
				os.O_CREATE|os.O_EXCL|os.O_WRONLY,
				os.FileMode(header.Mode).Perm(),
			)
			if err != nil {
				return err
			}
			_, err = io.Copy(f, tr)
			if err2 := f.Close(); err == nil {
				err = err2
			}
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf(
				"archive entry %q has unsupported type %c",
				name,
				header.Typeflag,
			)
		}
	}
	return gr.Close()
}

// ArchiveFilename is the conventional object and file name for a bundle's
// archive.
func ArchiveFilename(t Tag) string {
	return fmt.Sprintf("%s-%s.tar.gz", t.Name, t.Version)
}
