package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func Exists(pathname string) bool {
	_, err := os.Stat(pathname)
	return err == nil
}

func IsDir(pathname string) bool {
	fi, err := os.Stat(pathname)
	return err == nil && fi.IsDir()
}

// PathnameInParents searches the current working directory and each of its
// parents for pathname. It returns the closest relative pathname in which the
// given filename exists or an error if filename doesn't exist in any parent.
func PathnameInParents(filename string) (string, error) {
	pathname := filename
	for {
		if Exists(pathname) {
			return pathname, nil
		}
		pathname = filepath.Join("..", pathname)
		if dirname, err := filepath.Abs(filepath.Dir(pathname)); err != nil {
			return "", err
		} else if dirname == "/" {
			break
		}
	}
	return "", fs.ErrNotExist
}

func ReadFile(pathname string) ([]byte, error) {
	return os.ReadFile(pathname)
}

// Tidy removes newline-like characters from either end of a []byte and
// returns the middle as a string.
func Tidy(b []byte) string {
	return strings.Trim(strings.Replace(string(b), "\r", "\n", -1), "\n")
}

func ToLines(b []byte) []string {
	return strings.Split(Tidy(b), "\n")
}
