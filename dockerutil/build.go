package dockerutil

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bundlekit/bundlekit/fileutil"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/jsonmessage"
)

// BuildImage builds the directory's Dockerfile into an image with the given
// tag, streaming daemon output to w.
func (c *Client) BuildImage(
	ctx context.Context,
	dirname, tag string,
	buildArgs map[string]*string,
	w io.Writer,
) error {
	if err := ValidateTag(tag); err != nil {
		return err
	}
	buildContext, err := buildContext(dirname)
	if err != nil {
		return err
	}

	resp, err := c.inner.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		BuildArgs:  buildArgs,
		Dockerfile: "Dockerfile",
		Remove:     true,
		Tags:       []string{tag},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The build's real outcome is buried in the JSON message stream; an
	// error here is a build failure even though ImageBuild succeeded.
	return jsonmessage.DisplayJSONMessagesStream(resp.Body, w, 0, false, nil)
}

func (c *Client) TagImage(ctx context.Context, source, target string) error {
	if err := ValidateTag(target); err != nil {
		return err
	}
	return c.inner.ImageTag(ctx, source, target)
}

// buildContext tars the directory for the daemon, honoring top-level
// .dockerignore patterns the simple way: exact names and "*"-suffixed
// prefixes.
func buildContext(dirname string) (io.Reader, error) {
	var ignore []string
	if b, err := fileutil.ReadFile(filepath.Join(dirname, ".dockerignore")); err == nil {
		ignore = fileutil.ToLines(b)
	}

	buf := &bytes.Buffer{}
	tw := tar.NewWriter(buf)
	if err := filepath.WalkDir(dirname, func(pathname string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dirname, pathname)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if ignored(rel, ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
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
		return err
	}); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func ignored(rel string, patterns []string) bool {
	name := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
			if strings.HasSuffix(name, suffix) {
				return true
			}
		} else if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(name, prefix) || strings.HasPrefix(filepath.Base(name), prefix) {
				return true
			}
		} else if name == pattern || filepath.Base(name) == pattern {
			return true
		}
	}
	return false
}
