// Package registry implements bundle repositories: a local filesystem store
// and a remote store backed by S3 archives with a DynamoDB index.
package registry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bundlekit/bundlekit/bundle"
)

// Upload statuses recorded alongside remote bundles.
const (
	UploadStatusUploading = "UPLOADING"
	UploadStatusDone      = "DONE"
	UploadStatusError     = "ERROR"
)

// Record is a registered bundle version.
type Record struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
	Labels       map[string]string `json:"labels,omitempty"`
	UploadStatus string            `json:"upload_status,omitempty"`
}

func (r *Record) Tag() bundle.Tag {
	return bundle.Tag{Name: r.Name, Version: r.Version}
}

// Query selects records from a store. A zero Query selects everything.
type Query struct {
	Name          string            // exact bundle name
	LabelSelector map[string]string // every pair must match
	Offset, Limit int               // applied after sorting
	Ascending     bool              // oldest first instead of newest first
}

type Store interface {

	// Add registers a bundle version. Registering a tag that already
	// exists is an error.
	Add(context.Context, *Record) error

	// Get finds a record by tag, resolving the version "latest" to the
	// most recently created version of the name.
	Get(context.Context, bundle.Tag) (*Record, error)

	// List returns records matching the query, newest first unless the
	// query says otherwise.
	List(context.Context, Query) ([]*Record, error)

	// Delete removes a record and its archived content. Deleting a tag
	// that doesn't exist is an error.
	Delete(context.Context, bundle.Tag) error

	// Upload stores the bundle directory's content under the tag.
	Upload(context.Context, bundle.Tag, string) error

	// Download materializes the tag's content into a directory that must
	// not already exist.
	Download(context.Context, bundle.Tag, string) error
}

func alreadyRegistered(tag bundle.Tag) error {
	return fmt.Errorf(
		"%s is already registered; bump the version or delete the existing bundle first",
		tag,
	)
}

func notFound(tag bundle.Tag) error {
	return fmt.Errorf("%s is not in the repository", tag)
}

// matches reports whether a record satisfies the query's name and label
// constraints. Offset and Limit are the caller's problem.
func matches(r *Record, q Query) bool {
	if q.Name != "" && r.Name != q.Name {
		return false
	}
	for key, value := range q.LabelSelector {
		if r.Labels[key] != value {
			return false
		}
	}
	return true
}

// page sorts by creation time and applies the query's offset and limit. An
// offset beyond the end returns an empty slice.
func page(records []*Record, q Query) []*Record {
	sort.Slice(records, func(i, j int) bool {
		if q.Ascending {
			i, j = j, i
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if q.Offset >= len(records) {
		return nil
	}
	records = records[q.Offset:]
	if q.Limit > 0 && q.Limit < len(records) {
		records = records[:q.Limit]
	}
	return records
}

// latest picks the most recently created record, which is how the version
// "latest" resolves.
func latest(records []*Record) *Record {
	var newest *Record
	for _, r := range records {
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	return newest
}
