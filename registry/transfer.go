package registry

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bundlekit/bundlekit/bundle"
	"github.com/bundlekit/bundlekit/ui"
)

// pageSize bounds how many records a bulk operation holds at once.
const pageSize = 50

// Transfer copies one bundle from src to dst: register the record, then
// move the content through a scratch directory. Labels are carried along
// unless withLabels is false.
func Transfer(
	ctx context.Context,
	src, dst Store,
	tag bundle.Tag,
	withLabels bool,
) (*Record, error) {
	r, err := src.Get(ctx, tag)
	if err != nil {
		return nil, err
	}

	copied := &Record{
		Name:      r.Name,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
	}
	if withLabels {
		copied.Labels = r.Labels
	}
	if err := dst.Add(ctx, copied); err != nil {
		return nil, err
	}
	if err := copyContent(ctx, src, dst, r.Tag(), copied.Tag()); err != nil {

		// Take the record back out so a retry doesn't trip over a
		// registered bundle with no content behind it.
		if err := dst.Delete(ctx, copied.Tag()); err != nil {
			ui.Printf("failed to unregister %s after a failed transfer: %s", copied.Tag(), err)
		}

		return nil, err
	}
	return copied, nil
}

func copyContent(ctx context.Context, src, dst Store, from, to bundle.Tag) error {
	scratch, err := os.MkdirTemp("", "bundlekit-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)
	dirname := filepath.Join(scratch, "content")
	if err := src.Download(ctx, from, dirname); err != nil {
		return err
	}
	return dst.Upload(ctx, to, dirname)
}

// DeleteMany deletes every record matching the query, paging through the
// store and calling confirm before each delete. A failed delete is printed
// and skipped so one stuck bundle doesn't strand the rest. It returns how
// many records it deleted.
func DeleteMany(
	ctx context.Context,
	store Store,
	q Query,
	confirm func(*Record) (bool, error),
) (int, error) {
	q.Limit = pageSize
	deleted := 0
	for {
		records, err := store.List(ctx, q)
		if err != nil {
			return deleted, err
		}
		if len(records) == 0 {
			return deleted, nil
		}
		for _, r := range records {
			if confirm != nil {
				ok, err := confirm(r)
				if err != nil {
					return deleted, err
				}
				if !ok {
					q.Offset++ // skip past it on the next page
					continue
				}
			}
			if err := store.Delete(ctx, r.Tag()); err != nil {
				ui.Printf("failed to delete %s: %s", r.Tag(), err)
				q.Offset++
				continue
			}
			deleted++
		}
	}
}
