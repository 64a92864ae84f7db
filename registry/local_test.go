package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bundlekit/bundlekit/bundle"
)

func testRecord(name, version string, age time.Duration, labels map[string]string) *Record {
	return &Record{
		Name:      name,
		Version:   version,
		CreatedAt: time.Now().UTC().Add(-age),
		Labels:    labels,
	}
}

func testLocalStore(t *testing.T) *LocalStore {
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "repository"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLocalStoreAddGetDelete(t *testing.T) {
	ctx := context.Background()
	s := testLocalStore(t)

	r := testRecord("IrisClassifier", "1", 0, map[string]string{"stage": "dev"})
	if err := s.Add(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, r); err == nil {
		t.Fatal("expected an error registering the same tag twice")
	}

	got, err := s.Get(ctx, bundle.Tag{Name: "IrisClassifier", Version: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Labels["stage"] != "dev" {
		t.Fatalf("%+v", got)
	}

	if err := s.Delete(ctx, got.Tag()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, got.Tag()); err == nil {
		t.Fatal("expected an error deleting a missing tag")
	}
	if _, err := s.Get(ctx, got.Tag()); err == nil {
		t.Fatal("expected an error getting a deleted tag")
	}
}

func TestLocalStoreLatest(t *testing.T) {
	ctx := context.Background()
	s := testLocalStore(t)

	for version, age := range map[string]time.Duration{
		"old":    48 * time.Hour,
		"middle": 24 * time.Hour,
		"new":    time.Hour,
	} {
		if err := s.Add(ctx, testRecord("IrisClassifier", version, age, nil)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Get(ctx, bundle.Tag{Name: "IrisClassifier", Version: bundle.Latest})
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != "new" {
		t.Fatal(got.Version)
	}
}

func TestLocalStoreList(t *testing.T) {
	ctx := context.Background()
	s := testLocalStore(t)

	for i, r := range []*Record{
		testRecord("IrisClassifier", "1", 3*time.Hour, map[string]string{"stage": "dev"}),
		testRecord("IrisClassifier", "2", 2*time.Hour, map[string]string{"stage": "prod"}),
		testRecord("FraudDetector", "1", time.Hour, map[string]string{"stage": "dev"}),
	} {
		if err := s.Add(ctx, r); err != nil {
			t.Fatalf("%d: %s", i, err)
		}
	}

	records, err := s.List(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 || records[0].Name != "FraudDetector" {
		t.Fatalf("%+v", records)
	}

	records, err = s.List(ctx, Query{Name: "IrisClassifier", Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Version != "1" {
		t.Fatalf("%+v", records)
	}

	records, err = s.List(ctx, Query{LabelSelector: map[string]string{"stage": "dev"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("%+v", records)
	}

	records, err = s.List(ctx, Query{Offset: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("%+v", records)
	}
	if records, err = s.List(ctx, Query{Offset: 10}); err != nil || len(records) != 0 {
		t.Fatalf("%+v %v", records, err)
	}
}

func TestLocalStoreTransfer(t *testing.T) {
	ctx := context.Background()
	src, dst := testLocalStore(t), testLocalStore(t)

	m := &bundle.Manifest{
		Name:    "IrisClassifier",
		Version: "1",
		Env:     bundle.Env{Port: 8080},
	}
	dirname := filepath.Join(t.TempDir(), "IrisClassifier")
	if err := bundle.Scaffold(m, dirname); err != nil {
		t.Fatal(err)
	}

	r := testRecord("IrisClassifier", "1", 0, map[string]string{"stage": "dev"})
	if err := src.Add(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := src.Upload(ctx, r.Tag(), dirname); err != nil {
		t.Fatal(err)
	}

	copied, err := Transfer(ctx, src, dst, r.Tag(), true)
	if err != nil {
		t.Fatal(err)
	}
	if copied.Labels["stage"] != "dev" {
		t.Fatalf("%+v", copied)
	}

	out := filepath.Join(t.TempDir(), "out")
	if err := dst.Download(ctx, copied.Tag(), out); err != nil {
		t.Fatal(err)
	}
	if _, err := bundle.LoadFromDir(out); err != nil {
		t.Fatal(err)
	}
}

func TestTransferFailureUnregisters(t *testing.T) {
	ctx := context.Background()
	src, dst := testLocalStore(t), testLocalStore(t)

	// Registered but never uploaded, so Download has nothing to hand over.
	r := testRecord("IrisClassifier", "1", 0, nil)
	if err := src.Add(ctx, r); err != nil {
		t.Fatal(err)
	}

	if _, err := Transfer(ctx, src, dst, r.Tag(), true); err == nil {
		t.Fatal("expected an error transferring a bundle with no content")
	}
	if _, err := dst.Get(ctx, r.Tag()); err == nil {
		t.Fatal("expected the failed transfer to leave no record in dst")
	}

	// And the transfer can be retried once the content exists.
	m := &bundle.Manifest{
		Name:    "IrisClassifier",
		Version: "1",
		Env:     bundle.Env{Port: 8080},
	}
	dirname := filepath.Join(t.TempDir(), "IrisClassifier")
	if err := bundle.Scaffold(m, dirname); err != nil {
		t.Fatal(err)
	}
	if err := src.Upload(ctx, r.Tag(), dirname); err != nil {
		t.Fatal(err)
	}
	if _, err := Transfer(ctx, src, dst, r.Tag(), true); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteMany(t *testing.T) {
	ctx := context.Background()
	s := testLocalStore(t)

	for i := 0; i < 3; i++ {
		if err := s.Add(ctx, testRecord(
			"IrisClassifier",
			bundle.GenerateVersion(),
			time.Duration(i)*time.Hour,
			nil,
		)); err != nil {
			t.Fatal(err)
		}
	}

	skipped := true
	deleted, err := DeleteMany(ctx, s, Query{}, func(r *Record) (bool, error) {
		if skipped {
			skipped = false
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Fatal(deleted)
	}
	records, err := s.List(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("%+v", records)
	}
}
