package staticpress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "build.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreApplyAndEntries(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	at := fixedClock()

	err := s.Apply(ctx, []ManifestEntry{
		{Path: "index.html", Checksum: "aaa", Route: "/", BuiltAt: at},
		{Path: "feed.xml", Checksum: "bbb", BuiltAt: at},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	got := entries["index.html"]
	if got.Checksum != "aaa" || got.Route != "/" || !got.BuiltAt.Equal(at) {
		t.Errorf("index.html entry = %+v", got)
	}

	// Upsert one, remove the other.
	if err := s.Apply(ctx, []ManifestEntry{{Path: "index.html", Checksum: "ccc", Route: "/", BuiltAt: at}}, []string{"feed.xml"}); err != nil {
		t.Fatal(err)
	}
	e, err := s.Entry(ctx, "index.html")
	if err != nil {
		t.Fatal(err)
	}
	if e.Checksum != "ccc" {
		t.Errorf("checksum = %q, want ccc", e.Checksum)
	}
	if _, err := s.Entry(ctx, "feed.xml"); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed entry error = %v, want ErrNotFound", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	entries, _ = s.Entries(ctx)
	if len(entries) != 0 {
		t.Errorf("entries after reset = %d", len(entries))
	}
}

func TestStoreBuilds(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.LastBuild(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LastBuild on empty store = %v, want ErrNotFound", err)
	}

	for i, posts := range []int{3, 5} {
		id, err := s.RecordBuild(ctx, BuildRecord{
			Started:  fixedClock().Add(time.Duration(i) * time.Hour),
			Duration: 1500 * time.Millisecond,
			Posts:    posts,
			Invalid:  1,
			Written:  10,
			Skipped:  2,
			Removed:  i,
		})
		if err != nil {
			t.Fatal(err)
		}
		if id != int64(i+1) {
			t.Errorf("build id = %d, want %d", id, i+1)
		}
	}

	last, err := s.LastBuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last.Posts != 5 || last.Removed != 1 || last.Duration != 1500*time.Millisecond {
		t.Errorf("last build = %+v", last)
	}
	if !last.Started.Equal(fixedClock().Add(time.Hour)) {
		t.Errorf("started = %v", last.Started)
	}
}
