package docstore

import (
	"context"
	"testing"

	"github.com/mapscript/mapscript/pkg/errors"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	src := "Title: Infra\nA:: Web\nB:: DB\nA -> B\n"
	if err := s.Save(ctx, Document{Name: "infra", Source: src}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, err := s.Load(ctx, "infra")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Source != src {
		t.Errorf("Source = %q, want %q", doc.Source, src)
	}
	if doc.Name != "infra" {
		t.Errorf("Name = %q, want infra", doc.Name)
	}
	if doc.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	_, err = s.Load(ctx, "absent")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load missing: error = %v, want NOT_FOUND", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(ctx, Document{Name: name, Source: "A:: X\n"}); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("List returned %d documents, want 3", len(docs))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, doc := range docs {
		if doc.Name != want[i] {
			t.Errorf("docs[%d].Name = %q, want %q", i, doc.Name, want[i])
		}
		if doc.Source != "" {
			t.Errorf("List should omit Source, got %q", doc.Source)
		}
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	if err := s.Save(ctx, Document{Name: "gone", Source: "A:: X\n"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "gone"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load after Delete: error = %v, want NOT_FOUND", err)
	}

	// Deleting an absent document is fine.
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestFileStoreRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Save(ctx, Document{Name: name, Source: "x"}); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
		if _, err := s.Load(ctx, name); err == nil {
			t.Errorf("Load(%q) should fail", name)
		}
	}
}
