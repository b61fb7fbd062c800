package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/face-auth/internal/database"
	"github.com/kozaktomas/face-auth/internal/database/sqlstore"
)

func openTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_CreateFindDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	template := []float32{0.25, -0.5, 1}
	created, err := store.Create(ctx, "alice", []byte("verifier"), template)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected store-assigned ID")
	}

	got, err := store.FindByName(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected identity, got nil")
	}
	if got.ID != created.ID {
		t.Errorf("expected ID %d, got %d", created.ID, got.ID)
	}
	if string(got.PasswordVerifier) != "verifier" {
		t.Errorf("unexpected verifier %q", got.PasswordVerifier)
	}
	if len(got.Template) != 3 || got.Template[1] != -0.5 {
		t.Errorf("unexpected template %v", got.Template)
	}

	missing, err := store.FindByName(ctx, "ALICE")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if missing != nil {
		t.Error("expected case-sensitive lookup to miss")
	}

	if err := store.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "alice"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStore_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Create(ctx, "alice", []byte("v1"), nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, "alice", []byte("v2"), []float32{1})
	if !errors.Is(err, database.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	got, _ := store.FindByName(ctx, "alice")
	if string(got.PasswordVerifier) != "v1" {
		t.Error("duplicate insert changed the stored record")
	}
}

func TestStore_ListWithTemplate(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	store.Create(ctx, "alice", []byte("v"), []float32{1, 2})
	store.Create(ctx, "bob", []byte("v"), nil)
	store.Create(ctx, "carol", []byte("v"), []float32{3, 4})

	list, err := store.ListWithTemplate(ctx)
	if err != nil {
		t.Fatalf("ListWithTemplate failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(list))
	}
	if list[0].Name != "alice" || list[1].Name != "carol" {
		t.Errorf("expected alice, carol in ID order, got %s, %s", list[0].Name, list[1].Name)
	}

	count, err := store.CountWithTemplate(ctx)
	if err != nil {
		t.Fatalf("CountWithTemplate failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "faceauth.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Create(ctx, "alice", []byte("v"), []float32{1}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	store.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.FindByName(ctx, "alice")
	if err != nil || got == nil {
		t.Fatalf("expected persisted identity, got %v, %v", got, err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Error("expected error for empty path")
	}
}
