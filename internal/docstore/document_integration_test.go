package docstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bridgekit/bridgekit/internal/testutil"
)

func newTestStore(t *testing.T, ctx context.Context) *Store {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	store, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(store.Close)

	if _, err := store.Pool().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			owner_id   TEXT NOT NULL,
			body       TEXT NOT NULL DEFAULT '',
			tags       TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		t.Fatalf("provision documents table: %v", err)
	}

	return store
}

func insertTestDocument(t *testing.T, ctx context.Context, store *Store, collection, ownerID string, tags []string, createdAt time.Time) string {
	t.Helper()

	id := testutil.UniqueID("doc")
	_, err := store.Pool().Exec(ctx, `
		INSERT INTO documents (id, collection, owner_id, body, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, collection, ownerID, "integration test body", tags, createdAt,
	)
	if err != nil {
		t.Fatalf("insert document: %v", err)
	}
	t.Cleanup(func() {
		_, _ = store.Pool().Exec(context.Background(), `DELETE FROM documents WHERE id = $1`, id)
	})
	return id
}

func TestGetAllInCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, ctx)

	collection := testutil.UniqueID("posts")
	base := time.Now().UTC().Truncate(time.Microsecond)

	second := insertTestDocument(t, ctx, store, collection, "u1", []string{"go", "testing"}, base.Add(time.Second))
	first := insertTestDocument(t, ctx, store, collection, "u2", nil, base)
	insertTestDocument(t, ctx, store, testutil.UniqueID("other"), "u1", nil, base)

	docs, err := store.GetAllInCollection(ctx, collection)
	if err != nil {
		t.Fatalf("GetAllInCollection: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("documents = %d, want 2", len(docs))
	}
	if docs[0].ID != first || docs[1].ID != second {
		t.Errorf("order = [%s, %s], want [%s, %s]", docs[0].ID, docs[1].ID, first, second)
	}
	if docs[0].OwnerID != "u2" {
		t.Errorf("OwnerID = %q, want u2", docs[0].OwnerID)
	}
	if docs[0].Collection != collection {
		t.Errorf("Collection = %q, want %q", docs[0].Collection, collection)
	}
	if got := fmt.Sprintf("%v", docs[1].Tags); got != "[go testing]" {
		t.Errorf("Tags = %v", docs[1].Tags)
	}
}

func TestGetAllInCollection_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, ctx)

	docs, err := store.GetAllInCollection(ctx, testutil.UniqueID("missing"))
	if err != nil {
		t.Fatalf("GetAllInCollection: %v", err)
	}
	if docs == nil {
		t.Fatal("documents = nil, want empty slice")
	}
	if len(docs) != 0 {
		t.Errorf("documents = %d, want 0", len(docs))
	}
}
