package docstore

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/bridgekit/bridgekit/internal/model"
)

// Reader is the document store contract consumed by the services.
type Reader interface {
	// GetAllInCollection returns a point-in-time snapshot of every
	// document in the named collection. An unknown collection yields
	// an empty slice, not an error.
	GetAllInCollection(ctx context.Context, collection string) ([]model.Document, error)
}

// GetAllInCollection fetches the full document snapshot for a collection
// in a single query.
func (s *Store) GetAllInCollection(ctx context.Context, collection string) ([]model.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, collection, owner_id, body, tags, created_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", collection, err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		var tags []string
		if err := rows.Scan(&doc.ID, &doc.Collection, &doc.OwnerID, &doc.Body, pq.Array(&tags), &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.Tags = tags
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection %q: %w", collection, err)
	}

	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}
