// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore provides keyed JSON document collections on top of PostgreSQL.

Each document lives in a named collection under a stable string id. The body is
stored as JSONB so that collections can be searched by partial document match
(the filter `{"country": "ca"}` matches every document whose body contains it).

Supported operations:

  - Find: filter by JSONB containment, ordered by id.
  - Get: single document by id.
  - Upsert: insert-or-overwrite by id; an unchanged body is a no-op.
  - DeleteMany / DeleteExcept: bulk deletion by filter or by retained ids.

Each call is a single statement, so upserts are independent single-document
writes and a concurrent reader never observes a half-written document.
*/
package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/newsbridge/internal/platform/database/schema"
	"github.com/taibuivan/newsbridge/internal/platform/dberr"
)

// DB is the subset of [pgxpool.Pool] used by the store.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Filter is a partial document matched by JSONB containment. A nil or empty
// filter matches every document of the collection.
type Filter map[string]any

// Document is a stored JSON body and its id.
type Document struct {
	ID   string
	Body json.RawMessage
}

// Decode unmarshals the document body into target.
func (d Document) Decode(target any) error {
	if err := json.Unmarshal(d.Body, target); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", d.ID, err)
	}
	return nil
}

// Store implements document collections on a PostgreSQL pool.
type Store struct {
	db DB
}

// New returns a store backed by db.
func New(db DB) *Store {
	return &Store{db: db}
}

var table = schema.ReferenceDocument

/*
Find returns every document of collection whose body contains filter.

Parameters:
  - ctx: context.Context
  - collection: string
  - filter: Filter (nil matches all)

Returns:
  - []Document: Matches ordered by id
  - error: Database execution errors
*/
func (store *Store) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1 AND %s @> $2::jsonb
		ORDER BY %s ASC;
	`,
		table.ID, table.Body,
		table.Table,
		table.Collection, table.Body,
		table.ID,
	)

	encoded, err := encodeFilter(filter)
	if err != nil {
		return nil, err
	}

	rows, err := store.db.Query(ctx, query, collection, encoded)
	if err != nil {
		return nil, dberr.Wrap(err, "find_documents")
	}
	defer rows.Close()

	documents := make([]Document, 0)
	for rows.Next() {
		var document Document
		if err := rows.Scan(&document.ID, &document.Body); err != nil {
			return nil, dberr.Wrap(err, "scan_document")
		}
		documents = append(documents, document)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_documents")
	}

	return documents, nil
}

// Get fetches a single document. A missing id yields [dberr.ErrNotFound].
func (store *Store) Get(ctx context.Context, collection, id string) (*Document, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2;
	`,
		table.ID, table.Body,
		table.Table,
		table.Collection, table.ID,
	)

	document := &Document{}
	if err := store.db.QueryRow(ctx, query, collection, id).Scan(&document.ID, &document.Body); err != nil {
		return nil, dberr.Wrap(err, "get_document")
	}

	return document, nil
}

/*
Upsert inserts or overwrites the document stored under id.

Description: The update branch only fires when the stored body differs, so
re-writing unchanged data leaves the row (and its timestamp) untouched.

Returns:
  - bool: true when a row was inserted or changed
  - error: Encoding or execution failures
*/
func (store *Store) Upsert(ctx context.Context, collection, id string, body any) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s AS existing (%s, %s, %s, %s)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = now()
		WHERE existing.%s IS DISTINCT FROM EXCLUDED.%s;
	`,
		table.Table, table.Collection, table.ID, table.Body, table.UpdatedAt,
		table.Collection, table.ID,
		table.Body, table.Body, table.UpdatedAt,
		table.Body, table.Body,
	)

	encoded, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("docstore: encode %s/%s: %w", collection, id, err)
	}

	tag, err := store.db.Exec(ctx, query, collection, id, string(encoded))
	if err != nil {
		return false, dberr.Wrap(err, "upsert_document")
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteMany removes every document of collection whose body contains filter.
func (store *Store) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s @> $2::jsonb;
	`,
		table.Table,
		table.Collection, table.Body,
	)

	encoded, err := encodeFilter(filter)
	if err != nil {
		return 0, err
	}

	tag, err := store.db.Exec(ctx, query, collection, encoded)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_documents")
	}

	return tag.RowsAffected(), nil
}

// DeleteExcept removes every document of collection whose id is not in keep.
func (store *Store) DeleteExcept(ctx context.Context, collection string, keep []string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND NOT (%s = ANY($2));
	`,
		table.Table,
		table.Collection, table.ID,
	)

	if keep == nil {
		keep = []string{}
	}

	tag, err := store.db.Exec(ctx, query, collection, keep)
	if err != nil {
		return 0, dberr.Wrap(err, "prune_documents")
	}

	return tag.RowsAffected(), nil
}

// Count returns the number of documents in collection.
func (store *Store) Count(ctx context.Context, collection string) (int64, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1;`, table.Table, table.Collection)

	var count int64
	if err := store.db.QueryRow(ctx, query, collection).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_documents")
	}

	return count, nil
}

// encodeFilter renders a filter as a JSONB containment operand.
func encodeFilter(filter Filter) (string, error) {
	if len(filter) == 0 {
		return "{}", nil
	}

	encoded, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("docstore: encode filter: %w", err)
	}

	return string(encoded), nil
}
