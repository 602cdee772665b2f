package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"backend-trailblazer/internal/db"
	"backend-trailblazer/internal/record"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps documents as JSONB rows keyed by their full path.
type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(db db.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, collection string, data record.Record) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (path, collection, doc_id, data)
		VALUES ($1,$2,$3,$4::jsonb)
	`, Join(collection, id), collection, id, string(payload))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, doc string, data record.Record) error {
	collection, id := Split(doc)
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (path, collection, doc_id, data)
		VALUES ($1,$2,$3,$4::jsonb)
		ON CONFLICT (path) DO UPDATE SET data=EXCLUDED.data
	`, doc, collection, id, string(payload))
	return err
}

func (s *PostgresStore) Get(ctx context.Context, doc string) (record.Record, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM documents WHERE path=$1`, doc).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodePayload(payload)
}

func (s *PostgresStore) Find(ctx context.Context, collection, field, value string) ([]Document, error) {
	return s.query(ctx, `
		SELECT doc_id, data FROM documents
		WHERE collection=$1 AND data->>$2 = $3
		ORDER BY created_at
	`, collection, field, value)
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	return s.query(ctx, `
		SELECT doc_id, data FROM documents
		WHERE collection=$1
		ORDER BY created_at
	`, collection)
}

func (s *PostgresStore) Delete(ctx context.Context, doc string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM documents WHERE path=$1 OR starts_with(path, $2)
	`, doc, doc+"/")
	return err
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]Document, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collection := args[0].(string)
	var docs []Document
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		data, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Path: Join(collection, id), Data: data})
	}
	return docs, rows.Err()
}

func decodePayload(payload []byte) (record.Record, error) {
	var data record.Record
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}
