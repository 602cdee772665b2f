// Package docstore is the document database the app's profiles and favorites
// live in. Documents are addressed by slash-separated paths of alternating
// collection and document ids, e.g. "trails/{uid}/trailData/{autoId}".
package docstore

import (
	"context"
	"errors"
	"strings"

	"backend-trailblazer/internal/record"
)

var ErrNotFound = errors.New("document not found")

const (
	CollectionUserInfo  = "userInfo"
	CollectionTrails    = "trails"
	CollectionTrailData = "trailData"
)

type Document struct {
	ID   string        `json:"id"`
	Path string        `json:"path"`
	Data record.Record `json:"data"`
}

// Store is implemented by PostgresStore, FirestoreStore and MemoryStore.
type Store interface {
	// Add appends a document with a generated id to collection.
	Add(ctx context.Context, collection string, data record.Record) (string, error)
	// Set creates or replaces the document at doc.
	Set(ctx context.Context, doc string, data record.Record) error
	Get(ctx context.Context, doc string) (record.Record, error)
	// Find returns the documents of collection whose field equals value.
	Find(ctx context.Context, collection, field, value string) ([]Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	// Delete removes doc together with every document nested under it.
	Delete(ctx context.Context, doc string) error
}

func UserInfoDoc(userID string) string {
	return Join(CollectionUserInfo, userID)
}

func TrailsDoc(userID string) string {
	return Join(CollectionTrails, userID)
}

func TrailDataCollection(userID string) string {
	return Join(CollectionTrails, userID, CollectionTrailData)
}

func Join(parts ...string) string {
	return strings.Join(parts, "/")
}

// Split returns the parent collection path and the document id of doc.
func Split(doc string) (collection, id string) {
	i := strings.LastIndex(doc, "/")
	if i < 0 {
		return "", doc
	}
	return doc[:i], doc[i+1:]
}
