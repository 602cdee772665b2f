package docstore

import (
	"context"

	"backend-trailblazer/internal/record"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore maps paths one to one onto Firestore collections and
// documents.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data record.Record) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, map[string]any(data))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, doc string, data record.Record) error {
	_, err := s.client.Doc(doc).Set(ctx, map[string]any(data))
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, doc string) (record.Record, error) {
	snap, err := s.client.Doc(doc).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Record(snap.Data()), nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection, field, value string) ([]Document, error) {
	return collect(collection, s.client.Collection(collection).Where(field, "==", value).Documents(ctx))
}

func (s *FirestoreStore) List(ctx context.Context, collection string) ([]Document, error) {
	return collect(collection, s.client.Collection(collection).Documents(ctx))
}

// Delete walks subcollections first; Firestore does not cascade deletes.
func (s *FirestoreStore) Delete(ctx context.Context, doc string) error {
	return deleteTree(ctx, s.client.Doc(doc))
}

func deleteTree(ctx context.Context, ref *firestore.DocumentRef) error {
	cols := ref.Collections(ctx)
	for {
		col, err := cols.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}

		refs := col.DocumentRefs(ctx)
		for {
			child, err := refs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return err
			}
			if err := deleteTree(ctx, child); err != nil {
				return err
			}
		}
	}

	_, err := ref.Delete(ctx)
	return err
}

func collect(collection string, iter *firestore.DocumentIterator) ([]Document, error) {
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{
			ID:   snap.Ref.ID,
			Path: Join(collection, snap.Ref.ID),
			Data: record.Record(snap.Data()),
		})
	}
	return docs, nil
}
