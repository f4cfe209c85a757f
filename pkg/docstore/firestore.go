package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is a Store backed by Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the Firestore database of projectID. Credentials
// come from the environment; FIRESTORE_EMULATOR_HOST is honoured by the SDK.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) GetCollection(ctx context.Context, path string) ([]Document, error) {
	if err := validateCollectionPath(path); err != nil {
		return nil, err
	}
	snaps, err := s.client.Collection(strings.Trim(path, "/")).Documents(ctx).GetAll()
	if err != nil {
		return nil, mapError(err, path)
	}
	return toDocuments(snaps), nil
}

// ListDocumentIDs uses DocumentRefs, which also yields missing documents that
// still have subcollections.
func (s *FirestoreStore) ListDocumentIDs(ctx context.Context, path string) ([]string, error) {
	if err := validateCollectionPath(path); err != nil {
		return nil, err
	}
	refs, err := s.client.Collection(strings.Trim(path, "/")).DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, mapError(err, path)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FirestoreStore) GetDocument(ctx context.Context, path string) (*Document, error) {
	if err := validateDocPath(path); err != nil {
		return nil, err
	}
	snap, err := s.client.Doc(strings.Trim(path, "/")).Get(ctx)
	if err != nil {
		return nil, mapError(err, path)
	}
	doc := toDocument(snap)
	return &doc, nil
}

func (s *FirestoreStore) SetDocument(ctx context.Context, path string, data map[string]interface{}, merge bool) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	ref := s.client.Doc(strings.Trim(path, "/"))
	var err error
	if merge {
		_, err = ref.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	if err != nil {
		return mapError(err, path)
	}
	return nil
}

func (s *FirestoreStore) UpdateDocument(ctx context.Context, path string, fields map[string]interface{}) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		// FieldPath keeps keys such as "item_1700000000000" literal.
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if _, err := s.client.Doc(strings.Trim(path, "/")).Update(ctx, updates); err != nil {
		return mapError(err, path)
	}
	return nil
}

func (s *FirestoreStore) DeleteDocument(ctx context.Context, path string) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	if _, err := s.client.Doc(strings.Trim(path, "/")).Delete(ctx); err != nil {
		return mapError(err, path)
	}
	return nil
}

func (s *FirestoreStore) DeleteField(ctx context.Context, path, field string) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	_, err := s.client.Doc(strings.Trim(path, "/")).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{field}, Value: firestore.Delete},
	})
	if err != nil {
		return mapError(err, path)
	}
	return nil
}

func (s *FirestoreStore) CollectionGroup(ctx context.Context, name string) ([]Document, error) {
	snaps, err := s.client.CollectionGroup(name).Documents(ctx).GetAll()
	if err != nil {
		return nil, mapError(err, name)
	}
	return toDocuments(snaps), nil
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []Document {
	out := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toDocument(snap))
	}
	return out
}

func toDocument(snap *firestore.DocumentSnapshot) Document {
	return Document{
		ID:   snap.Ref.ID,
		Path: relativePath(snap.Ref.Path),
		Data: snap.Data(),
	}
}

// relativePath strips the "projects/<p>/databases/<d>/documents/" prefix the
// SDK puts on every reference path.
func relativePath(full string) string {
	const marker = "/documents/"
	if i := strings.Index(full, marker); i >= 0 {
		return full[i+len(marker):]
	}
	return strings.Trim(full, "/")
}

func mapError(err error, path string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case codes.FailedPrecondition:
		// Firestore reports missing composite/collection-group indexes this way,
		// with a console link to create the index in the message.
		return fmt.Errorf("%w: %s: %s", ErrIndexRequired, path, status.Convert(err).Message())
	default:
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
}
