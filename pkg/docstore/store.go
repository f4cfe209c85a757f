package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrIndexRequired is returned when a query needs a server-side index that
	// has not been provisioned yet.
	ErrIndexRequired = errors.New("query requires a server-side index")
	// ErrUnavailable wraps network or service failures on reads and writes.
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is a single stored document. Path is slash separated and relative
// to the database root, e.g. "users/u1/orders/o1".
type Document struct {
	ID   string
	Path string
	Data map[string]interface{}
}

// Store is the document store client every repository depends on.
type Store interface {
	GetCollection(ctx context.Context, path string) ([]Document, error)
	// ListDocumentIDs returns the IDs of every document in the collection at
	// path, sorted, including IDs that only exist as parents of subcollections.
	ListDocumentIDs(ctx context.Context, path string) ([]string, error)
	// GetDocument returns ErrNotFound when the document is absent.
	GetDocument(ctx context.Context, path string) (*Document, error)
	// SetDocument writes data to path. With merge set, only the given top-level
	// fields are replaced and all other fields are left as they are.
	SetDocument(ctx context.Context, path string, data map[string]interface{}, merge bool) error
	// UpdateDocument replaces the given top-level fields of an existing document.
	UpdateDocument(ctx context.Context, path string, fields map[string]interface{}) error
	DeleteDocument(ctx context.Context, path string) error
	DeleteField(ctx context.Context, path, field string) error
	// CollectionGroup returns every document held in a collection named name,
	// at any depth of the hierarchy.
	CollectionGroup(ctx context.Context, name string) ([]Document, error)
}

// Join builds a store path from its segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Split breaks a store path into its segments, ignoring leading and trailing slashes.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func validateDocPath(path string) error {
	segs := Split(path)
	if len(segs) == 0 || len(segs)%2 != 0 {
		return fmt.Errorf("invalid document path %q", path)
	}
	for _, s := range segs {
		if s == "" {
			return fmt.Errorf("invalid document path %q", path)
		}
	}
	return nil
}

func validateCollectionPath(path string) error {
	segs := Split(path)
	if len(segs)%2 != 1 {
		return fmt.Errorf("invalid collection path %q", path)
	}
	for _, s := range segs {
		if s == "" {
			return fmt.Errorf("invalid collection path %q", path)
		}
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FirestoreStore)(nil)
)
