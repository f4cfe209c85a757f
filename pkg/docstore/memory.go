package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	docs map[string]map[string]interface{}
	mu   sync.RWMutex
}

// NewMemoryStore creates a new, empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]map[string]interface{}),
	}
}

// GetCollection returns every document directly under the collection at path,
// ordered by document ID.
func (s *MemoryStore) GetCollection(_ context.Context, path string) ([]Document, error) {
	if err := validateCollectionPath(path); err != nil {
		return nil, err
	}
	path = strings.Trim(path, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for p, data := range s.docs {
		if parentOf(p) == path {
			out = append(out, s.document(p, data))
		}
	}
	sortDocuments(out)
	return out, nil
}

// ListDocumentIDs returns the IDs under the collection at path. A document that
// was deleted while its subcollections were kept is still listed.
func (s *MemoryStore) ListDocumentIDs(_ context.Context, path string) ([]string, error) {
	if err := validateCollectionPath(path); err != nil {
		return nil, err
	}
	prefix := Split(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for p := range s.docs {
		segs := Split(p)
		if len(segs) <= len(prefix) || !hasPrefix(segs, prefix) {
			continue
		}
		seen[segs[len(prefix)]] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetDocument returns a copy of the document at path.
func (s *MemoryStore) GetDocument(_ context.Context, path string) (*Document, error) {
	if err := validateDocPath(path); err != nil {
		return nil, err
	}
	path = strings.Trim(path, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	doc := s.document(path, data)
	return &doc, nil
}

// SetDocument creates or overwrites the document at path.
func (s *MemoryStore) SetDocument(_ context.Context, path string, data map[string]interface{}, merge bool) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	path = strings.Trim(path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[path]
	if !merge || !ok {
		s.docs[path] = copyMap(data)
		return nil
	}
	for k, v := range data {
		existing[k] = copyValue(v)
	}
	return nil
}

// UpdateDocument replaces the given top-level fields of an existing document.
func (s *MemoryStore) UpdateDocument(_ context.Context, path string, fields map[string]interface{}) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	path = strings.Trim(path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	for k, v := range fields {
		existing[k] = copyValue(v)
	}
	return nil
}

// DeleteDocument removes the document at path. Deleting a missing document is not an error.
func (s *MemoryStore) DeleteDocument(_ context.Context, path string) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, strings.Trim(path, "/"))
	return nil
}

// DeleteField removes a single top-level field from an existing document.
func (s *MemoryStore) DeleteField(_ context.Context, path, field string) error {
	if err := validateDocPath(path); err != nil {
		return err
	}
	path = strings.Trim(path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(existing, field)
	return nil
}

// CollectionGroup returns every document whose parent collection is named name,
// ordered by path.
func (s *MemoryStore) CollectionGroup(_ context.Context, name string) ([]Document, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid collection group name %q", name)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for p, data := range s.docs {
		segs := Split(p)
		if segs[len(segs)-2] == name {
			out = append(out, s.document(p, data))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *MemoryStore) document(path string, data map[string]interface{}) Document {
	segs := Split(path)
	return Document{
		ID:   segs[len(segs)-1],
		Path: path,
		Data: copyMap(data),
	}
}

func hasPrefix(segs, prefix []string) bool {
	for i, p := range prefix {
		if segs[i] != p {
			return false
		}
	}
	return true
}

func parentOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}
	return path[:i]
}

func sortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyMap(e)
		}
		return out
	case time.Time:
		return t
	default:
		return v
	}
}
