package services_test

import (
	"context"

	"storeadmin/internal/models"
	"storeadmin/pkg/docstore"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of docstore.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetCollection(ctx context.Context, path string) ([]docstore.Document, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docstore.Document), args.Error(1)
}

func (m *MockStore) ListDocumentIDs(ctx context.Context, path string) ([]string, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) GetDocument(ctx context.Context, path string) (*docstore.Document, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docstore.Document), args.Error(1)
}

func (m *MockStore) SetDocument(ctx context.Context, path string, data map[string]interface{}, merge bool) error {
	args := m.Called(ctx, path, data, merge)
	return args.Error(0)
}

func (m *MockStore) UpdateDocument(ctx context.Context, path string, fields map[string]interface{}) error {
	args := m.Called(ctx, path, fields)
	return args.Error(0)
}

func (m *MockStore) DeleteDocument(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockStore) DeleteField(ctx context.Context, path, field string) error {
	args := m.Called(ctx, path, field)
	return args.Error(0)
}

func (m *MockStore) CollectionGroup(ctx context.Context, name string) ([]docstore.Document, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docstore.Document), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderStatusUpdated(order models.OrderProjection) error {
	args := m.Called(order)
	return args.Error(0)
}
