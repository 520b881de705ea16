package mediaservice

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStoreClient struct {
	mock.Mock
}

func (m *MockStoreClient) Upload(ctx context.Context, key, contentType string, body io.Reader) (*UploadResult, error) {
	args := m.Called(ctx, key, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UploadResult), args.Error(1)
}

func (m *MockStoreClient) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MemoryStore is an in-memory StoreClient for exercising ingestion flows
// without a remote bucket.
type MemoryStore struct {
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	m.objects[key] = memoryObject{contentType: contentType, data: data}

	return &UploadResult{
		ResourceType: resourceTypeFor(contentType),
		Bytes:        int64(len(data)),
	}, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	if _, ok := m.objects[key]; !ok {
		return false, nil
	}
	delete(m.objects, key)
	return true, nil
}

// Len reports how many objects the store currently holds.
func (m *MemoryStore) Len() int {
	return len(m.objects)
}
