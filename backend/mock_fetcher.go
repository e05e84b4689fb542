package backend

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock type for the Fetcher type
type MockFetcher struct {
	mock.Mock
}

// Fetch is a mock method
func (m *MockFetcher) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*FetchResult)
	return result, args.Error(1)
}

// Preview is a mock method
func (m *MockFetcher) Preview(ctx context.Context, url string) (*RemoteInfo, error) {
	args := m.Called(ctx, url)
	info, _ := args.Get(0).(*RemoteInfo)
	return info, args.Error(1)
}
