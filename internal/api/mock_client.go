package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of ChatClientInterface for testing
type MockClient struct {
	// Mock return values
	AskVal      string
	AskErr      error
	AskFunc     func(ctx context.Context, query string) (string, error)
	SessionVal  Session
	EndpointVal string

	mu      sync.Mutex
	queries []string
}

// Ensure MockClient implements ChatClientInterface
var _ ChatClientInterface = (*MockClient)(nil)

func (m *MockClient) Ask(ctx context.Context, query string) (string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.AskFunc != nil {
		return m.AskFunc(ctx, query)
	}
	return m.AskVal, m.AskErr
}

func (m *MockClient) Session() Session {
	return m.SessionVal
}

func (m *MockClient) Endpoint() string {
	if m.EndpointVal == "" {
		return "http://127.0.0.1:8000/ask"
	}
	return m.EndpointVal
}

// Queries returns every query passed to Ask, in call order
func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
