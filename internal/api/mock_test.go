package api

import (
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data   []byte
	pos    int
	err    error
	closed bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data, pos: 0}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockDoer is a mock HTTPDoer that records requests
type MockDoer struct {
	StatusCode int
	Body       []byte
	BodyErr    error
	Err        error

	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   [][]byte
	lastBody *MockResponseBody
}

// Do implements HTTPDoer
func (m *MockDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sent []byte
	if req.Body != nil {
		sent, _ = io.ReadAll(req.Body)
	}
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, sent)

	if m.Err != nil {
		return nil, m.Err
	}

	body := NewMockResponseBody(m.Body)
	body.err = m.BodyErr
	m.lastBody = body

	return &fhttp.Response{
		StatusCode: m.StatusCode,
		Body:       body,
		Header:     make(fhttp.Header),
	}, nil
}
