package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/askchat/internal/errors"
)

func newTestClient(t *testing.T, doer HTTPDoer, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{
		WithHTTPClient(doer),
		WithSession(NewSessionWithID("session-123")),
	}, opts...)

	client, err := NewClient("http://127.0.0.1:8000", opts...)
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return client
}

func TestNewClient_Endpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{"loopback", "http://127.0.0.1:8000", "http://127.0.0.1:8000/ask", false},
		{"trailing slash", "https://chat.example.com/", "https://chat.example.com/ask", false},
		{"path prefix", "https://example.com/api", "https://example.com/api/ask", false},
		{"missing scheme", "127.0.0.1:8000", "", true},
		{"ftp scheme", "ftp://example.com", "", true},
		{"missing host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, WithHTTPClient(&MockDoer{}))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.baseURL)
				}
				if !errors.Is(err, apierrors.ErrInvalidConfig) {
					t.Errorf("expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() failed: %v", err)
			}
			if client.Endpoint() != tt.want {
				t.Errorf("Endpoint() = %s, want %s", client.Endpoint(), tt.want)
			}
		})
	}
}

func TestNewClient_GeneratesSession(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:8000", WithHTTPClient(&MockDoer{}))
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	if client.Session().ID == "" {
		t.Error("expected a generated session id")
	}
}

func TestNewClient_DefaultTransport(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:8000", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	if client.httpClient == nil {
		t.Fatal("expected default TLS client")
	}
}

func TestResolveProxy(t *testing.T) {
	client := &Client{endpoint: "http://example.com/ask", proxy: "http://proxy.local:3128"}
	if got := client.resolveProxy(); got != "http://proxy.local:3128" {
		t.Errorf("resolveProxy() = %q", got)
	}

	t.Setenv("HTTP_PROXY", "http://env-proxy.local:8080")
	t.Setenv("NO_PROXY", "")
	client = &Client{endpoint: "http://example.com/ask"}
	if got := client.resolveProxy(); got != "http://env-proxy.local:8080" {
		t.Errorf("resolveProxy() from env = %q", got)
	}
}

func TestAsk_Success(t *testing.T) {
	doer := &MockDoer{
		StatusCode: 200,
		Body:       []byte(`{"response":"Hi! How can I help?"}`),
	}
	client := newTestClient(t, doer)

	answer, err := client.Ask(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Ask() failed: %v", err)
	}
	if answer != "Hi! How can I help?" {
		t.Errorf("Ask() = %q", answer)
	}

	if len(doer.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(doer.requests))
	}
	req := doer.requests[0]
	if req.Method != fhttp.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.URL.String() != "http://127.0.0.1:8000/ask" {
		t.Errorf("URL = %s", req.URL.String())
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !doer.lastBody.closed {
		t.Error("response body was not closed")
	}
}

func TestAsk_RequestBody(t *testing.T) {
	doer := &MockDoer{StatusCode: 200, Body: []byte(`{"response":"ok"}`)}
	client := newTestClient(t, doer)

	query := "  spaced \"quoted\" ünïcode  "
	if _, err := client.Ask(context.Background(), query); err != nil {
		t.Fatalf("Ask() failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(doer.bodies[0], &fields); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if len(fields) != 2 {
		t.Errorf("expected exactly 2 fields, got %v", fields)
	}
	if fields["query"] != query {
		t.Errorf("query = %q, want raw input %q", fields["query"], query)
	}
	if fields["session_id"] != "session-123" {
		t.Errorf("session_id = %v", fields["session_id"])
	}
}

func TestAsk_SessionStableAcrossRequests(t *testing.T) {
	doer := &MockDoer{StatusCode: 200, Body: []byte(`{"response":"ok"}`)}
	client, err := NewClient("http://127.0.0.1:8000", WithHTTPClient(doer))
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	for _, q := range []string{"one", "two", "three"} {
		if _, err := client.Ask(context.Background(), q); err != nil {
			t.Fatalf("Ask(%q) failed: %v", q, err)
		}
	}

	var first string
	for i, body := range doer.bodies {
		var req struct {
			SessionID string `json:"session_id"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if i == 0 {
			first = req.SessionID
		}
		if req.SessionID != first || req.SessionID != client.Session().ID {
			t.Errorf("request %d session_id = %q, want %q", i, req.SessionID, first)
		}
	}
}

func TestAsk_VerbatimResponse(t *testing.T) {
	responses := []string{
		"plain",
		"line one\nline two",
		"emoji 👋 and \"quotes\"",
		"...",
		"",
		"<b>html</b> & **markdown**",
	}

	for _, want := range responses {
		body, _ := json.Marshal(map[string]string{"response": want})
		client := newTestClient(t, &MockDoer{StatusCode: 200, Body: body})

		got, err := client.Ask(context.Background(), "q")
		if err != nil {
			t.Fatalf("Ask() failed for %q: %v", want, err)
		}
		if got != want {
			t.Errorf("Ask() = %q, want %q", got, want)
		}
	}
}

func TestAsk_EmptyQuery(t *testing.T) {
	doer := &MockDoer{StatusCode: 200}
	client := newTestClient(t, doer)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := client.Ask(context.Background(), q); !errors.Is(err, apierrors.ErrEmptyQuery) {
			t.Errorf("Ask(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
	if len(doer.requests) != 0 {
		t.Errorf("blank queries must not hit the network, got %d requests", len(doer.requests))
	}
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name  string
		doer  *MockDoer
		check func(error) bool
	}{
		{
			name:  "network error",
			doer:  &MockDoer{Err: errors.New("connection refused")},
			check: apierrors.IsNetworkError,
		},
		{
			name:  "server error",
			doer:  &MockDoer{StatusCode: 500, Body: []byte(`{"detail":"Error: boom"}`)},
			check: apierrors.IsAPIError,
		},
		{
			name:  "not found",
			doer:  &MockDoer{StatusCode: 404, Body: []byte(`not found`)},
			check: apierrors.IsAPIError,
		},
		{
			name:  "invalid json",
			doer:  &MockDoer{StatusCode: 200, Body: []byte(`<html>`)},
			check: apierrors.IsParseError,
		},
		{
			name:  "missing field",
			doer:  &MockDoer{StatusCode: 200, Body: []byte(`{"answer":"x"}`)},
			check: apierrors.IsParseError,
		},
		{
			name:  "non-string field",
			doer:  &MockDoer{StatusCode: 200, Body: []byte(`{"response":42}`)},
			check: apierrors.IsParseError,
		},
		{
			name:  "null field",
			doer:  &MockDoer{StatusCode: 200, Body: []byte(`{"response":null}`)},
			check: apierrors.IsParseError,
		},
		{
			name:  "body read error",
			doer:  &MockDoer{StatusCode: 200, Body: []byte(`{"resp`), BodyErr: errors.New("reset by peer")},
			check: apierrors.IsNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.doer)

			answer, err := client.Ask(context.Background(), "hello")
			if err == nil {
				t.Fatal("expected error")
			}
			if answer != "" {
				t.Errorf("expected empty answer, got %q", answer)
			}
			if !tt.check(err) {
				t.Errorf("unexpected error category: %v", err)
			}
			if len(tt.doer.requests) != 1 {
				t.Errorf("expected exactly one attempt, got %d", len(tt.doer.requests))
			}
		})
	}
}

func TestAsk_APIErrorKeepsTruncatedBody(t *testing.T) {
	big := strings.Repeat("x", maxErrorBody*2)
	client := newTestClient(t, &MockDoer{StatusCode: 503, Body: []byte(big)})

	_, err := client.Ask(context.Background(), "hello")

	if apierrors.GetHTTPStatus(err) != 503 {
		t.Errorf("status = %d, want 503", apierrors.GetHTTPStatus(err))
	}
	if got := len(apierrors.GetResponseBody(err)); got != maxErrorBody {
		t.Errorf("body length = %d, want %d", got, maxErrorBody)
	}
}

// blockingDoer waits until the request context is done
type blockingDoer struct{}

func (blockingDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	<-req.Context().Done()
	return nil, req.Context().Err()
}

func TestAsk_Timeout(t *testing.T) {
	client := newTestClient(t, blockingDoer{}, WithTimeout(20*time.Millisecond))

	_, err := client.Ask(context.Background(), "hello")

	if !apierrors.IsTimeoutError(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
	var timeoutErr *apierrors.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
	if timeoutErr.Endpoint != client.Endpoint() {
		t.Errorf("Endpoint = %q, want %q", timeoutErr.Endpoint, client.Endpoint())
	}
	if timeoutErr.Err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("timeout should keep its cause, got %v", timeoutErr.Err)
	}
}

func TestAsk_CallerCancellation(t *testing.T) {
	client := newTestClient(t, blockingDoer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Ask(ctx, "hello")

	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected network error for canceled request, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestParseAskResponse(t *testing.T) {
	tests := []struct {
		body    string
		want    string
		wantErr bool
	}{
		{`{"response":"hi"}`, "hi", false},
		{`{"response":"a\nb","extra":1}`, "a\nb", false},
		{`{"response":"é"}`, "é", false},
		{`[]`, "", true},
		{`""`, "", true},
		{``, "", true},
		{`{"response":{"text":"nested"}}`, "", true},
	}

	for _, tt := range tests {
		got, err := parseAskResponse([]byte(tt.body))
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAskResponse(%s) error = %v, wantErr %v", tt.body, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAskResponse(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
