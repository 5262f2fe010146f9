package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// IssueServer is a fake issues backend that answers every request with a
// fixed status and body.
type IssueServer struct {
	*httptest.Server

	requests atomic.Int32
	lastReq  atomic.Pointer[http.Request]
}

// NewIssueServer starts a backend that replies with status and body.
// It automatically closes the server when the test completes.
func NewIssueServer(t *testing.T, status int, body string) *IssueServer {
	t.Helper()

	s := &IssueServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.lastReq.Store(r.Clone(r.Context()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(s.Close)

	return s
}

// Endpoint returns the URL of the /issues collection on the fake backend.
func (s *IssueServer) Endpoint() string {
	return s.URL + "/issues"
}

// Requests returns how many requests the backend has served.
func (s *IssueServer) Requests() int {
	return int(s.requests.Load())
}

// LastRequest returns the most recent request, or nil.
func (s *IssueServer) LastRequest() *http.Request {
	return s.lastReq.Load()
}

// UnreachableEndpoint returns the URL of a server that has already been
// shut down, so connecting to it fails at the transport level.
func UnreachableEndpoint(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/issues"
	srv.Close()
	return url
}

// SampleIssuesJSON is the single-issue payload used across packages.
const SampleIssuesJSON = `[{
	"id": "abcdef1234567890",
	"title": "Fix bug",
	"description": null,
	"status": "todo",
	"priority": "high",
	"assignee": null,
	"createdAt": "2024-01-01T00:00:00Z",
	"updatedAt": "2024-01-02T00:00:00Z"
}]`
