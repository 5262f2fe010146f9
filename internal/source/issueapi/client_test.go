package issueapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nhle/issue-tracker/internal/source"
	"github.com/nhle/issue-tracker/tests/testutil"
)

// mockHTTPClient is a test double for HTTPClient.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func TestFetchIssues(t *testing.T) {
	// Arrange
	srv := testutil.NewIssueServer(t, http.StatusOK, testutil.SampleIssuesJSON)
	client := NewClient(srv.Endpoint(), 5*time.Second)

	// Act
	issues, err := client.FetchIssues(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Title != "Fix bug" {
		t.Errorf("expected title 'Fix bug', got '%s'", issues[0].Title)
	}
	if srv.Requests() != 1 {
		t.Errorf("expected exactly 1 request, got %d", srv.Requests())
	}

	req := srv.LastRequest()
	if req.Method != http.MethodGet {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if req.URL.Path != "/issues" {
		t.Errorf("expected path /issues, got %s", req.URL.Path)
	}
	if req.URL.RawQuery != "" {
		t.Errorf("expected no query, got %q", req.URL.RawQuery)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("expected no Authorization header")
	}
}

func TestFetchIssues_PreservesServerOrder(t *testing.T) {
	// Arrange
	body := `[{"id":"cccccccc-3"},{"id":"aaaaaaaa-1"},{"id":"bbbbbbbb-2"}]`
	srv := testutil.NewIssueServer(t, http.StatusOK, body)
	client := NewClient(srv.Endpoint(), 5*time.Second)

	// Act
	issues, err := client.FetchIssues(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"cccccccc-3", "aaaaaaaa-1", "bbbbbbbb-2"}
	for i, id := range want {
		if issues[i].ID != id {
			t.Errorf("row %d: expected id %q, got %q", i, id, issues[i].ID)
		}
	}
}

func TestFetchIssues_EmptyAndNullBodies(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		t.Run(body, func(t *testing.T) {
			srv := testutil.NewIssueServer(t, http.StatusOK, body)
			client := NewClient(srv.Endpoint(), 5*time.Second)

			issues, err := client.FetchIssues(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if issues == nil || len(issues) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", issues)
			}
		})
	}
}

func TestFetchIssues_Failures(t *testing.T) {
	tests := []struct {
		name     string
		endpoint func(t *testing.T) string
		kind     source.FetchErrorKind
	}{
		{
			name: "server error",
			endpoint: func(t *testing.T) string {
				return testutil.NewIssueServer(t, http.StatusInternalServerError, `{"detail":"boom"}`).Endpoint()
			},
			kind: source.KindStatus,
		},
		{
			name: "not found",
			endpoint: func(t *testing.T) string {
				return testutil.NewIssueServer(t, http.StatusNotFound, ``).Endpoint()
			},
			kind: source.KindStatus,
		},
		{
			name: "malformed json",
			endpoint: func(t *testing.T) string {
				return testutil.NewIssueServer(t, http.StatusOK, `[{"id":`).Endpoint()
			},
			kind: source.KindDecode,
		},
		{
			name: "object instead of array",
			endpoint: func(t *testing.T) string {
				return testutil.NewIssueServer(t, http.StatusOK, `{"issues":[]}`).Endpoint()
			},
			kind: source.KindDecode,
		},
		{
			name:     "unreachable",
			endpoint: testutil.UnreachableEndpoint,
			kind:     source.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.endpoint(t), 5*time.Second)

			issues, err := client.FetchIssues(context.Background())

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if issues != nil {
				t.Errorf("expected nil issues on error, got %v", issues)
			}
			var fetchErr *source.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *source.FetchError, got %T", err)
			}
			if fetchErr.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, fetchErr.Kind)
			}
		})
	}
}

func TestFetchIssues_StatusErrorMentionsCode(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       io.NopCloser(bytes.NewBufferString("down")),
			}, nil
		},
	}
	client := NewClient("http://localhost:8000/issues", time.Second, WithHTTPClient(mockHTTP))

	// Act
	_, err := client.FetchIssues(context.Background())

	// Assert
	if !source.IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected error to mention 503, got: %v", err)
	}
}

func TestFetchIssues_CancelledContext(t *testing.T) {
	// Arrange
	mockHTTP := &mockHTTPClient{
		doFunc: func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	client := NewClient("http://localhost:8000/issues", 0, WithHTTPClient(mockHTTP))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := client.FetchIssues(ctx)

	// Assert
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
	if !source.IsFetchError(err) {
		t.Errorf("expected fetch error, got %T", err)
	}
}
