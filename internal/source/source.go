package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/issue-tracker/internal/model"
)

// FailureMessage is the only text shown to the user when a fetch fails,
// whatever the underlying cause.
const FailureMessage = "Failed to fetch issues. Please ensure the backend server is running."

// FetchErrorKind classifies why a fetch failed. It is used for logging
// only; every kind maps to FailureMessage in the UI.
type FetchErrorKind string

const (
	KindTransport FetchErrorKind = "transport"
	KindStatus    FetchErrorKind = "status"
	KindDecode    FetchErrorKind = "decode"
)

// FetchError is returned by fetchers when the issue collection could not
// be retrieved.
type FetchError struct {
	Kind       FetchErrorKind
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s (%s): %v", e.Endpoint, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err (or any error in its chain) is a FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// Fetcher retrieves the full issue collection in one read.
type Fetcher interface {
	FetchIssues(ctx context.Context) ([]model.Issue, error)
}
