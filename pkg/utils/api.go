package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchError reports a failed content request.
type FetchError struct {
	Op  string
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError is the cause of a FetchError for a non-200 response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "bad status: " + e.Status
}

// API fetches raw file contents over HTTP.
type API struct {
	client *http.Client
}

func NewAPI(timeout time.Duration) *API {
	return &API{client: &http.Client{Timeout: timeout}}
}

// NewAPIWithClient uses client as is, e.g. an httptest server client.
func NewAPIWithClient(client *http.Client) *API {
	if client == nil {
		client = http.DefaultClient
	}
	return &API{client: client}
}

// Get returns the body of url. Anything but 200 OK is an error.
func (a *API) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Op: "request", URL: url, Err: err}
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "fetch", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Op: "fetch", URL: url, Err: &StatusError{Code: resp.StatusCode, Status: resp.Status}}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: "read", URL: url, Err: err}
	}
	return body, nil
}

// GetText is Get for text files.
func (a *API) GetText(ctx context.Context, url string) (string, error) {
	body, err := a.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
