package symbols

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxMapBytes bounds a fetched map body.
const maxMapBytes = 1 << 20

// Fetch downloads a map over HTTP. It is the one asynchronous step before
// any guess can be accepted; callers decide whether a failure is fatal.
func Fetch(ctx context.Context, client *http.Client, url string, opts Options) (*Map, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: url, Err: fmt.Errorf("unexpected status %s", res.Status)}
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxMapBytes))
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	return Load(url, b, opts)
}
