package logs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lectern/internal/services"
)

// ErrAPIUnavailable reports that no daemon log endpoint could be reached.
// Callers fall back to reading the log file directly.
var ErrAPIUnavailable = errors.New("log API unavailable")

// Client fetches log lines from a running lecternd instance.
type Client struct {
	base *url.URL
	http *http.Client
}

// Query mirrors the /api/logs query parameters.
type Query struct {
	Offset int64
	Limit  int
	Follow bool
}

// NewClient builds a log client for the given API bind address. An empty
// address yields a nil client, which every method treats as unavailable.
func NewClient(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	// No timeout: follow mode blocks server-side until lines arrive or the
	// caller cancels the context.
	return &Client{base: base, http: &http.Client{}}, nil
}

// Fetch retrieves one page of log lines.
func (c *Client) Fetch(ctx context.Context, q Query) (Result, error) {
	if c == nil {
		return Result{}, ErrAPIUnavailable
	}

	values := url.Values{}
	values.Set("offset", strconv.FormatInt(q.Offset, 10))
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Follow {
		values.Set("follow", "1")
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: "/api/logs", RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		marker := services.ErrNetwork
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return Result{}, services.Wrap(marker, "logs", "fetch", "daemon log endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Result{}, services.Wrap(services.ErrNetwork, "logs", "fetch",
			fmt.Sprintf("log endpoint returned status %d", resp.StatusCode), nil)
	}

	var payload Result
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, err
	}
	return payload, nil
}

// IsAPIUnavailable reports whether err means the daemon could not be reached,
// as opposed to the daemon answering with an error.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
