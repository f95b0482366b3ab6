// Package resources talks to the catalog-resource endpoint and turns its flat
// record list into a grouped render plan.
package resources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/csheth/benotes/internal/catalog"
)

const notesPath = "/api/notes"

// ErrInvalidQuery is returned before any request is made.
var ErrInvalidQuery = errors.New("invalid resource query")

// ErrorKind tells transport failures from server and payload failures.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindServer
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned for every failed fetch.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindServer {
		return fmt.Sprintf("resources: server error: status %d", e.Status)
	}
	return fmt.Sprintf("resources: %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Query identifies one subject of one semester of one program.
type Query struct {
	Program  string
	Semester int
	Subject  string
}

// Validate checks the query is complete.
func (q Query) Validate() error {
	switch {
	case strings.TrimSpace(q.Program) == "":
		return fmt.Errorf("%w: program is required", ErrInvalidQuery)
	case q.Semester < 1:
		return fmt.Errorf("%w: semester is required", ErrInvalidQuery)
	case q.Semester > catalog.SemesterCount:
		return fmt.Errorf("%w: semester must be between 1 and %d", ErrInvalidQuery, catalog.SemesterCount)
	case q.Subject == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidQuery)
	}
	return nil
}

// Values encodes the query the way the service expects it. The subject is
// sent verbatim; the server classifies by the exact display string.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("faculty", q.Program)
	v.Set("semester", strconv.Itoa(q.Semester))
	v.Set("subject", q.Subject)
	return v
}

// Client fetches resource lists. The zero timeout of the default HTTP client is
// intentional: failures surface only from the network or the server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// URL returns the request URL for q.
func (c *Client) URL(q Query) string {
	return c.baseURL + notesPath + "?" + q.Values().Encode()
}

// Fetch issues one request for q and returns the grouped plan. An empty result
// yields an empty Plan and a nil error.
func (c *Client) Fetch(ctx context.Context, q Query) (Plan, error) {
	records, err := c.Records(ctx, q)
	if err != nil {
		return Plan{}, err
	}
	return BuildPlan(records), nil
}

// Records issues one request for q and returns the raw records in service order.
func (c *Client) Records(ctx context.Context, q Query) ([]Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{
			Kind:   KindServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s (%s)", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	records, err := decodeRecords(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Err: err}
	}
	return records, nil
}

func decodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode resource list: %w", err)
	}
	return records, nil
}
