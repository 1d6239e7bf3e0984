package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dusk-indust/diffdetector/internal/diff"
	"github.com/dusk-indust/diffdetector/internal/service"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// HTTPClient talks to a diffdetector server over its REST routes.
type HTTPClient struct {
	http    *http.Client
	baseURL string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// NewHTTPClient creates a client for the server at baseURL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLeft uploads the left blob for id.
func (c *HTTPClient) SetLeft(ctx context.Context, id string, data []byte) error {
	return c.set(ctx, service.SideLeft, id, data)
}

// SetRight uploads the right blob for id.
func (c *HTTPClient) SetRight(ctx context.Context, id string, data []byte) error {
	return c.set(ctx, service.SideRight, id, data)
}

// Compare fetches the comparison for id. The boolean is false when the
// server does not have both sides yet; any other 404 is an *APIError.
func (c *HTTPClient) Compare(ctx context.Context, id string) (diff.Outcome, bool, error) {
	if err := checkID(id); err != nil {
		return diff.Outcome{}, false, err
	}
	resp, err := c.do(ctx, http.MethodGet, c.idURL(id), nil)
	if err != nil {
		return diff.Outcome{}, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var outcome diff.Outcome
		if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
			return diff.Outcome{}, false, fmt.Errorf("api: decode outcome: %w", err)
		}
		if outcome.Runs == nil {
			outcome.Runs = []diff.Run{}
		}
		return outcome, true, nil
	case http.StatusNotFound:
		apiErr := readAPIError("compare", resp)
		if apiErr.Code == CodeNotFound {
			return diff.Outcome{}, false, nil
		}
		return diff.Outcome{}, false, apiErr
	default:
		return diff.Outcome{}, false, readAPIError("compare", resp)
	}
}

// Delete removes both blobs for id.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodDelete, c.idURL(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return readAPIError("delete", resp)
	}
	return nil
}

// CompareBytes runs a one-shot comparison under a fresh identifier: both
// sides are uploaded concurrently, compared, then removed. A failed removal
// is joined into the returned error.
func (c *HTTPClient) CompareBytes(ctx context.Context, left, right []byte) (outcome diff.Outcome, err error) {
	id := uuid.NewString()

	defer func() {
		if derr := c.Delete(context.WithoutCancel(ctx), id); derr != nil {
			err = errors.Join(err, fmt.Errorf("api: cleanup %s: %w", id, derr))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.SetLeft(gctx, id, left) })
	g.Go(func() error { return c.SetRight(gctx, id, right) })
	if err := g.Wait(); err != nil {
		return diff.Outcome{}, err
	}

	var ok bool
	outcome, ok, err = c.Compare(ctx, id)
	if err != nil {
		return diff.Outcome{}, err
	}
	if !ok {
		return diff.Outcome{}, fmt.Errorf("api: compare %s: uploaded data not found", id)
	}
	return outcome, nil
}

// Health checks GET /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError("health", resp)
	}
	return nil
}

func (c *HTTPClient) set(ctx context.Context, side service.Side, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	body, err := json.Marshal(Operand{Data: data})
	if err != nil {
		return fmt.Errorf("api: marshal operand: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.idURL(id)+"/"+string(side), body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return readAPIError("set "+string(side), resp)
	}
	return nil
}

// checkID rejects ids that no route can address. ServeMux never matches an
// empty segment and cleans "." and ".." out of the path.
func checkID(id string) error {
	switch id {
	case "":
		return service.ErrInvalidID
	case ".", "..":
		return fmt.Errorf("api: id %q cannot be addressed over HTTP: %w", id, service.ErrInvalidID)
	}
	return nil
}

func (c *HTTPClient) idURL(id string) string {
	return c.baseURL + BasePath + "/" + url.PathEscape(id)
}

// do executes a request with an optional JSON body.
func (c *HTTPClient) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, target, err)
	}
	return resp, nil
}

// readAPIError builds an APIError from a failed response, using the JSON
// error body when there is one.
func readAPIError(op string, resp *http.Response) *APIError {
	raw, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{Op: op, Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
