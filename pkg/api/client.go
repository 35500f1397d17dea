package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/finview/finview/internal/eventbus"
	"github.com/finview/finview/internal/storage"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// Client issues requests against the finance service. It attaches the
// persisted bearer token to every request and handles token rejection in one
// place: the token is discarded, a session-expired event is published once,
// and the call returns ErrSessionExpired.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *storage.CredentialsStore
	bus        *eventbus.Bus

	// expired latches after the first rejected token so that repeated 401
	// responses notify the observer only once per expiry. Re-armed whenever
	// a new token is stored.
	expired atomic.Bool
}

func NewClient(baseURL string, timeout time.Duration, creds *storage.CredentialsStore, bus *eventbus.Bus) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		bus:        bus,
	}
}

// SetToken persists a freshly issued token and re-arms expiry detection.
// The session flows only ever receive an access token; the refresh token
// slot stays empty.
func (c *Client) SetToken(token *oauth2.Token) error {
	if err := c.creds.Save(token); err != nil {
		return err
	}
	c.expired.Store(false)
	return nil
}

// ClearToken discards the persisted token.
func (c *Client) ClearToken() error {
	return c.creds.Clear()
}

// HasToken reports whether a token is currently persisted.
func (c *Client) HasToken() bool {
	_, err := c.creds.Load()
	return err == nil
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request. The service returns no body on success.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// PutMultipart issues a PUT request with a multipart form body, used by the
// profile update endpoint which may carry an avatar file.
func (c *Client) PutMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to copy form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// Download issues a GET request and streams the raw response body into w.
// Used by report export, where the body is a CSV or PDF blob.
func (c *Client) Download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read export body: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// do executes the request with the bearer token attached when one is
// persisted, and intercepts token rejection.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	token, err := c.creds.Load()
	if err == nil {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	} else if !errors.Is(err, storage.ErrNoToken) {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.handleExpiry(req)
		return nil, fmt.Errorf("%s: %w", req.URL.Path, ErrSessionExpired)
	}

	return resp, nil
}

// handleExpiry discards the token and notifies the session-expired observer,
// once per expiry no matter how many calls hit the rejection.
func (c *Client) handleExpiry(req *http.Request) {
	if err := c.creds.Clear(); err != nil {
		log.Errorf("failed to clear rejected token: %v", err)
	}
	if c.expired.CompareAndSwap(false, true) {
		event := eventbus.NewEvent(req.Context(), eventbus.SessionExpiredEvent, eventbus.SessionExpired{
			Endpoint: req.URL.Path,
		})
		if err := c.bus.Publish(event); err != nil {
			log.Errorf("failed to publish session expiry: %v", err)
		}
	}
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
