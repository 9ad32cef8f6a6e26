// Package rest is the HTTP side of the qrorder backend contract: base-URL
// derivation from the page origin, bearer attachment, and one method per
// endpoint the views call.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	revoked    bool
}

// NewClient builds an unauthenticated client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithToken returns a client that attaches the bearer credential to every
// request. The receiver is left untouched so the login client stays clean.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		httpClient: c.httpClient,
		baseURL:    c.baseURL,
		token:      token,
	}
}

// Revoked returns a client that fails every request locally with an auth
// error. A session hands this out after logout so a late caller gets an
// error instead of a dead handle.
func (c *Client) Revoked() *Client {
	return &Client{
		httpClient: c.httpClient,
		baseURL:    c.baseURL,
		revoked:    true,
	}
}

// BaseURL reports the resolved API base the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "encoding request body")
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return pkgerrors.Wrap(classify(method, 0), err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, result)
}

func (c *Client) send(req *http.Request, result any) error {
	if c.revoked {
		return pkgerrors.New(pkgerrors.CodeAuthFailed, "session logged out")
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(classify(req.Method, 0), err, "request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(classify(req.Method, resp.StatusCode), err, "reading response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("%s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
		return pkgerrors.New(classify(req.Method, resp.StatusCode), msg).
			WithDetails(map[string]any{"body": string(respBody)})
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return pkgerrors.Wrap(classify(req.Method, resp.StatusCode), err, "decoding response")
		}
	}
	return nil
}

// classify maps a transport outcome onto the client error taxonomy: auth
// statuses first, then read vs. write by method.
func classify(method string, status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeAuthFailed
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	}
	if method == http.MethodGet {
		return pkgerrors.CodeFetchFailed
	}
	return pkgerrors.CodeWriteFailed
}

func (c *Client) uploadFile(ctx context.Context, path, fieldName, filename string, content io.Reader, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "building multipart body")
	}
	if _, err := io.Copy(part, content); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "copying upload content")
	}
	if err := writer.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "finalizing multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "building upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, result)
}
