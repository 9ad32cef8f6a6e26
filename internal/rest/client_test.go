package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api", 5*time.Second)
}

func TestClientAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode([]models.Order{})
	}).WithToken("tok-123")

	_, err := client.KitchenOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestRevokedClientFailsWithoutTalkingToBackend(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}).WithToken("tok-123").Revoked()

	_, err := client.KitchenOrders(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeAuthFailed, pkgerrors.CodeOf(err))
	assert.False(t, called)
}

func TestClientClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
		want   pkgerrors.Code
	}{
		{
			name:   "get becomes fetch failure",
			status: http.StatusInternalServerError,
			call: func(c *Client) error {
				_, err := c.StaffTables(context.Background())
				return err
			},
			want: pkgerrors.CodeFetchFailed,
		},
		{
			name:   "write becomes write failure",
			status: http.StatusBadRequest,
			call: func(c *Client) error {
				_, err := c.MarkOrderPaid(context.Background(), 9)
				return err
			},
			want: pkgerrors.CodeWriteFailed,
		},
		{
			name:   "unauthorized becomes auth failure",
			status: http.StatusUnauthorized,
			call: func(c *Client) error {
				_, err := c.AdminUsers(context.Background())
				return err
			},
			want: pkgerrors.CodeAuthFailed,
		},
		{
			name:   "forbidden stays forbidden",
			status: http.StatusForbidden,
			call: func(c *Client) error {
				return c.DeleteUser(context.Background(), 1)
			},
			want: pkgerrors.CodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			err := tt.call(client)
			require.Error(t, err)
			assert.Equal(t, tt.want, pkgerrors.CodeOf(err))
		})
	}
}

func TestLoginWrapsFailuresAsAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeAuthFailed, pkgerrors.CodeOf(err))
}

func TestLoginReturnsTokenAndSubdomain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req models.AuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Username)
		_ = json.NewEncoder(w).Encode(models.AuthResponse{JWT: "jwt-abc", Subdomain: "pho-hung"})
	})

	resp, err := client.Login(context.Background(), "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", resp.JWT)
	assert.Equal(t, "pho-hung", resp.Subdomain)
}

func TestUploadImageSendsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "pho.png", header.Filename)
		_ = json.NewEncoder(w).Encode(models.UploadResponse{URL: "/uploads/pho.png"})
	})

	resp, err := client.UploadImage(context.Background(), "pho.png", strings.NewReader("fake-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/pho.png", resp.URL)
}
