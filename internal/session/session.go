// Package session holds the bearer credential and derived claims for one
// logged-in view, and owns the teardown of everything opened under it.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/qrorder-vn/qrorder-client/internal/rest"
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

// View names a role-gated surface of the application.
type View string

const (
	ViewKitchen    View = "kitchen"
	ViewStaff      View = "staff"
	ViewAdmin      View = "admin"
	ViewSuperAdmin View = "super-admin"
)

// allowedRoles is the explicit permission predicate per view. Membership is
// exact; there is no substring matching against the claim.
var allowedRoles = map[View][]enums.Role{
	ViewKitchen:    {enums.RoleKitchen, enums.RoleAdmin, enums.RoleSuperAdmin},
	ViewStaff:      {enums.RoleStaff, enums.RoleAdmin, enums.RoleSuperAdmin},
	ViewAdmin:      {enums.RoleAdmin, enums.RoleSuperAdmin},
	ViewSuperAdmin: {enums.RoleSuperAdmin},
}

// Permits reports whether a role may establish a session for the view.
func (v View) Permits(role enums.Role) bool {
	for _, candidate := range allowedRoles[v] {
		if candidate == role {
			return true
		}
	}
	return false
}

// Claims are the fields the backend encodes into the credential payload.
type Claims struct {
	Role    string `json:"role"`
	StoreID int64  `json:"storeId"`
	jwt.RegisteredClaims
}

// DecodeClaims reads the credential payload without verifying the
// signature; verification is the backend's job on every call we make.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding credential payload: %w", err)
	}
	return claims, nil
}

// Session is an established, role-checked login. It replaces the original
// design's ambient module-level client handle: the authenticated client is
// reachable only through the session that owns it.
type Session struct {
	mu        sync.Mutex
	api       *rest.Client
	role      enums.Role
	storeID   int64
	subdomain string
	closed    bool
	owned     []io.Closer
}

// Login authenticates, decodes the claims, and enforces the view's
// permission predicate before any session state exists.
func Login(ctx context.Context, client *rest.Client, view View, username, password string) (*Session, error) {
	resp, err := client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	claims, err := DecodeClaims(resp.JWT)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAuthFailed, err, "credential payload unreadable")
	}

	role, err := enums.ParseRole(claims.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role in credential")
	}
	if !view.Permits(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("role %s cannot access the %s view", role, view))
	}

	return &Session{
		api:       client.WithToken(resp.JWT),
		role:      role,
		storeID:   claims.StoreID,
		subdomain: resp.Subdomain,
	}, nil
}

// API returns the bearer-attaching client for this session. After Logout
// it returns a revoked client whose every call fails with an auth error,
// so a racing caller sees an error rather than a nil dereference.
func (s *Session) API() *rest.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api
}

func (s *Session) Role() enums.Role {
	return s.role
}

func (s *Session) StoreID() int64 {
	return s.storeID
}

func (s *Session) Subdomain() string {
	return s.subdomain
}

// Own registers a resource (subscription, connection) to be closed when the
// session ends. Owning after logout closes immediately.
func (s *Session) Own(c io.Closer) {
	if c == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = c.Close()
		return
	}
	s.owned = append(s.owned, c)
	s.mu.Unlock()
}

// Active reports whether the session has not been logged out.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Logout invalidates the session: every owned subscription and connection
// is closed and the credential is dropped. Idempotent.
func (s *Session) Logout() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	owned := s.owned
	s.owned = nil
	s.api = s.api.Revoked()
	s.mu.Unlock()

	for _, c := range owned {
		_ = c.Close()
	}
}
