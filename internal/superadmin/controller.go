// Package superadmin drives the tenant-provisioning console.
package superadmin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/validate"
)

// Controller lists tenant stores and provisions new ones.
type Controller struct {
	session *session.Session
	log     *logger.Logger

	mu     sync.Mutex
	stores []models.Store
}

func NewController(sess *session.Session, log *logger.Logger) (*Controller, error) {
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Controller{session: sess, log: log}, nil
}

// Refresh pulls the tenant list.
func (c *Controller) Refresh(ctx context.Context) error {
	stores, err := c.session.API().Stores(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.stores = stores
	c.mu.Unlock()
	return nil
}

// CreateStore provisions a tenant with its first admin account, then
// refetches the list.
func (c *Controller) CreateStore(ctx context.Context, req models.StoreCreateRequest) error {
	req.Subdomain = strings.ToLower(strings.TrimSpace(req.Subdomain))
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := c.session.API().CreateStore(ctx, req); err != nil {
		return err
	}
	c.log.Info(ctx, "store provisioned")
	return c.Refresh(ctx)
}

// Stores returns a copy of the tenant list.
func (c *Controller) Stores() []models.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	stores := make([]models.Store, len(c.stores))
	copy(stores, c.stores)
	return stores
}

// ErrNoStoreLink means the origin's host has no tenant domain to prefix,
// so no console link can be offered.
var ErrNoStoreLink = errors.New("origin host has no tenant domain")

// StoreAdminURL builds the tenant's admin console address. A localhost
// origin maps to the dev server; otherwise the host's first label is
// replaced by the subdomain, and hosts with fewer than three labels yield
// ErrNoStoreLink.
func StoreAdminURL(origin, subdomain string) (string, error) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid origin %q", origin)
	}
	host := parsed.Host
	if strings.Contains(host, "localhost") {
		return fmt.Sprintf("http://%s.localhost:3000/admin", subdomain), nil
	}
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", ErrNoStoreLink
	}
	base := strings.Join(parts[1:], ".")
	return fmt.Sprintf("%s://%s.%s/admin", parsed.Scheme, subdomain, base), nil
}
