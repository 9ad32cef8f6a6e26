package rest

import (
	"context"
	"net/http"

	"github.com/qrorder-vn/qrorder-client/internal/models"
)

func (c *Client) Stores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := c.doJSON(ctx, http.MethodGet, "/super-admin/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// CreateStore provisions a tenant with its initial admin account.
func (c *Client) CreateStore(ctx context.Context, req models.StoreCreateRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/super-admin/stores", req, nil)
}
