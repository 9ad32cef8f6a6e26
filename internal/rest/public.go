package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qrorder-vn/qrorder-client/internal/models"
)

// Public endpoints are unauthenticated and table-scoped via the access key
// from the QR code.

func (c *Client) TableInfo(ctx context.Context, accessKey string) (*models.Table, error) {
	var table models.Table
	path := fmt.Sprintf("/public/tables/%s/info", accessKey)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (c *Client) PublicCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.doJSON(ctx, http.MethodGet, "/public/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) PublicMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "/public/menu-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) TableOrders(ctx context.Context, accessKey string) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/public/tables/%s/orders", accessKey)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req models.OrderPlacementRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/public/order", req, nil)
}
