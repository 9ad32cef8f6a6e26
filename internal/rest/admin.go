package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/qrorder-vn/qrorder-client/internal/models"
)

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, req models.UserCreateRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/users", req, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, req models.UserUpdateRequest) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), req, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil)
}

func (c *Client) AdminTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := c.doJSON(ctx, http.MethodGet, "/admin/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) CreateTable(ctx context.Context, req models.TableRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/tables", req, nil)
}

func (c *Client) UpdateTable(ctx context.Context, id int64, req models.TableRequest) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/tables/%d", id), req, nil)
}

func (c *Client) DeleteTable(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/tables/%d", id), nil, nil)
}

func (c *Client) AdminCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.doJSON(ctx, http.MethodGet, "/admin/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, req models.CategoryRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/categories", req, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", id), nil, nil)
}

func (c *Client) AdminMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.doJSON(ctx, http.MethodGet, "/admin/menu-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, req models.MenuItemRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/menu-items", req, nil)
}

func (c *Client) UpdateMenuItem(ctx context.Context, id int64, req models.MenuItemRequest) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/menu-items/%d", id), req, nil)
}

func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/menu-items/%d", id), nil, nil)
}

func (c *Client) ToggleMenuItemStock(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/menu-items/%d/toggle-stock", id), nil, nil)
}

// UploadImage sends menu-item artwork as multipart form data and returns
// the stored URL.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader) (*models.UploadResponse, error) {
	var resp models.UploadResponse
	if err := c.uploadFile(ctx, "/admin/upload", "file", filename, content, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AdminStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := c.doJSON(ctx, http.MethodGet, "/admin/store/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) UpdateStoreSettings(ctx context.Context, settings models.StoreSettings) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/store/settings", settings, nil)
}
