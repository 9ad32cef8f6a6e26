// Package admin drives the store-admin console: menu, tables, users and
// payment settings for one tenant store. Nothing here is optimistic; every
// successful write refetches the affected state from the backend.
package admin

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/validate"
)

// Controller owns the admin console state for one logged-in session.
type Controller struct {
	session *session.Session
	log     *logger.Logger

	mu         sync.Mutex
	users      []models.User
	tables     []models.Table
	categories []models.Category
	menu       []models.MenuItem
	settings   models.StoreSettings
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

// Refresh pulls the whole admin surface in one go. All five fetches must
// succeed; a half-loaded console invites edits against stale state.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx = c.log.WithStoreID(ctx, c.session.StoreID())

	var (
		users      []models.User
		tables     []models.Table
		categories []models.Category
		menu       []models.MenuItem
		settings   *models.StoreSettings
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		users, err = c.session.API().AdminUsers(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		tables, err = c.session.API().AdminTables(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		categories, err = c.session.API().AdminCategories(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		menu, err = c.session.API().AdminMenuItems(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		settings, err = c.session.API().AdminStoreSettings(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = users
	c.tables = tables
	c.categories = categories
	c.menu = menu
	if settings != nil {
		c.settings = *settings
	}
	return nil
}

// write validates, runs the mutation, and refetches on success.
func (c *Controller) write(ctx context.Context, req any, mutate func(context.Context) error) error {
	if req != nil {
		if err := validate.Struct(req); err != nil {
			return err
		}
	}
	if err := mutate(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

func (c *Controller) CreateCategory(ctx context.Context, req models.CategoryRequest) error {
	return c.write(ctx, req, func(ctx context.Context) error {
		return c.session.API().CreateCategory(ctx, req)
	})
}

func (c *Controller) DeleteCategory(ctx context.Context, id int64) error {
	return c.write(ctx, nil, func(ctx context.Context) error {
		return c.session.API().DeleteCategory(ctx, id)
	})
}

func (c *Controller) CreateUser(ctx context.Context, req models.UserCreateRequest) error {
	return c.write(ctx, req, func(ctx context.Context) error {
		return c.session.API().CreateUser(ctx, req)
	})
}

func (c *Controller) UpdateUser(ctx context.Context, id int64, req models.UserUpdateRequest) error {
	return c.write(ctx, req, func(ctx context.Context) error {
		return c.session.API().UpdateUser(ctx, id, req)
	})
}

func (c *Controller) DeleteUser(ctx context.Context, id int64) error {
	return c.write(ctx, nil, func(ctx context.Context) error {
		return c.session.API().DeleteUser(ctx, id)
	})
}

func (c *Controller) CreateTable(ctx context.Context, req models.TableRequest) error {
	return c.write(ctx, req, func(ctx context.Context) error {
		return c.session.API().CreateTable(ctx, req)
	})
}

func (c *Controller) UpdateTable(ctx context.Context, id int64, req models.TableRequest) error {
	return c.write(ctx, req, func(ctx context.Context) error {
		return c.session.API().UpdateTable(ctx, id, req)
	})
}

func (c *Controller) DeleteTable(ctx context.Context, id int64) error {
	return c.write(ctx, nil, func(ctx context.Context) error {
		return c.session.API().DeleteTable(ctx, id)
	})
}

// SaveMenuItem creates or updates a dish. When image is non-nil it is
// uploaded first and the stored URL replaces whatever the form carried.
func (c *Controller) SaveMenuItem(ctx context.Context, id int64, req models.MenuItemRequest, imageName string, image io.Reader) error {
	if image != nil {
		uploaded, err := c.session.API().UploadImage(ctx, imageName, image)
		if err != nil {
			return err
		}
		req.ImageURL = uploaded.URL
	}
	return c.write(ctx, req, func(ctx context.Context) error {
		if id == 0 {
			return c.session.API().CreateMenuItem(ctx, req)
		}
		return c.session.API().UpdateMenuItem(ctx, id, req)
	})
}

func (c *Controller) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.write(ctx, nil, func(ctx context.Context) error {
		return c.session.API().DeleteMenuItem(ctx, id)
	})
}

func (c *Controller) ToggleMenuItemStock(ctx context.Context, id int64) error {
	return c.write(ctx, nil, func(ctx context.Context) error {
		return c.session.API().ToggleMenuItemStock(ctx, id)
	})
}

func (c *Controller) UpdateSettings(ctx context.Context, settings models.StoreSettings) error {
	return c.write(ctx, nil, func(ctx context.Context) error {
		return c.session.API().UpdateStoreSettings(ctx, settings)
	})
}

func (c *Controller) Users() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	users := make([]models.User, len(c.users))
	copy(users, c.users)
	return users
}

func (c *Controller) Tables() []models.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	tables := make([]models.Table, len(c.tables))
	copy(tables, c.tables)
	return tables
}

func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	categories := make([]models.Category, len(c.categories))
	copy(categories, c.categories)
	return categories
}

func (c *Controller) MenuItems() []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	menu := make([]models.MenuItem, len(c.menu))
	copy(menu, c.menu)
	return menu
}

func (c *Controller) Settings() models.StoreSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}
