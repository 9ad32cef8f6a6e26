// Package customer drives the table-scoped ordering view. There is no
// login here: the access key from the table's QR code scopes every call
// and the push topic.
package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/qrorder-vn/qrorder-client/internal/cart"
	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/internal/realtime"
	"github.com/qrorder-vn/qrorder-client/internal/reconcile"
	"github.com/qrorder-vn/qrorder-client/internal/rest"
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/validate"
)

// Controller holds everything one seated table sees: the menu, its own
// placed orders, and the cart being built.
type Controller struct {
	api       *rest.Client
	channel   *realtime.Conn
	log       *logger.Logger
	accessKey string

	Cart *cart.Cart

	mu         sync.Mutex
	table      *models.Table
	categories []models.Category
	menu       []models.MenuItem
	orders     []models.Order
	generation uint64
	sub        *realtime.Subscription
}

func NewController(api *rest.Client, channel *realtime.Conn, log *logger.Logger, accessKey string) (*Controller, error) {
	if api == nil {
		return nil, fmt.Errorf("rest client required")
	}
	if channel == nil {
		return nil, fmt.Errorf("realtime connection required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if accessKey == "" {
		return nil, fmt.Errorf("table access key required")
	}
	return &Controller{api: api, channel: channel, log: log, accessKey: accessKey, Cart: cart.New()}, nil
}

// Load resolves the table first (a bad access key is fatal), then pulls
// menu, categories and the table's placed orders concurrently. Any fetch
// failure fails the whole load; partial menus are never shown.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	table, err := c.api.TableInfo(ctx, c.accessKey)
	if err != nil {
		return err
	}
	ctx = c.log.WithTableID(ctx, table.ID)

	var (
		categories []models.Category
		menu       []models.MenuItem
		orders     []models.Order
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		categories, err = c.api.PublicCategories(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		menu, err = c.api.PublicMenuItems(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		orders, err = c.api.TableOrders(groupCtx, c.accessKey)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.log.Debug(ctx, "discarding superseded table snapshot")
		return nil
	}
	c.table = table
	c.categories = categories
	c.menu = menu
	c.orders = orders
	c.log.Info(ctx, "table view loaded")
	return nil
}

// Start subscribes to this table's topic so placed orders track the
// backend's status changes. Load must have resolved the table first.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	table := c.table
	c.mu.Unlock()
	if table == nil {
		return fmt.Errorf("table not loaded")
	}

	sub, err := c.channel.Subscribe(realtime.TableTopic(table.ID), c.onPush)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	c.log.Info(c.log.WithTableID(ctx, table.ID), "table order stream live")
	return nil
}

// Stop releases the table subscription.
func (c *Controller) Stop() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (c *Controller) onPush(body []byte) {
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		c.log.Warn(context.Background(), "discarding malformed table push")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.orders = reconcile.Upsert(c.orders, order)
}

// PlaceOrder posts the cart as one order. The cart is cleared only after
// the backend accepts it; a failed placement keeps the cart intact.
func (c *Controller) PlaceOrder(ctx context.Context) error {
	req := models.OrderPlacementRequest{
		TableAccessKey: c.accessKey,
		Items:          c.Cart.PlacementItems(),
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := c.api.PlaceOrder(ctx, req); err != nil {
		return err
	}
	c.Cart.Clear()
	c.log.Info(ctx, "order placed")
	return nil
}

// CallStaff rings the floor staff over the push channel. Fails when the
// channel is down so the view can tell the customer to flag someone.
func (c *Controller) CallStaff(callType enums.CallType) error {
	c.mu.Lock()
	table := c.table
	c.mu.Unlock()
	if table == nil {
		return fmt.Errorf("table not loaded")
	}

	req := models.StaffCallRequest{TableID: table.ID, CallType: callType.String()}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return c.channel.Publish(realtime.CallStaffDestination, req)
}

// Table returns the resolved table, nil before a successful Load.
func (c *Controller) Table() *models.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

// Orders returns a copy of the table's placed orders, newest first.
func (c *Controller) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	orders := make([]models.Order, len(c.orders))
	copy(orders, c.orders)
	return orders
}

// Categories returns the menu categories in backend order.
func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	categories := make([]models.Category, len(c.categories))
	copy(categories, c.categories)
	return categories
}

// MenuByCategory groups the menu for rendering, keyed by category id.
func (c *Controller) MenuByCategory() map[int64][]models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	grouped := make(map[int64][]models.MenuItem)
	for _, item := range c.menu {
		grouped[item.CategoryID] = append(grouped[item.CategoryID], item)
	}
	return grouped
}

// OutstandingTotal is what this table still owes across its orders.
func (c *Controller) OutstandingTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return reconcile.OutstandingTotal(c.orders)
}
