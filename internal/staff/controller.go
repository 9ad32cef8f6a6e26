// Package staff drives the floor-staff console: the table map, the order
// list for the selected table, and the staff-call notification feed.
package staff

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/internal/realtime"
	"github.com/qrorder-vn/qrorder-client/internal/reconcile"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/validate"

	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

// Controller owns the staff console state for one logged-in session.
type Controller struct {
	session *session.Session
	channel *realtime.Conn
	log     *logger.Logger

	mu              sync.Mutex
	tables          []models.TableOccupancy
	menu            []models.MenuItem
	settings        models.StoreSettings
	notifications   []models.StaffCall
	selectedTableID int64
	orders          []models.Order
	tableGen        uint64
	orderGen        uint64
	tableSub        *realtime.Subscription
}

func NewController(sess *session.Session, channel *realtime.Conn, log *logger.Logger) (*Controller, error) {
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	if channel == nil {
		return nil, fmt.Errorf("realtime connection required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Controller{session: sess, channel: channel, log: log}, nil
}

// Load pulls the floor state. The table map is required; the menu and the
// payment settings degrade gracefully, since the console can still seat
// and settle tables without them.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.tableGen++
	generation := c.tableGen
	c.mu.Unlock()

	ctx = c.log.WithStoreID(ctx, c.session.StoreID())

	var (
		tables   []models.TableOccupancy
		menu     []models.MenuItem
		settings *models.StoreSettings
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		tables, err = c.session.API().StaffTables(groupCtx)
		return err
	})
	group.Go(func() error {
		fetched, err := c.session.API().PublicMenuItems(groupCtx)
		if err != nil {
			c.log.Warn(ctx, "menu unavailable, add-items disabled")
			return nil
		}
		menu = fetched
		return nil
	})
	group.Go(func() error {
		fetched, err := c.session.API().StaffStoreSettings(groupCtx)
		if err != nil {
			c.log.Warn(ctx, "payment settings unavailable, using defaults")
			return nil
		}
		settings = fetched
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tableGen != generation {
		c.log.Debug(ctx, "discarding superseded table map")
		return nil
	}
	c.tables = tables
	c.menu = menu
	if settings != nil {
		c.settings = *settings
	}
	c.log.Info(ctx, "staff console loaded")
	return nil
}

// Start subscribes to the store's staff topic for call notifications and
// to its kitchen topic to keep the table map and selected-table orders
// current. Both handles are owned by the session.
func (c *Controller) Start(ctx context.Context) error {
	storeID := c.session.StoreID()

	staffSub, err := c.channel.Subscribe(realtime.StaffTopic(storeID), c.onStaffCall)
	if err != nil {
		return err
	}
	c.session.Own(staffSub)

	kitchenSub, err := c.channel.Subscribe(realtime.KitchenTopic(storeID), c.onOrderPush)
	if err != nil {
		return err
	}
	c.session.Own(kitchenSub)

	c.log.Info(c.log.WithStoreID(ctx, storeID), "staff console live")
	return nil
}

func (c *Controller) onStaffCall(body []byte) {
	var call models.StaffCall
	if err := json.Unmarshal(body, &call); err != nil {
		c.log.Warn(context.Background(), "discarding malformed staff call")
		return
	}

	c.mu.Lock()
	c.notifications = append([]models.StaffCall{call}, c.notifications...)
	c.mu.Unlock()
}

// onOrderPush handles the store-wide kitchen topic: a new or settled order
// flips table occupancy, so those statuses trigger a table-map refresh.
// The order itself merges only into the currently selected table's list.
func (c *Controller) onOrderPush(body []byte) {
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		c.log.Warn(context.Background(), "discarding malformed order push")
		return
	}

	c.mergeSelected(order)

	if order.Status == enums.OrderStatusPending || order.Status == enums.OrderStatusPaid {
		go c.refreshTables(context.Background())
	}
}

// onTablePush handles the selected table's own topic. It only merges;
// occupancy changes already arrive on the store-wide topic, so refetching
// here would double every refresh for the selected table.
func (c *Controller) onTablePush(body []byte) {
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		c.log.Warn(context.Background(), "discarding malformed order push")
		return
	}
	c.mergeSelected(order)
}

func (c *Controller) mergeSelected(order models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if order.TableID != c.selectedTableID || c.selectedTableID == 0 {
		return
	}
	c.orderGen++
	c.orders = reconcile.Upsert(c.orders, order)
}

func (c *Controller) refreshTables(ctx context.Context) {
	c.mu.Lock()
	c.tableGen++
	generation := c.tableGen
	c.mu.Unlock()

	tables, err := c.session.API().StaffTables(ctx)
	if err != nil {
		c.log.Error(ctx, "table map refresh failed", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tableGen != generation {
		return
	}
	c.tables = tables
}

// SelectTable switches the console to one table: the previous table's
// subscription is released, its orders are fetched, and the new table's
// topic is subscribed. Selecting table 0 just clears the selection.
func (c *Controller) SelectTable(ctx context.Context, tableID int64) error {
	c.mu.Lock()
	previous := c.tableSub
	c.tableSub = nil
	c.selectedTableID = tableID
	c.orders = nil
	c.orderGen++
	generation := c.orderGen
	c.mu.Unlock()

	if previous != nil {
		previous.Unsubscribe()
	}
	if tableID == 0 {
		return nil
	}

	ctx = c.log.WithTableID(ctx, tableID)
	orders, err := c.session.API().StaffTableOrders(ctx, tableID)
	if err != nil {
		return err
	}

	sub, err := c.channel.Subscribe(realtime.TableTopic(tableID), c.onTablePush)
	if err != nil {
		return err
	}

	c.mu.Lock()
	superseded := c.orderGen != generation
	if !superseded {
		c.orders = orders
		c.tableSub = sub
	}
	c.mu.Unlock()

	if superseded {
		sub.Unsubscribe()
	}
	return nil
}

// applyOrder folds a backend response snapshot into the selected table's
// list, so actions reflect immediately without waiting for the push echo.
func (c *Controller) applyOrder(order *models.Order) {
	if order == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if order.TableID != c.selectedTableID {
		return
	}
	c.orderGen++
	c.orders = reconcile.Upsert(c.orders, *order)
}

// MarkPaid settles a single order.
func (c *Controller) MarkPaid(ctx context.Context, orderID int64) error {
	updated, err := c.session.API().MarkOrderPaid(ctx, orderID)
	if err != nil {
		return err
	}
	c.applyOrder(updated)
	c.log.Info(c.log.WithOrderID(ctx, orderID), "order marked paid")
	return nil
}

// PayAll settles every open order on a table, then refetches the list,
// since the backend returns no per-order snapshots for the bulk action.
func (c *Controller) PayAll(ctx context.Context, tableID int64) error {
	if err := c.session.API().PayAllForTable(ctx, tableID); err != nil {
		return err
	}

	c.mu.Lock()
	selected := c.selectedTableID
	c.orderGen++
	generation := c.orderGen
	c.mu.Unlock()
	if selected != tableID {
		return nil
	}

	orders, err := c.session.API().StaffTableOrders(ctx, tableID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.orderGen != generation {
		return nil
	}
	c.orders = orders
	return nil
}

// CancelItem removes one line item from an open order.
func (c *Controller) CancelItem(ctx context.Context, itemID int64) error {
	updated, err := c.session.API().CancelOrderItem(ctx, itemID)
	if err != nil {
		return err
	}
	c.applyOrder(updated)
	return nil
}

// SetItemQuantity changes a line item's quantity. Zero is not a delete
// here; staff cancel items explicitly.
func (c *Controller) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "quantity must be at least 1")
	}
	updated, err := c.session.API().SetOrderItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return err
	}
	c.applyOrder(updated)
	return nil
}

// AddItems appends menu items to an open order on the customer's behalf.
func (c *Controller) AddItems(ctx context.Context, orderID int64, items []models.OrderItemRequest) error {
	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, "no items to add")
	}

	updated, err := c.session.API().AddOrderItems(ctx, orderID, items)
	if err != nil {
		return err
	}
	c.applyOrder(updated)
	return nil
}

// SaveSurcharge records an extra charge (or discount note) on an order.
func (c *Controller) SaveSurcharge(ctx context.Context, orderID int64, req models.SurchargeRequest) error {
	updated, err := c.session.API().SetOrderSurcharge(ctx, orderID, req)
	if err != nil {
		return err
	}
	c.applyOrder(updated)
	return nil
}

// ClearNotifications empties the staff-call feed.
func (c *Controller) ClearNotifications() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = nil
}

// Tables returns a copy of the floor map.
func (c *Controller) Tables() []models.TableOccupancy {
	c.mu.Lock()
	defer c.mu.Unlock()
	tables := make([]models.TableOccupancy, len(c.tables))
	copy(tables, c.tables)
	return tables
}

// Orders returns a copy of the selected table's order list.
func (c *Controller) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	orders := make([]models.Order, len(c.orders))
	copy(orders, c.orders)
	return orders
}

// Notifications returns the staff-call feed, newest first.
func (c *Controller) Notifications() []models.StaffCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	calls := make([]models.StaffCall, len(c.notifications))
	copy(calls, c.notifications)
	return calls
}

// Menu returns the menu snapshot used by the add-items form.
func (c *Controller) Menu() []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	menu := make([]models.MenuItem, len(c.menu))
	copy(menu, c.menu)
	return menu
}

// Settings returns the store's payment settings, zero when unavailable.
func (c *Controller) Settings() models.StoreSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SelectedTableID returns the current selection, zero for none.
func (c *Controller) SelectedTableID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedTableID
}

// OutstandingTotal is what the selected table still owes.
func (c *Controller) OutstandingTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return reconcile.OutstandingTotal(c.orders)
}
