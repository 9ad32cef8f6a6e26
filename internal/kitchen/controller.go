// Package kitchen drives the kitchen display: the board of orders being
// worked, kept current from the store's kitchen topic.
package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/internal/realtime"
	"github.com/qrorder-vn/qrorder-client/internal/reconcile"
	"github.com/qrorder-vn/qrorder-client/internal/session"
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	"github.com/qrorder-vn/qrorder-client/pkg/logger"
	"github.com/qrorder-vn/qrorder-client/pkg/metrics"

	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
)

// Controller owns the kitchen order board for one logged-in session.
type Controller struct {
	session *session.Session
	channel *realtime.Conn
	log     *logger.Logger
	metrics *metrics.ChannelMetrics

	mu         sync.Mutex
	board      []models.Order
	generation uint64
}

// NewController wires the kitchen view to its session and push channel.
func NewController(sess *session.Session, channel *realtime.Conn, log *logger.Logger, m *metrics.ChannelMetrics) (*Controller, error) {
	if sess == nil {
		return nil, fmt.Errorf("session required")
	}
	if channel == nil {
		return nil, fmt.Errorf("realtime connection required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Controller{session: sess, channel: channel, log: log, metrics: m}, nil
}

// Load fetches the active-order snapshot. A snapshot that raced with a
// pushed update (or a newer Load) is discarded rather than applied.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.mu.Unlock()

	orders, err := c.session.API().KitchenOrders(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.log.Debug(c.log.WithStoreID(ctx, c.session.StoreID()), "discarding superseded kitchen snapshot")
		return nil
	}
	c.board = orders
	c.metrics.SetBoardSize(len(c.board))
	return nil
}

// Start subscribes to the store's kitchen topic. The handle is owned by
// the session, so logout ends the stream.
func (c *Controller) Start(ctx context.Context) error {
	topic := realtime.KitchenTopic(c.session.StoreID())
	sub, err := c.channel.Subscribe(topic, c.onPush)
	if err != nil {
		return err
	}
	c.session.Own(sub)
	c.log.Info(c.log.WithTopic(c.log.WithStoreID(ctx, c.session.StoreID()), topic), "kitchen board live")
	return nil
}

func (c *Controller) onPush(body []byte) {
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		c.log.Warn(context.Background(), "discarding malformed kitchen push")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.board = reconcile.ApplyKitchen(c.board, order)
	c.metrics.SetBoardSize(len(c.board))
}

// UpdateStatus moves an order to its next status and applies the backend's
// response snapshot locally, without waiting for the echo on the topic.
func (c *Controller) UpdateStatus(ctx context.Context, orderID int64, next enums.OrderStatus) error {
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeInvalidInput, fmt.Sprintf("unknown order status %q", next))
	}

	updated, err := c.session.API().SetOrderStatus(ctx, orderID, next)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.board = reconcile.ApplyKitchen(c.board, *updated)
	c.metrics.SetBoardSize(len(c.board))
	c.log.Info(c.log.WithOrderID(ctx, orderID), "order status updated")
	return nil
}

// Board returns a copy of the current order board, newest first.
func (c *Controller) Board() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	board := make([]models.Order, len(c.board))
	copy(board, c.board)
	return board
}

// PendingCount is the number of orders not yet started.
func (c *Controller) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range c.board {
		if c.board[i].Status == enums.OrderStatusPending {
			n++
		}
	}
	return n
}
