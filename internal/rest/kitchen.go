package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qrorder-vn/qrorder-client/internal/models"
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
)

func (c *Client) KitchenOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/kitchen/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetOrderStatus asks the kitchen endpoint for a transition and returns the
// backend's updated snapshot.
func (c *Client) SetOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/kitchen/order/%d/status", orderID)
	req := models.StatusUpdateRequest{NewStatus: status.String()}
	if err := c.doJSON(ctx, http.MethodPost, path, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
