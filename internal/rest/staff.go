package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/qrorder-vn/qrorder-client/internal/models"
)

func (c *Client) StaffTables(ctx context.Context) ([]models.TableOccupancy, error) {
	var tables []models.TableOccupancy
	if err := c.doJSON(ctx, http.MethodGet, "/staff/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) StaffTableOrders(ctx context.Context, tableID int64) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/staff/tables/%d/orders", tableID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) MarkOrderPaid(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/staff/order/%d/pay", orderID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) PayAllForTable(ctx context.Context, tableID int64) error {
	path := fmt.Sprintf("/staff/tables/%d/pay-all", tableID)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) CancelOrderItem(ctx context.Context, itemID int64) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/staff/order/item/%d", itemID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) SetOrderItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/staff/order/item/%d/quantity", itemID)
	if err := c.doJSON(ctx, http.MethodPut, path, models.QuantityRequest{Quantity: quantity}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) AddOrderItems(ctx context.Context, orderID int64, items []models.OrderItemRequest) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/staff/order/%d/items", orderID)
	if err := c.doJSON(ctx, http.MethodPost, path, items, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) SetOrderSurcharge(ctx context.Context, orderID int64, req models.SurchargeRequest) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/staff/order/%d/surcharge", orderID)
	if err := c.doJSON(ctx, http.MethodPut, path, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) StaffStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := c.doJSON(ctx, http.MethodGet, "/staff/store/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
