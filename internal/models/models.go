// Package models holds the wire representations exchanged with the qrorder
// backend. The backend is authoritative for every field here; clients keep
// transient copies only and never compute totals themselves.
package models

import (
	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is a full snapshot of a customer order. The push channel always
// delivers whole snapshots, never deltas.
type Order struct {
	ID             int64               `json:"id"`
	TableID        int64               `json:"tableId"`
	TableName      string              `json:"tableName"`
	StoreID        int64               `json:"storeId"`
	Status         enums.OrderStatus   `json:"status"`
	TotalPrice     decimal.Decimal     `json:"totalPrice"`
	CreatedAt      Timestamp           `json:"createdAt"`
	Items          []OrderItem         `json:"items"`
	Surcharge      decimal.NullDecimal `json:"surcharge"`
	SurchargeNotes string              `json:"surchargeNotes"`
}

// AmountDue is the backend-computed total plus any surcharge.
func (o Order) AmountDue() decimal.Decimal {
	if o.Surcharge.Valid {
		return o.TotalPrice.Add(o.Surcharge.Decimal)
	}
	return o.TotalPrice
}

type OrderItem struct {
	ID           int64           `json:"id"`
	MenuItemID   int64           `json:"menuItemId"`
	MenuItemName string          `json:"menuItemName"`
	Quantity     int             `json:"quantity"`
	Note         string          `json:"note"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder"`
}

type MenuItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	StoreID      int64           `json:"storeId"`
	IsOutOfStock bool            `json:"isOutOfStock"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Table is the admin-facing table record. AccessKey is the opaque token
// embedded in the table's QR code.
type Table struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	StoreID   int64  `json:"storeId"`
	AccessKey string `json:"accessKey"`
}

// TableOccupancy is the staff floor-map entry with the derived status.
type TableOccupancy struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Capacity  int               `json:"capacity"`
	Status    enums.TableStatus `json:"status"`
	AccessKey string            `json:"accessKey"`
}

type StoreSettings struct {
	BankID      string `json:"bankId"`
	AccountNo   string `json:"accountNo"`
	AccountName string `json:"accountName"`
	QRTemplate  string `json:"qrTemplate"`
}

type StaffCall struct {
	TableID   int64          `json:"tableId"`
	TableName string         `json:"tableName"`
	CallType  enums.CallType `json:"callType"`
	Timestamp Timestamp      `json:"timestamp"`
}

type Store struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
