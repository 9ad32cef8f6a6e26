package models

import "github.com/shopspring/decimal"

// Request payloads sent to the backend. Validation tags are enforced by
// pkg/validate before a request leaves the client.

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	JWT       string `json:"jwt"`
	Subdomain string `json:"subdomain"`
}

type OrderPlacementRequest struct {
	TableAccessKey string             `json:"tableAccessKey" validate:"required"`
	Items          []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemRequest struct {
	MenuItemID int64  `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
	Note       string `json:"note"`
}

type StatusUpdateRequest struct {
	NewStatus string `json:"newStatus" validate:"required"`
}

type SurchargeRequest struct {
	Surcharge      decimal.Decimal `json:"surcharge"`
	SurchargeNotes string          `json:"surchargeNotes"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

type StaffCallRequest struct {
	TableID  int64  `json:"tableId" validate:"required"`
	CallType string `json:"callType" validate:"required"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type MenuItemRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	CategoryID   int64           `json:"categoryId" validate:"required"`
	IsOutOfStock bool            `json:"isOutOfStock"`
}

type TableRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=1"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// UserUpdateRequest fields are optional; empty values leave the backend
// state untouched.
type UserUpdateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type StoreCreateRequest struct {
	StoreName     string `json:"storeName" validate:"required"`
	Subdomain     string `json:"subdomain" validate:"required,hostname_rfc1123"`
	AdminUsername string `json:"adminUsername" validate:"required"`
	AdminPassword string `json:"adminPassword" validate:"required,min=6"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
