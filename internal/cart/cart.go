// Package cart holds the pending order a customer builds before placing it.
// The cart lives entirely on the client; the backend only ever sees the
// final placement request.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qrorder-vn/qrorder-client/internal/models"
)

// Line is one cart row: a menu item at a quantity, with an optional
// preparation note. ID identifies the row locally (list keys in the
// rendering layer); it never reaches the backend.
type Line struct {
	ID       uuid.UUID
	MenuItem models.MenuItem
	Quantity int
	Note     string
}

// Subtotal is the price of this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.MenuItem.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a concurrency-safe list of lines. Lines with the same menu item
// and the exact same note coalesce; differing notes stay separate rows.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts quantity of the item in the cart, merging into an existing line
// when the item and note both match.
func (c *Cart) Add(item models.MenuItem, quantity int, note string) {
	if quantity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MenuItem.ID == item.ID && c.lines[i].Note == note {
			c.lines[i].Quantity += quantity
			return
		}
	}
	c.lines = append(c.lines, Line{ID: uuid.New(), MenuItem: item, Quantity: quantity, Note: note})
}

// SetQuantity changes a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(menuItemID int64, note string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].MenuItem.ID == menuItemID && c.lines[i].Note == note {
			if quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			} else {
				c.lines[i].Quantity = quantity
			}
			return
		}
	}
}

// Remove deletes the line matching the item and note.
func (c *Cart) Remove(menuItemID int64, note string) {
	c.SetQuantity(menuItemID, note, 0)
}

// Clear empties the cart, typically after a successful placement.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a snapshot of the cart rows in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalQuantity is the badge count: the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for i := range c.lines {
		total += c.lines[i].Quantity
	}
	return total
}

// Total is the price of everything in the cart.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for i := range c.lines {
		total = total.Add(c.lines[i].Subtotal())
	}
	return total
}

// PlacementItems converts the cart into the order placement payload.
func (c *Cart) PlacementItems() []models.OrderItemRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.OrderItemRequest, 0, len(c.lines))
	for i := range c.lines {
		items = append(items, models.OrderItemRequest{
			MenuItemID: c.lines[i].MenuItem.ID,
			Quantity:   c.lines[i].Quantity,
			Note:       c.lines[i].Note,
		})
	}
	return items
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}
