// Package reconcile folds pushed order snapshots into an in-memory order
// board. The backend broadcasts the full order on every change, so each
// reducer is a pure function of (board, snapshot); views hold the board
// under their own lock and re-render from the result.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/qrorder-vn/qrorder-client/internal/models"
)

// Upsert replaces the order in place when its id is already on the board,
// otherwise prepends it so the newest order renders first. Applying the
// same snapshot twice leaves the board unchanged.
func Upsert(board []models.Order, incoming models.Order) []models.Order {
	for i := range board {
		if board[i].ID == incoming.ID {
			next := make([]models.Order, len(board))
			copy(next, board)
			next[i] = incoming
			return next
		}
	}
	next := make([]models.Order, 0, len(board)+1)
	next = append(next, incoming)
	return append(next, board...)
}

// ApplyKitchen keeps the kitchen board scoped to orders still being worked.
// A snapshot in a terminal status removes the order, whether or not it is
// present; an active one upserts as usual.
func ApplyKitchen(board []models.Order, incoming models.Order) []models.Order {
	if !incoming.Status.ActiveInKitchen() {
		return Remove(board, incoming.ID)
	}
	return Upsert(board, incoming)
}

// Remove drops the order with the given id. Removing an absent id returns
// the board unchanged.
func Remove(board []models.Order, orderID int64) []models.Order {
	next := make([]models.Order, 0, len(board))
	for i := range board {
		if board[i].ID != orderID {
			next = append(next, board[i])
		}
	}
	return next
}

// OutstandingTotal sums what a table still owes: amount due (total plus
// surcharge) over every order that has not settled.
func OutstandingTotal(board []models.Order) decimal.Decimal {
	total := decimal.Zero
	for i := range board {
		if board[i].Status.Settled() {
			continue
		}
		total = total.Add(board[i].AmountDue())
	}
	return total
}
