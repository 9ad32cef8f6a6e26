package models

import (
	"encoding/json"
	"testing"

	"github.com/qrorder-vn/qrorder-client/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDecodesBackendSnapshot(t *testing.T) {
	payload := `{
		"id": 12,
		"tableId": 3,
		"tableName": "A3",
		"storeId": 1,
		"status": "PREPARING",
		"totalPrice": 150000,
		"createdAt": "2026-08-30T18:45:12",
		"items": [
			{"id": 40, "menuItemId": 7, "menuItemName": "Phở bò", "quantity": 2, "note": "ít đá", "priceAtOrder": 50000}
		],
		"surcharge": null,
		"surchargeNotes": null
	}`

	var order Order
	require.NoError(t, json.Unmarshal([]byte(payload), &order))

	assert.Equal(t, int64(12), order.ID)
	assert.Equal(t, enums.OrderStatusPreparing, order.Status)
	assert.Equal(t, "A3", order.TableName)
	assert.False(t, order.Surcharge.Valid)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(150000)))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "ít đá", order.Items[0].Note)
	assert.Equal(t, 2026, order.CreatedAt.Year())
}

func TestAmountDueIncludesSurcharge(t *testing.T) {
	order := Order{TotalPrice: decimal.NewFromInt(100000)}
	assert.True(t, order.AmountDue().Equal(decimal.NewFromInt(100000)))

	order.Surcharge = decimal.NewNullDecimal(decimal.NewFromInt(20000))
	assert.True(t, order.AmountDue().Equal(decimal.NewFromInt(120000)))
}

func TestTimestampAcceptsRFC3339(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T18:45:12+07:00"`), &ts))
	assert.Equal(t, 18, ts.Hour())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
