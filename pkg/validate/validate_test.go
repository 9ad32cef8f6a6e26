package validate

import (
	"testing"

	pkgerrors "github.com/qrorder-vn/qrorder-client/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableForm struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=1"`
}

func TestStructPasses(t *testing.T) {
	require.NoError(t, Struct(tableForm{Name: "A1", Capacity: 4}))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	err := Struct(tableForm{Capacity: 0})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInvalidInput, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "capacity")
}
