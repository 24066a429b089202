package push

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceData(t *testing.T) {
	t.Parallel()

	t.Run("stringifies scalar values", func(t *testing.T) {
		t.Parallel()

		coerced := coerceData(map[string]any{
			"order_number": "A-100",
			"website_id":   int64(12),
			"count":        3,
			"total":        21.5,
			"is_delivery":  true,
		})

		assert.Equal(t, map[string]string{
			"order_number": "A-100",
			"website_id":   "12",
			"count":        "3",
			"total":        "21.5",
			"is_delivery":  "true",
		}, coerced)
	})

	t.Run("marshals structured values as JSON", func(t *testing.T) {
		t.Parallel()

		coerced := coerceData(map[string]any{
			"items": []string{"pizza", "cola"},
		})
		assert.Equal(t, `["pizza","cola"]`, coerced["items"])
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, coerceData(nil))
		assert.Nil(t, coerceData(map[string]any{}))
	})
}

func TestInvalidTokenError(t *testing.T) {
	t.Parallel()

	assert.True(t, invalidTokenError("unregistered"))
	assert.True(t, invalidTokenError("invalid-registration"))
	assert.True(t, invalidTokenError("invalid-argument"))
	assert.False(t, invalidTokenError("unavailable"))
	assert.False(t, invalidTokenError("internal"))
	assert.False(t, invalidTokenError(""))
}
