package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemKey(t *testing.T) {
	assert.Equal(t, FieldKey("item_0_product"), ItemKey(0, "product"))
	assert.Equal(t, FieldKey("item_12_quantity"), ItemKey(12, "quantity"))
}

func TestFieldErrorsFirstMessageWins(t *testing.T) {
	fe := FieldErrors{}
	fe.Add("customer", "select a customer")
	fe.Add("customer", "second message")
	assert.Equal(t, "select a customer", fe[FieldKey("customer")])
}

func TestFieldErrorsMerge(t *testing.T) {
	local := FieldErrors{"customer": "select a customer"}
	upstream := FieldErrors{
		"customer": "customer does not exist",
		"amount":   "a valid number is required",
	}
	local.Merge(upstream)

	assert.Len(t, local, 2)
	assert.Equal(t, "select a customer", local[FieldKey("customer")])
	assert.Equal(t, "a valid number is required", local[FieldKey("amount")])
}

func TestFieldErrorsError(t *testing.T) {
	fe := FieldErrors{}
	assert.False(t, fe.HasErrors())

	fe.Add(ItemKey(1, "quantity"), "quantity must be a positive integer")
	fe.Add("customer", "select a customer")
	assert.True(t, fe.HasErrors())
	assert.Equal(t, "validation failed: customer: select a customer; item_1_quantity: quantity must be a positive integer", fe.Error())
}
