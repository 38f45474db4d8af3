package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
)

type stubOrders map[int64]retail.Order

func (s stubOrders) OrderByID(id int64) (retail.Order, bool) {
	o, ok := s[id]
	return o, ok
}

var loadedOrders = stubOrders{
	41: {OrderID: 41, Customer: 1, Amount: 45},
	42: {OrderID: 42, Customer: 2, Amount: 120.50},
}

func TestNewFormPrefillsAmountFromOrder(t *testing.T) {
	form := NewForm(loadedOrders, 41)
	assert.Equal(t, int64(41), form.OrderID)
	assert.Equal(t, 45.0, form.Amount)
	assert.Equal(t, retail.PaymentModeCash, form.Mode)
}

func TestNewFormWithUnknownOrderLeavesAmountZero(t *testing.T) {
	form := NewForm(loadedOrders, 99)
	assert.Equal(t, 0.0, form.Amount)
}

func TestSelectOrderReDerivesDefaultAmount(t *testing.T) {
	form := NewForm(loadedOrders, 41)
	form.SelectOrder(loadedOrders, 42)
	assert.Equal(t, 120.50, form.Amount)
}

func TestAmountStaysEditableAfterPrefill(t *testing.T) {
	form := NewForm(loadedOrders, 41)
	form.Amount = 20 // partial payment, no upper or lower bound vs the order
	form.Mode = retail.PaymentModeUPI
	assert.False(t, form.Validate().HasErrors())

	form.Amount = 500 // overpayment allowed too
	assert.False(t, form.Validate().HasErrors())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	form := Form{Amount: -3, Mode: retail.PaymentMode("cheque")}
	fe := form.Validate()
	require.Len(t, fe, 3)
	assert.Equal(t, "select an order", fe[shared.FieldKey("order")])
	assert.Equal(t, "amount must be a positive number", fe[shared.FieldKey("amount")])
	assert.Equal(t, "choose a payment mode", fe[shared.FieldKey("payment_mode")])
}

func TestValidateRejectsZeroAmount(t *testing.T) {
	form := Form{OrderID: 41, Amount: 0, Mode: retail.PaymentModeCard}
	fe := form.Validate()
	assert.Equal(t, "amount must be a positive number", fe[shared.FieldKey("amount")])
}

func TestPaymentModeEnum(t *testing.T) {
	for _, mode := range []retail.PaymentMode{
		retail.PaymentModeCash, retail.PaymentModeCard, retail.PaymentModeUPI, retail.PaymentModeBankTransfer,
	} {
		assert.True(t, mode.Valid(), string(mode))
	}
	assert.False(t, retail.PaymentMode("cheque").Valid())
	assert.False(t, retail.PaymentMode("").Valid())
}
