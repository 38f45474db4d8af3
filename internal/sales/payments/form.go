// Package payments records payments against existing orders. There is
// deliberately no reconciliation: nothing checks cumulative payments
// against the order amount and no order is ever marked paid.
package payments

import (
	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
)

// OrderResolver resolves orders from the entity store.
type OrderResolver interface {
	OrderByID(id int64) (retail.Order, bool)
}

// Form is an in-progress payment. Amount defaults from the selected
// order's amount but stays independently editable; over-, under- and
// duplicate payment are all accepted.
type Form struct {
	OrderID int64              `json:"order"`
	Amount  float64            `json:"amount"`
	Mode    retail.PaymentMode `json:"payment_mode"`
}

// NewForm opens a payment form against an order, pre-filling the amount
// with the order's current amount when it is loaded.
func NewForm(orders OrderResolver, orderID int64) Form {
	form := Form{OrderID: orderID, Mode: retail.PaymentModeCash}
	if order, ok := orders.OrderByID(orderID); ok {
		form.Amount = order.Amount
	}
	return form
}

// SelectOrder repoints the form at another order, re-deriving the default
// amount the way re-selecting does in the payment screen.
func (f *Form) SelectOrder(orders OrderResolver, orderID int64) {
	f.OrderID = orderID
	if order, ok := orders.OrderByID(orderID); ok {
		f.Amount = order.Amount
	}
}

// Validate checks the form, collecting every error.
func (f Form) Validate() shared.FieldErrors {
	fe := shared.FieldErrors{}
	if f.OrderID == 0 {
		fe.Add("order", "select an order")
	}
	if f.Amount <= 0 {
		fe.Add("amount", "amount must be a positive number")
	}
	if !f.Mode.Valid() {
		fe.Add("payment_mode", "choose a payment mode")
	}
	return fe
}
