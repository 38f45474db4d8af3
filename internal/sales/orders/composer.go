// Package orders implements the order composition workflow: draft
// building, collected validation, the locally displayed total, and the
// single atomic creation request.
package orders

import (
	"math"

	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
)

// ProductResolver resolves products from the entity store during
// composition.
type ProductResolver interface {
	ProductByID(id int64) (retail.Product, bool)
}

// LineItemDraft is one product+quantity pair in a draft. Quantity stays a
// float64 until validation so a fractional value from the client is
// rejected with a field error instead of a decode failure.
type LineItemDraft struct {
	ProductID int64   `json:"product"`
	Quantity  float64 `json:"quantity"`
}

// Draft is an in-progress order. Mutations touch only the draft; nothing
// is sent until Submit.
type Draft struct {
	CustomerID int64           `json:"customer"`
	Items      []LineItemDraft `json:"items"`
}

// NewDraft starts an empty draft with one blank line, the way the order
// form opens.
func NewDraft() Draft {
	return Draft{Items: []LineItemDraft{{Quantity: 1}}}
}

// AddItem appends a line-item draft.
func (d *Draft) AddItem(item LineItemDraft) {
	d.Items = append(d.Items, item)
}

// RemoveItem drops the line at index; the last line cannot be removed.
func (d *Draft) RemoveItem(index int) {
	if len(d.Items) <= 1 || index < 0 || index >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
}

// SetItem replaces the line at index.
func (d *Draft) SetItem(index int, item LineItemDraft) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index] = item
}

// Reset returns the draft to its opening state.
func (d *Draft) Reset() {
	*d = NewDraft()
}

// Validate checks the whole draft and collects every error rather than
// stopping at the first. Submission is blocked while the result is
// non-empty.
func (d Draft) Validate() shared.FieldErrors {
	fe := shared.FieldErrors{}
	if d.CustomerID == 0 {
		fe.Add("customer", "select a customer")
	}
	if len(d.Items) == 0 {
		fe.Add("items", "add at least one item")
	}
	for i, item := range d.Items {
		if item.ProductID == 0 {
			fe.Add(shared.ItemKey(i, "product"), "select a product")
		}
		if item.Quantity <= 0 || item.Quantity != math.Trunc(item.Quantity) {
			fe.Add(shared.ItemKey(i, "quantity"), "quantity must be a positive integer")
		}
	}
	return fe
}

// Total computes the displayed pre-submission total: current unit price
// from the store times quantity, summed. Lines whose product is not loaded
// contribute nothing. The backend's computed amount stays authoritative
// and the two are never reconciled.
func (d Draft) Total(products ProductResolver) float64 {
	var total float64
	for _, item := range d.Items {
		product, ok := products.ProductByID(item.ProductID)
		if !ok {
			continue
		}
		total += product.Price * item.Quantity
	}
	return total
}
