package orders

// createOrderRequest is the creation wire shape. The backend resolves
// current unit prices, computes the amount, assigns the id and timestamp;
// the request carries only references and quantities.
type createOrderRequest struct {
	Customer int64             `json:"customer"`
	Items    []createOrderItem `json:"items"`
}

type createOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func requestFromDraft(d Draft) createOrderRequest {
	req := createOrderRequest{Customer: d.CustomerID, Items: make([]createOrderItem, 0, len(d.Items))}
	for _, item := range d.Items {
		req.Items = append(req.Items, createOrderItem{ProductID: item.ProductID, Quantity: int(item.Quantity)})
	}
	return req
}
