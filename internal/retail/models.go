// Package retail holds the entity shapes exchanged with the retail
// backend. One canonical shape per entity: orders carry snapshot-bearing
// order_items, revenue is numeric.
package retail

// Customer is a retail customer.
type Customer struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

// Supplier provides products.
type Supplier struct {
	SupplierID int64  `json:"supplier_id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
}

// Product is a sellable item. Suppliers is filled by the backend from the
// product-supplier links.
type Product struct {
	ProductID int64      `json:"product_id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Stock     int        `json:"stock"`
	Suppliers []Supplier `json:"suppliers,omitempty"`
}

// OrderItem is one line of an order. ProductPrice is the unit price
// snapshot captured at order creation; it does not track later product
// price changes.
type OrderItem struct {
	Product      int64   `json:"product"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

// LineTotal is the item's price snapshot times its quantity.
func (i OrderItem) LineTotal() float64 {
	return i.ProductPrice * float64(i.Quantity)
}

// Order owns its items; amount is computed by the backend at creation and
// never recomputed.
type Order struct {
	OrderID      int64       `json:"order_id"`
	Customer     int64       `json:"customer"`
	CustomerName string      `json:"customer_name"`
	OrderDate    string      `json:"order_date"`
	Amount       float64     `json:"amount"`
	Items        []OrderItem `json:"items,omitempty"`
}

// PaymentMode enumerates the accepted payment instruments.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeCard         PaymentMode = "card"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
)

// Valid reports whether the mode is one of the enumeration.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCard, PaymentModeUPI, PaymentModeBankTransfer:
		return true
	}
	return false
}

// Payment references an order it does not own. Several payments may point
// at the same order; nothing checks their sum against the order amount.
type Payment struct {
	PaymentID     int64       `json:"payment_id"`
	Order         int64       `json:"order"`
	OrderCustomer string      `json:"order_customer"`
	Amount        float64     `json:"amount"`
	PaymentMode   PaymentMode `json:"payment_mode"`
	PaymentDate   string      `json:"payment_date"`
}

// ProductSupplier links a product to a supplier; the pair is unique.
type ProductSupplier struct {
	Product      int64  `json:"product"`
	ProductName  string `json:"product_name"`
	Supplier     int64  `json:"supplier"`
	SupplierName string `json:"supplier_name"`
}

// RecentOrder is the trimmed order shape inside the dashboard snapshot.
type RecentOrder struct {
	OrderID      int64   `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	OrderDate    string  `json:"order_date"`
	Amount       float64 `json:"amount"`
}

// DashboardStats is the precomputed statistics snapshot served by the
// backend; the gateway does no aggregation of its own.
type DashboardStats struct {
	TotalCustomers   int           `json:"total_customers"`
	TotalProducts    int           `json:"total_products"`
	TotalOrders      int           `json:"total_orders"`
	TotalSuppliers   int           `json:"total_suppliers"`
	TotalRevenue     float64       `json:"total_revenue"`
	LowStockProducts int           `json:"low_stock_products"`
	RecentOrders     []RecentOrder `json:"recent_orders"`
}
