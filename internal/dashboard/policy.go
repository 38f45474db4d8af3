package dashboard

import "github.com/stockroom/stockroom/internal/auth"

// Card names one dashboard card.
type Card string

const (
	CardCustomers    Card = "customers"
	CardProducts     Card = "products"
	CardOrders       Card = "orders"
	CardSuppliers    Card = "suppliers"
	CardRevenue      Card = "revenue"
	CardLowStock     Card = "low_stock"
	CardRecentOrders Card = "recent_orders"
)

// VisibleCards decides which cards a user sees. Admins see everything,
// staff see the sales side, inventory managers see the product side only.
func VisibleCards(roles []auth.Role) []Card {
	has := func(role auth.Role) bool {
		for _, r := range roles {
			if r == role {
				return true
			}
		}
		return false
	}

	switch {
	case has(auth.RoleAdmin):
		return []Card{CardCustomers, CardProducts, CardOrders, CardSuppliers, CardRevenue, CardLowStock, CardRecentOrders}
	case has(auth.RoleStaff):
		return []Card{CardCustomers, CardProducts, CardOrders, CardRevenue, CardRecentOrders}
	case has(auth.RoleInventoryManager):
		return []Card{CardProducts, CardSuppliers, CardLowStock}
	default:
		return []Card{CardProducts}
	}
}
