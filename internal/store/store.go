// Package store is the refresh-on-mutation cache of backend list data.
// Forms resolve references (product prices, customer identity, order
// amounts) from here synchronously; every mutation elsewhere triggers a
// full list re-fetch, never a local patch.
package store

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
)

// Store caches the last successfully fetched entity lists. A failed
// refresh keeps the previous data and returns the error so the caller can
// surface a retry control.
type Store struct {
	api  *upstream.Client
	auth *auth.Service

	logger *slog.Logger
	group  singleflight.Group

	mu        sync.RWMutex
	customers []retail.Customer
	products  []retail.Product
	suppliers []retail.Supplier
	orders    []retail.Order
	payments  []retail.Payment
	links     []retail.ProductSupplier
}

// New constructs a Store.
func New(api *upstream.Client, authSvc *auth.Service, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{api: api, auth: authSvc, logger: logger}
}

func refreshList[T any](ctx context.Context, s *Store, sess *auth.Session, name, path string, assign func([]T)) error {
	// Concurrent refreshes of the same list for the same session collapse
	// into one upstream call.
	_, err, _ := s.group.Do(name+":"+sess.ID, func() (any, error) {
		var list []T
		err := s.auth.Exec(ctx, sess, func(token string) error {
			return s.api.List(ctx, token, path, &list)
		})
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		assign(list)
		s.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		s.logger.Warn("list refresh failed", slog.String("list", name), slog.Any("error", err))
	}
	return err
}

// RefreshCustomers re-fetches the customer list.
func (s *Store) RefreshCustomers(ctx context.Context, sess *auth.Session) error {
	return refreshList(ctx, s, sess, "customers", "/customers/", func(list []retail.Customer) { s.customers = list })
}

// RefreshProducts re-fetches the product list.
func (s *Store) RefreshProducts(ctx context.Context, sess *auth.Session) error {
	return refreshList(ctx, s, sess, "products", "/products/", func(list []retail.Product) { s.products = list })
}

// RefreshSuppliers re-fetches the supplier list.
func (s *Store) RefreshSuppliers(ctx context.Context, sess *auth.Session) error {
	return refreshList(ctx, s, sess, "suppliers", "/suppliers/", func(list []retail.Supplier) { s.suppliers = list })
}

// RefreshOrders re-fetches the order list.
func (s *Store) RefreshOrders(ctx context.Context, sess *auth.Session) error {
	return refreshList(ctx, s, sess, "orders", "/orders/", func(list []retail.Order) { s.orders = list })
}

// RefreshPayments re-fetches the payment list.
func (s *Store) RefreshPayments(ctx context.Context, sess *auth.Session) error {
	return refreshList(ctx, s, sess, "payments", "/payments/", func(list []retail.Payment) { s.payments = list })
}

// RefreshLinks re-fetches the product-supplier link list.
func (s *Store) RefreshLinks(ctx context.Context, sess *auth.Session) error {
	return refreshList(ctx, s, sess, "links", "/product-suppliers/", func(list []retail.ProductSupplier) { s.links = list })
}

// Customers returns a copy of the cached customer list.
func (s *Store) Customers() []retail.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]retail.Customer(nil), s.customers...)
}

// Products returns a copy of the cached product list.
func (s *Store) Products() []retail.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]retail.Product(nil), s.products...)
}

// Suppliers returns a copy of the cached supplier list.
func (s *Store) Suppliers() []retail.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]retail.Supplier(nil), s.suppliers...)
}

// Orders returns a copy of the cached order list.
func (s *Store) Orders() []retail.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]retail.Order(nil), s.orders...)
}

// Payments returns a copy of the cached payment list.
func (s *Store) Payments() []retail.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]retail.Payment(nil), s.payments...)
}

// Links returns a copy of the cached product-supplier links.
func (s *Store) Links() []retail.ProductSupplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]retail.ProductSupplier(nil), s.links...)
}

// CustomerByID resolves a cached customer.
func (s *Store) CustomerByID(id int64) (retail.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.CustomerID == id {
			return c, true
		}
	}
	return retail.Customer{}, false
}

// ProductByID resolves a cached product; the composer uses this to price
// line items before submission.
func (s *Store) ProductByID(id int64) (retail.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ProductID == id {
			return p, true
		}
	}
	return retail.Product{}, false
}

// OrderByID resolves a cached order; the payment form uses this to
// pre-fill the amount.
func (s *Store) OrderByID(id int64) (retail.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderID == id {
			return o, true
		}
	}
	return retail.Order{}, false
}

// HasLink reports whether a (product, supplier) pair is already linked in
// the loaded list.
func (s *Store) HasLink(productID, supplierID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.links {
		if l.Product == productID && l.Supplier == supplierID {
			return true
		}
	}
	return false
}
