// Package links manages product-supplier links. A (product, supplier)
// pair is unique; a duplicate visible in the loaded list is rejected
// before any request is sent.
package links

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/store"
)

// LinkRequest links one product to one supplier.
type LinkRequest struct {
	Product  int64 `json:"product"`
	Supplier int64 `json:"supplier"`
}

type Service struct {
	api    *upstream.Client
	auth   *auth.Service
	store  *store.Store
	logger *slog.Logger
}

func NewService(api *upstream.Client, authSvc *auth.Service, entityStore *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, auth: authSvc, store: entityStore, logger: logger}
}

func (s *Service) List(ctx context.Context, sess *auth.Session) ([]retail.ProductSupplier, error) {
	if err := s.store.RefreshLinks(ctx, sess); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return s.store.Links(), nil
}

// Create links a product to a supplier. Local validation catches missing
// selections and pairs already present in the loaded list; the backend's
// own duplicate rejection surfaces through the same field-error shape.
func (s *Service) Create(ctx context.Context, sess *auth.Session, req LinkRequest) (*retail.ProductSupplier, error) {
	fe := shared.FieldErrors{}
	if req.Product == 0 {
		fe.Add("product", "select a product")
	}
	if req.Supplier == 0 {
		fe.Add("supplier", "select a supplier")
	}
	if !fe.HasErrors() && s.store.HasLink(req.Product, req.Supplier) {
		fe.Add("supplier", "this product is already linked to that supplier")
	}
	if fe.HasErrors() {
		return nil, fe
	}

	var created retail.ProductSupplier
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Post(ctx, token, "/product-suppliers/", req, &created)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &created, nil
}

// Delete removes a link by its (product, supplier) pair.
func (s *Service) Delete(ctx context.Context, sess *auth.Session, productID, supplierID int64) error {
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Delete(ctx, token, fmt.Sprintf("/product-suppliers/?product=%d&supplier=%d", productID, supplierID))
	})
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	s.refresh(ctx, sess)
	return nil
}

func (s *Service) refresh(ctx context.Context, sess *auth.Session) {
	if err := s.store.RefreshLinks(ctx, sess); err != nil {
		s.logger.Warn("link list refresh", slog.Any("error", err))
	}
}
