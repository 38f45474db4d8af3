// Package products is the product CRUD pass-through.
package products

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/store"
)

// ProductRequest creates or replaces a product. Price and stock may not
// go negative; the backend enforces nothing further.
type ProductRequest struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Price float64 `json:"price" validate:"gte=0"`
	Stock int     `json:"stock" validate:"gte=0"`
}

type Service struct {
	api      *upstream.Client
	auth     *auth.Service
	store    *store.Store
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(api *upstream.Client, authSvc *auth.Service, entityStore *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:      api,
		auth:     authSvc,
		store:    entityStore,
		validate: shared.NewValidator(),
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context, sess *auth.Session) ([]retail.Product, error) {
	if err := s.store.RefreshProducts(ctx, sess); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.store.Products(), nil
}

func (s *Service) Get(ctx context.Context, sess *auth.Session, id int64) (*retail.Product, error) {
	var product retail.Product
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Get(ctx, token, fmt.Sprintf("/products/%d/", id), &product)
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (s *Service) Create(ctx context.Context, sess *auth.Session, req ProductRequest) (*retail.Product, error) {
	if fe := shared.ValidateStruct(s.validate, req); fe.HasErrors() {
		return nil, fe
	}

	var created retail.Product
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Post(ctx, token, "/products/", req, &created)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, sess *auth.Session, id int64, req ProductRequest) (*retail.Product, error) {
	if fe := shared.ValidateStruct(s.validate, req); fe.HasErrors() {
		return nil, fe
	}

	var updated retail.Product
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Put(ctx, token, fmt.Sprintf("/products/%d/", id), req, &updated)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Delete(ctx, token, fmt.Sprintf("/products/%d/", id))
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.refresh(ctx, sess)
	return nil
}

func (s *Service) refresh(ctx context.Context, sess *auth.Session) {
	if err := s.store.RefreshProducts(ctx, sess); err != nil {
		s.logger.Warn("product list refresh", slog.Any("error", err))
	}
}
