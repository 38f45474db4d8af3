// Package suppliers is the supplier CRUD pass-through.
package suppliers

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

// SupplierRequest creates or replaces a supplier.
type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Contact string `json:"contact" validate:"required,max=15"`
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

func (s *Service) List(ctx context.Context, sess *auth.Session) ([]retail.Supplier, error) {
	if err := s.store.RefreshSuppliers(ctx, sess); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return s.store.Suppliers(), nil
}

func (s *Service) Create(ctx context.Context, sess *auth.Session, req SupplierRequest) (*retail.Supplier, error) {
	if fe := shared.ValidateStruct(s.validate, req); fe.HasErrors() {
		return nil, fe
	}

	var created retail.Supplier
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Post(ctx, token, "/suppliers/", req, &created)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, sess *auth.Session, id int64, req SupplierRequest) (*retail.Supplier, error) {
	if fe := shared.ValidateStruct(s.validate, req); fe.HasErrors() {
		return nil, fe
	}

	var updated retail.Supplier
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Put(ctx, token, fmt.Sprintf("/suppliers/%d/", id), req, &updated)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Delete(ctx, token, fmt.Sprintf("/suppliers/%d/", id))
	})
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	s.refresh(ctx, sess)
	return nil
}

func (s *Service) refresh(ctx context.Context, sess *auth.Session) {
	if err := s.store.RefreshSuppliers(ctx, sess); err != nil {
		s.logger.Warn("supplier list refresh", slog.Any("error", err))
	}
}
