// Package customers is the customer CRUD pass-through. The backend owns
// the data; every mutation here triggers a full list re-fetch.
package customers

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

func (s *Service) List(ctx context.Context, sess *auth.Session) ([]retail.Customer, error) {
	if err := s.store.RefreshCustomers(ctx, sess); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return s.store.Customers(), nil
}

func (s *Service) Get(ctx context.Context, sess *auth.Session, id int64) (*retail.Customer, error) {
	var customer retail.Customer
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Get(ctx, token, fmt.Sprintf("/customers/%d/", id), &customer)
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &customer, nil
}

func (s *Service) Create(ctx context.Context, sess *auth.Session, req CreateCustomerRequest) (*retail.Customer, error) {
	if fe := shared.ValidateStruct(s.validate, req); fe.HasErrors() {
		return nil, fe
	}

	var created retail.Customer
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Post(ctx, token, "/customers/", req, &created)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, sess *auth.Session, id int64, req UpdateCustomerRequest) (*retail.Customer, error) {
	if fe := shared.ValidateStruct(s.validate, req); fe.HasErrors() {
		return nil, fe
	}

	var updated retail.Customer
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Put(ctx, token, fmt.Sprintf("/customers/%d/", id), req, &updated)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, sess)
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	err := s.auth.Exec(ctx, sess, func(token string) error {
		return s.api.Delete(ctx, token, fmt.Sprintf("/customers/%d/", id))
	})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	s.refresh(ctx, sess)
	return nil
}

func (s *Service) refresh(ctx context.Context, sess *auth.Session) {
	if err := s.store.RefreshCustomers(ctx, sess); err != nil {
		s.logger.Warn("customer list refresh", slog.Any("error", err))
	}
}
