package customers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/sales/customers"
	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/store"
)

type fixture struct {
	service    *customers.Service
	store      *store.Store
	sess       *auth.Session
	createHits *atomic.Int64
	listHits   *atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	createHits := &atomic.Int64{}
	listHits := &atomic.Int64{}

	var mu sync.Mutex
	existing := []retail.Customer{{CustomerID: 1, Name: "Meera", Address: "12 Hill Rd", Phone: "555-0101"}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers/", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewEncoder(w).Encode(existing)
	})
	mux.HandleFunc("POST /customers/", func(w http.ResponseWriter, r *http.Request) {
		createHits.Add(1)
		var req customers.CreateCustomerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		created := retail.Customer{CustomerID: 2, Name: req.Name, Address: req.Address, Phone: req.Phone}
		mu.Lock()
		existing = append(existing, created)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	})
	mux.HandleFunc("PUT /customers/1/", func(w http.ResponseWriter, r *http.Request) {
		var req customers.UpdateCustomerRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		updated := retail.Customer{CustomerID: 1, Name: req.Name, Address: req.Address, Phone: req.Phone}
		mu.Lock()
		existing[0] = updated
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(updated)
	})
	mux.HandleFunc("DELETE /customers/1/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		existing = existing[1:]
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	api := upstream.NewClient(server.URL, 5*time.Second, nil)
	mr := miniredis.RunT(t)
	sm := auth.NewSessionManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "s", "secret", time.Hour, false)
	authSvc := auth.NewService(api, sm, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetTokens("tok", "ref")

	entityStore := store.New(api, authSvc, nil)
	service := customers.NewService(api, authSvc, entityStore, nil)

	return &fixture{service: service, store: entityStore, sess: sess, createHits: createHits, listHits: listHits}
}

func TestCreateRefreshesList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, f.sess, customers.CreateCustomerRequest{
		Name: "Ravi", Address: "3 Bay St", Phone: "555-0102",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.CustomerID)

	assert.Len(t, f.store.Customers(), 2)
	assert.Equal(t, int64(1), f.listHits.Load())
}

func TestCreateRejectsMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.sess, customers.CreateCustomerRequest{Name: "Ravi"})
	var fe shared.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, shared.FieldKey("address"))
	assert.Contains(t, fe, shared.FieldKey("phone"))
	assert.Equal(t, int64(0), f.createHits.Load())
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.service.Update(ctx, f.sess, 1, customers.UpdateCustomerRequest{
		Name: "Meera K", Address: "12 Hill Rd", Phone: "555-0101",
	})
	require.NoError(t, err)
	assert.Equal(t, "Meera K", updated.Name)

	require.NoError(t, f.service.Delete(ctx, f.sess, 1))
	assert.Empty(t, f.store.Customers())
}
