package products_test

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
	"github.com/stockroom/stockroom/internal/masterdata/products"
	"github.com/stockroom/stockroom/internal/platform/upstream"
	"github.com/stockroom/stockroom/internal/retail"
	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/store"
)

func newService(t *testing.T) (*products.Service, *store.Store, *auth.Session, *atomic.Int64) {
	t.Helper()

	createHits := &atomic.Int64{}

	var mu sync.Mutex
	existing := []retail.Product{{ProductID: 1, Name: "Rice 5kg", Price: 10, Stock: 5}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewEncoder(w).Encode(existing)
	})
	mux.HandleFunc("POST /products/", func(w http.ResponseWriter, r *http.Request) {
		createHits.Add(1)
		var req products.ProductRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		created := retail.Product{ProductID: 2, Name: req.Name, Price: req.Price, Stock: req.Stock}
		mu.Lock()
		existing = append(existing, created)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
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
	return products.NewService(api, authSvc, entityStore, nil), entityStore, sess, createHits
}

func TestCreateProduct(t *testing.T) {
	service, entityStore, sess, _ := newService(t)

	created, err := service.Create(context.Background(), sess, products.ProductRequest{
		Name: "Olive Oil", Price: 25, Stock: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ProductID)
	assert.Len(t, entityStore.Products(), 2)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	service, _, sess, createHits := newService(t)

	_, err := service.Create(context.Background(), sess, products.ProductRequest{
		Name: "Olive Oil", Price: -1, Stock: 2,
	})
	var fe shared.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, shared.FieldKey("price"))
	assert.Equal(t, int64(0), createHits.Load())
}

func TestCreateProductRequiresName(t *testing.T) {
	service, _, sess, createHits := newService(t)

	_, err := service.Create(context.Background(), sess, products.ProductRequest{Price: 5, Stock: 1})
	var fe shared.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, shared.FieldKey("name"))
	assert.Equal(t, int64(0), createHits.Load())
}
