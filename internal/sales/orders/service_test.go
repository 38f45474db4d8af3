package orders_test

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
	"github.com/stockroom/stockroom/internal/sales/orders"
	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/store"
)

type fixture struct {
	service    *orders.Service
	store      *store.Store
	sess       *auth.Session
	createHits *atomic.Int64
	rejectNext *atomic.Bool
	slowCreate *atomic.Bool
	lastKey    *atomic.Value
	bumps      *atomic.Int64
}

type bumpCounter struct{ n *atomic.Int64 }

func (b bumpCounter) Bump(ctx context.Context) error {
	b.n.Add(1)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	createHits := &atomic.Int64{}
	rejectNext := &atomic.Bool{}
	slowCreate := &atomic.Bool{}
	lastKey := &atomic.Value{}
	bumps := &atomic.Int64{}

	var mu sync.Mutex
	created := []retail.Order{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewEncoder(w).Encode(created)
	})
	mux.HandleFunc("POST /orders/", func(w http.ResponseWriter, r *http.Request) {
		createHits.Add(1)
		lastKey.Store(r.Header.Get("X-Idempotency-Key"))
		if slowCreate.Load() {
			time.Sleep(50 * time.Millisecond)
		}
		if rejectNext.Load() {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"customer":["Invalid pk \"99\" - object does not exist."]}`))
			return
		}

		var req struct {
			Customer int64 `json:"customer"`
			Items    []struct {
				ProductID int64 `json:"product_id"`
				Quantity  int   `json:"quantity"`
			} `json:"items"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		prices := map[int64]float64{1: 10, 2: 25}
		order := retail.Order{OrderID: 41, Customer: req.Customer, CustomerName: "Meera", OrderDate: "2026-08-01T10:00:00Z"}
		for _, item := range req.Items {
			price := prices[item.ProductID]
			order.Items = append(order.Items, retail.OrderItem{Product: item.ProductID, ProductPrice: price, Quantity: item.Quantity})
			order.Amount += price * float64(item.Quantity)
		}
		mu.Lock()
		created = append(created, order)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(order)
	})
	mux.HandleFunc("GET /products/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"product_id":1,"name":"Rice 5kg","price":10,"stock":5},{"product_id":2,"name":"Olive Oil","price":25,"stock":2}]`))
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
	service := orders.NewService(api, authSvc, entityStore, bumpCounter{bumps}, nil)

	return &fixture{
		service:    service,
		store:      entityStore,
		sess:       sess,
		createHits: createHits,
		rejectNext: rejectNext,
		slowCreate: slowCreate,
		lastKey:    lastKey,
		bumps:      bumps,
	}
}

func validDraft() orders.Draft {
	return orders.Draft{
		CustomerID: 1,
		Items: []orders.LineItemDraft{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func TestSubmitCreatesOrderAndRefreshesList(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.service.Submit(ctx, fx.sess, validDraft())
	require.NoError(t, err)

	assert.Equal(t, 45.0, created.Amount)
	require.Len(t, created.Items, 2)
	assert.Equal(t, 20.0, created.Items[0].LineTotal())
	assert.Equal(t, 25.0, created.Items[1].LineTotal())

	// The store reflects the full re-fetch, not a local patch.
	require.Len(t, fx.store.Orders(), 1)
	assert.Equal(t, int64(41), fx.store.Orders()[0].OrderID)

	assert.NotEmpty(t, fx.lastKey.Load())
	assert.Equal(t, int64(1), fx.bumps.Load())
}

func TestSubmitRejectsInvalidDraftLocally(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.Submit(context.Background(), fx.sess, orders.Draft{CustomerID: 1})
	var fe shared.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "add at least one item", fe[shared.FieldKey("items")])
	assert.Equal(t, int64(0), fx.createHits.Load(), "invalid drafts never reach the backend")
}

func TestSubmitSurfacesUpstreamFieldErrors(t *testing.T) {
	fx := newFixture(t)
	fx.rejectNext.Store(true)

	draft := validDraft()
	draft.CustomerID = 99
	_, err := fx.service.Submit(context.Background(), fx.sess, draft)

	var fe shared.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe[shared.FieldKey("customer")], "does not exist")
	assert.Equal(t, int64(0), fx.bumps.Load())
}

func TestSubmitGuardsAgainstConcurrentSubmission(t *testing.T) {
	fx := newFixture(t)
	fx.slowCreate.Store(true)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.service.Submit(ctx, fx.sess, validDraft())
		}(i)
	}
	wg.Wait()

	var inflight int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, shared.ErrSubmitInFlight)
			inflight++
		}
	}
	assert.Equal(t, 1, inflight, "exactly one submission is refused")
	assert.Equal(t, int64(1), fx.createHits.Load())
}

func TestSubmitAllowsSequentialOrders(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.Submit(ctx, fx.sess, validDraft())
	require.NoError(t, err)
	_, err = fx.service.Submit(ctx, fx.sess, validDraft())
	require.NoError(t, err)
	assert.Equal(t, int64(2), fx.createHits.Load())
}
