package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPClient_GetProduct(t *testing.T) {
	productID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/"+productID.String(), r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id": productID, "name": "apple", "price": 1000, "stock": 42,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	defer c.Close()

	p, err := c.GetProduct(context.Background(), productID)
	assert.NoError(t, err)
	assert.Equal(t, "apple", p.Name)
	assert.Equal(t, int64(1000), p.Price)
	assert.Equal(t, int64(42), p.Stock)
}

func TestHTTPClient_GetDeal(t *testing.T) {
	dealID := uuid.New()
	productID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deals/"+dealID.String(), r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":              dealID,
			"product_id":      productID,
			"deal_price":      500,
			"remaining_stock": 7,
			"starts_at":       time.Now().Add(-time.Hour),
			"ends_at":         time.Now().Add(time.Hour),
			"status":          "active",
			"product":         map[string]any{"id": productID, "name": "limited", "price": 800, "stock": 7},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	defer c.Close()

	d, err := c.GetDeal(context.Background(), dealID)
	assert.NoError(t, err)
	assert.Equal(t, productID, d.ProductID)
	assert.Equal(t, "limited", d.ProductName)
	assert.Equal(t, int64(500), d.DealPrice)
	assert.Equal(t, model.DealStatusActive, d.Status)
}

func TestHTTPClient_GetDeal_UnknownStatus(t *testing.T) {
	dealID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": dealID, "status": "paused"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	defer c.Close()

	_, err := c.GetDeal(context.Background(), dealID)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindUpstream, kind)
}

// Reserveは負のdelta、Releaseは正のdeltaをPATCHで送る
func TestHTTPClient_ReserveAndRelease_Delta(t *testing.T) {
	productID := uuid.New()
	var deltas []int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/products/"+productID.String()+"/stock", r.URL.Path)

		var body map[string]int64
		json.NewDecoder(r.Body).Decode(&body)
		deltas = append(deltas, body["delta"])

		json.NewEncoder(w).Encode(map[string]any{"product_id": productID, "stock": 10})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	defer c.Close()

	stock, err := c.Reserve(context.Background(), productID, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), stock)

	_, err = c.Release(context.Background(), productID, 3)
	assert.NoError(t, err)

	assert.Equal(t, []int64{-3, 3}, deltas)
}

// 0以下の数量はリモートへ出さずに弾く（LocalClientと同じ振る舞い）
func TestHTTPClient_RejectsNonPositiveQuantity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	defer c.Close()

	for _, qty := range []int64{0, -1} {
		_, err := c.Reserve(context.Background(), uuid.New(), qty)
		kind, ok := KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, KindInvalidArgument, kind)

		_, err = c.Release(context.Background(), uuid.New(), qty)
		kind, ok = KindOf(err)
		assert.True(t, ok)
		assert.Equal(t, KindInvalidArgument, kind)
	}
}

func TestHTTPClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]string
		want   Kind
	}{
		{"404はNotFound", http.StatusNotFound, map[string]string{"error": "NOT_FOUND", "message": "no such product"}, KindNotFound},
		{"400+在庫不足コード", http.StatusBadRequest, map[string]string{"error": "INSUFFICIENT_STOCK", "message": "insufficient stock"}, KindInsufficientStock},
		{"400その他", http.StatusBadRequest, map[string]string{"error": "INVALID_ARGUMENT", "message": "bad delta"}, KindInvalidArgument},
		{"400ボディ無し", http.StatusBadRequest, nil, KindInvalidArgument},
		{"500はUpstream", http.StatusInternalServerError, nil, KindUpstream},
		{"503はUpstream", http.StatusServiceUnavailable, nil, KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != nil {
					json.NewEncoder(w).Encode(tt.body)
				}
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, time.Second)
			defer c.Close()

			_, err := c.GetProduct(context.Background(), uuid.New())
			kind, ok := KindOf(err)
			assert.True(t, ok, "expected inventory.Error, got %v", err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

// 応答が返らない場合もupstream扱いに寄せる
func TestHTTPClient_TimeoutIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, 50*time.Millisecond)
	defer c.Close()

	_, err := c.GetProduct(context.Background(), uuid.New())
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindUpstream, kind)
}
