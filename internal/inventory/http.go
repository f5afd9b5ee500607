package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

// HTTPClientはリモートの在庫サービスを呼ぶClient実装。
// コネクションは共有のhttp.Clientでプールし、呼び出しごとに固定タイムアウトを切る。
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	timeout time.Duration
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout: timeout,
	}
}

type productPayload struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
	Stock int64     `json:"stock"`
}

type dealPayload struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	DealPrice      int64           `json:"deal_price"`
	RemainingStock int64           `json:"remaining_stock"`
	StartsAt       time.Time       `json:"starts_at"`
	EndsAt         time.Time       `json:"ends_at"`
	Status         string          `json:"status"`
	Product        *productPayload `json:"product,omitempty"`
}

type stockPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Stock     int64     `json:"stock"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) GetProduct(ctx context.Context, productID uuid.UUID) (Product, error) {
	var out productPayload
	if err := c.do(ctx, http.MethodGet, "/products/"+productID.String(), nil, &out); err != nil {
		return Product{}, err
	}
	return Product{ID: out.ID, Name: out.Name, Price: out.Price, Stock: out.Stock}, nil
}

func (c *HTTPClient) GetDeal(ctx context.Context, dealID uuid.UUID) (Deal, error) {
	var out dealPayload
	if err := c.do(ctx, http.MethodGet, "/deals/"+dealID.String(), nil, &out); err != nil {
		return Deal{}, err
	}
	d := Deal{
		ID:             out.ID,
		ProductID:      out.ProductID,
		DealPrice:      out.DealPrice,
		RemainingStock: out.RemainingStock,
		StartsAt:       out.StartsAt,
		EndsAt:         out.EndsAt,
	}
	if out.Product != nil {
		d.ProductName = out.Product.Name
	}
	//statusは在庫側が導出した値をそのまま使う
	switch out.Status {
	case "scheduled", "active", "ended", "sold_out":
		d.Status = model.DealStatus(out.Status)
	default:
		return Deal{}, &Error{Kind: KindUpstream, Message: fmt.Sprintf("unknown deal status: %s", out.Status)}
	}
	return d, nil
}

func (c *HTTPClient) Reserve(ctx context.Context, productID uuid.UUID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, &Error{Kind: KindInvalidArgument, Message: "quantity must be positive"}
	}
	return c.adjust(ctx, productID, -quantity)
}

func (c *HTTPClient) Release(ctx context.Context, productID uuid.UUID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, &Error{Kind: KindInvalidArgument, Message: "quantity must be positive"}
	}
	return c.adjust(ctx, productID, quantity)
}

func (c *HTTPClient) adjust(ctx context.Context, productID uuid.UUID, delta int64) (int64, error) {
	body := map[string]int64{"delta": delta}
	var out stockPayload
	if err := c.do(ctx, http.MethodPatch, "/products/"+productID.String()+"/stock", body, &out); err != nil {
		return 0, err
	}
	return out.Stock, nil
}

func (c *HTTPClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindInvalidArgument, Message: "request encode failed"}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindUpstream, Message: "request build failed"}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		//タイムアウトも接続失敗もまとめてupstream扱い
		return &Error{Kind: KindUpstream, Message: fmt.Sprintf("inventory service unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindUpstream, Message: "response decode failed"}
		}
		return nil
	}

	return normalizeHTTPErr(resp)
}

// HTTPのステータスとエラーボディを意味的な分類へ寄せる
func normalizeHTTPErr(resp *http.Response) error {
	var ep errorPayload
	//ボディが読めなくても分類はステータスから決める
	_ = json.NewDecoder(resp.Body).Decode(&ep)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: messageOr(ep, "not found")}
	case resp.StatusCode == http.StatusBadRequest && ep.Error == string(KindInsufficientStock):
		return &Error{Kind: KindInsufficientStock, Message: messageOr(ep, "insufficient stock")}
	case resp.StatusCode == http.StatusBadRequest:
		return &Error{Kind: KindInvalidArgument, Message: messageOr(ep, "invalid argument")}
	default:
		return &Error{Kind: KindUpstream, Message: fmt.Sprintf("inventory service error: %d", resp.StatusCode)}
	}
}

func messageOr(ep errorPayload, def string) string {
	if ep.Message != "" {
		return ep.Message
	}
	return def
}
