package inventory

import (
	"context"
	"fmt"
	"time"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

// Kindは在庫側の失敗を呼び出し側へ見せる意味的な分類。
// トランスポート固有のエラー形はこの層で吸収し、上には出さない。
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindUpstream          Kind = "UPSTREAM_SERVICE_ERROR"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOfはClientが返したエラーの分類を取り出す。Client由来でなければfalse。
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	if ie, ok := err.(*Error); ok {
		return ie.Kind, true
	}
	return "", false
}

type Product struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price int64     `json:"price"`
	Stock int64     `json:"stock"`
}

type Deal struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	ProductName    string           `json:"product_name"`
	DealPrice      int64            `json:"deal_price"`
	RemainingStock int64            `json:"remaining_stock"`
	StartsAt       time.Time        `json:"starts_at"`
	EndsAt         time.Time        `json:"ends_at"`
	Status         model.DealStatus `json:"status"`
}

// Clientは在庫側への参照と符号付き在庫調整。
// Reserveは負のdelta、Releaseは正のdeltaに相当し、結果の在庫数を返す。
type Client interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (Product, error)
	GetDeal(ctx context.Context, dealID uuid.UUID) (Deal, error)
	Reserve(ctx context.Context, productID uuid.UUID, quantity int64) (int64, error)
	Release(ctx context.Context, productID uuid.UUID, quantity int64) (int64, error)
	Close() error
}
