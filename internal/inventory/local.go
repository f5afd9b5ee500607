package inventory

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	"shop/internal/repository"

	"github.com/google/uuid"
)

// 在庫側のユースケースをそのまま呼ぶための小さな約束。
// usecaseパッケージへの依存を作らないためここで宣言する。
type ProductGetter interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (model.Product, error)
}

type DealGetter interface {
	GetDeal(ctx context.Context, dealID uuid.UUID) (repository.DealWithProduct, error)
}

type StockAdjuster interface {
	Adjust(ctx context.Context, productID uuid.UUID, delta int64) (model.Product, error)
}

// LocalClientは同一プロセス内の在庫側を直接呼ぶClient実装。
// 単一バイナリ構成やテストで使う。
type LocalClient struct {
	products ProductGetter
	deals    DealGetter
	stock    StockAdjuster
}

func NewLocalClient(products ProductGetter, deals DealGetter, stock StockAdjuster) *LocalClient {
	return &LocalClient{products: products, deals: deals, stock: stock}
}

func (c *LocalClient) GetProduct(ctx context.Context, productID uuid.UUID) (Product, error) {
	p, err := c.products.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, normalizeLocalErr(err, "product lookup failed")
	}
	return Product{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}, nil
}

func (c *LocalClient) GetDeal(ctx context.Context, dealID uuid.UUID) (Deal, error) {
	dwp, err := c.deals.GetDeal(ctx, dealID)
	if err != nil {
		return Deal{}, normalizeLocalErr(err, "deal lookup failed")
	}
	d := dwp.Deal
	return Deal{
		ID:             d.ID,
		ProductID:      d.ProductID,
		ProductName:    dwp.Product.Name,
		DealPrice:      d.DealPrice,
		RemainingStock: d.RemainingStock,
		StartsAt:       d.StartsAt,
		EndsAt:         d.EndsAt,
		Status:         d.StatusAt(time.Now().UTC()),
	}, nil
}

func (c *LocalClient) Reserve(ctx context.Context, productID uuid.UUID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, &Error{Kind: KindInvalidArgument, Message: "quantity must be positive"}
	}
	p, err := c.stock.Adjust(ctx, productID, -quantity)
	if err != nil {
		return 0, normalizeLocalErr(err, "stock reserve failed")
	}
	return p.Stock, nil
}

func (c *LocalClient) Release(ctx context.Context, productID uuid.UUID, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, &Error{Kind: KindInvalidArgument, Message: "quantity must be positive"}
	}
	p, err := c.stock.Adjust(ctx, productID, quantity)
	if err != nil {
		return 0, normalizeLocalErr(err, "stock release failed")
	}
	return p.Stock, nil
}

func (c *LocalClient) Close() error { return nil }

// repo層のsentinelを意味的な分類へ寄せる。それ以外はupstream扱い。
func normalizeLocalErr(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: "not found"}
	case errors.Is(err, repository.ErrInsufficientStock):
		return &Error{Kind: KindInsufficientStock, Message: "insufficient stock"}
	default:
		return &Error{Kind: KindUpstream, Message: msg}
	}
}
