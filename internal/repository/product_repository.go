package repository

import (
	"context"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

type ProductListQuery struct {
	Page     int
	Limit    int
	Category string
}

type ProductRepository interface {
	FindByID(ctx context.Context, productID uuid.UUID) (model.Product, error)

	//行ロック付き取得。在庫の読み書きを商品単位で直列化する。Tx内でのみ意味を持つ。
	FindByIDForUpdate(ctx context.Context, productID uuid.UUID) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)

	//在庫値の更新。呼び出しはStockUsecase（ロック取得済みのTx内）からのみ。
	UpdateStock(ctx context.Context, productID uuid.UUID, newStock int64) (model.Product, error)
}
