package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

// DealWithProductは対象商品込みのディール
type DealWithProduct struct {
	Deal    model.Deal
	Product model.Product
}

type DealRepository interface {
	FindByID(ctx context.Context, dealID uuid.UUID) (DealWithProduct, error)
	Create(ctx context.Context, d model.Deal) (model.Deal, error)

	//開催中（starts_at <= now <= ends_at）のディール一覧
	ListActive(ctx context.Context, now time.Time, page, limit int) ([]DealWithProduct, int64, error)
}
