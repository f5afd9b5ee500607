package repository

import (
	"context"
	"time"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status model.OrderStatus
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (model.Order, error)

	//行ロック付き取得（キャンセルの直列化に使う）。Tx内でのみ意味を持つ。
	FindByIDForUpdate(ctx context.Context, orderID uuid.UUID) (model.Order, error)

	Create(ctx context.Context, order model.Order) (model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, f OrderListFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error

	//status=cancelledへ遷移しcancelled_at/cancel_reasonを記録する
	Cancel(ctx context.Context, orderID uuid.UUID, at time.Time, reason *string) error
}
