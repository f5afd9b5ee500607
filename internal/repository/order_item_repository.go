package repository

import (
	"context"

	"shop/internal/domain/model"

	"github.com/google/uuid"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
}
