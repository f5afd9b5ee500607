package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminOrderUsecaseは配送系の状態遷移を扱う。
// キャンセルはOrderUsecase側の経路のみ（在庫戻しを伴うため）。
type AdminOrderUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, log *zap.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, log: log}
}

func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (OrderOutput, error) {
	switch status {
	case model.OrderStatusConfirmed, model.OrderStatusShipped, model.OrderStatusDelivered:
	default:
		return OrderOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid status")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return WrapAPIError(http.StatusNotFound, CodeNotFound, "order not found", err)
		}
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}

		//キャンセル済みと配達済みは動かさない
		if order.Status == model.OrderStatusCancelled || order.Status == model.OrderStatusDelivered {
			return NewAPIError(http.StatusBadRequest, CodeInvalidArgument,
				fmt.Sprintf("cannot change order in status: %s", order.Status))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeUpdateFailed, "order update failed", err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}

		order.Status = status
		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.log.Info("order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}
