package usecase

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newAdminOrderUsecaseForTest() (*AdminOrderUsecase, *TxManagerMock, *OrderRepoMock, *OrderItemRepoMock) {
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orders, orderItems: orderItems}}
	return NewAdminOrderUsecase(tx, zap.NewNop()), tx, orders, orderItems
}

func TestAdminUpdateStatus_Success(t *testing.T) {
	uc, tx, orders, orderItems := newAdminOrderUsecaseForTest()

	orderID := uuid.New()
	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByIDForUpdate", mock.Anything, orderID).Return(model.Order{
		ID: orderID, UserID: uuid.New(), Status: model.OrderStatusConfirmed,
	}, nil)
	orders.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusShipped).Return(nil)
	orderItems.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{}, nil)

	out, err := uc.UpdateStatus(context.Background(), orderID, model.OrderStatusShipped)

	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, out.Status)
	orders.AssertExpectations(t)
}

// cancelledとpendingは管理APIの遷移先として受け付けない
func TestAdminUpdateStatus_InvalidTarget(t *testing.T) {
	uc, tx, _, _ := newAdminOrderUsecaseForTest()

	for _, status := range []model.OrderStatus{
		model.OrderStatusCancelled, model.OrderStatusPending, "unknown",
	} {
		_, err := uc.UpdateStatus(context.Background(), uuid.New(), status)
		assertAPIErrorCode(t, err, CodeInvalidArgument)
	}

	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// 配達済み・キャンセル済みの注文は動かせない
func TestAdminUpdateStatus_TerminalStates(t *testing.T) {
	uc, tx, orders, _ := newAdminOrderUsecaseForTest()

	orderID := uuid.New()
	tx.On("WithinTx", mock.Anything).Return(nil)

	for _, current := range []model.OrderStatus{
		model.OrderStatusCancelled, model.OrderStatusDelivered,
	} {
		orders.ExpectedCalls = nil
		orders.On("FindByIDForUpdate", mock.Anything, orderID).Return(model.Order{
			ID: orderID, Status: current,
		}, nil)

		_, err := uc.UpdateStatus(context.Background(), orderID, model.OrderStatusShipped)
		assertAPIErrorCode(t, err, CodeInvalidArgument)
	}

	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminUpdateStatus_NotFound(t *testing.T) {
	uc, tx, orders, _ := newAdminOrderUsecaseForTest()

	orderID := uuid.New()
	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByIDForUpdate", mock.Anything, orderID).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.UpdateStatus(context.Background(), orderID, model.OrderStatusShipped)
	assertAPIErrorCode(t, err, CodeNotFound)
}
