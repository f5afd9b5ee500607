package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shop/internal/domain/model"
	"shop/internal/inventory"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxOrderItems   = 10
	maxItemQuantity = 10
	maxReasonLength = 500
)

// OrderUsecaseは注文作成/キャンセルのオーケストレータ。
// 在庫側との間に共通トランザクションは無く、失敗時は取り済みの予約を
// 逆操作で戻す（補償）。補償の失敗はリトライせずログに残すだけ。
type OrderUsecase struct {
	tx  repo.TransactionManager
	inv inventory.Client
	log *zap.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, inv inventory.Client, log *zap.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, inv: inv, log: log}
}

type OrderItemInput struct {
	ProductID uuid.UUID
	DealID    *uuid.UUID
	Quantity  int64
}

type ShippingAddressInput struct {
	RecipientName string
	Phone         string
	Address       string
	AddressDetail *string
	PostalCode    string
}

type OrderItemOutput struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	DealID      *uuid.UUID `json:"deal_id,omitempty"`
	ProductName string     `json:"product_name"`
	Quantity    int64      `json:"quantity"`
	UnitPrice   int64      `json:"unit_price"`
	Subtotal    int64      `json:"subtotal"`
}

type ShippingAddressOutput struct {
	RecipientName string  `json:"recipient_name"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	AddressDetail *string `json:"address_detail,omitempty"`
	PostalCode    string  `json:"postal_code"`
}

type OrderOutput struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Items           []OrderItemOutput      `json:"items"`
	TotalAmount     int64                  `json:"total_amount"`
	Status          model.OrderStatus      `json:"status"`
	ShippingAddress *ShippingAddressOutput `json:"shipping_address,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason    *string                `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// 予約済み (product, quantity) の組。補償でこの分だけ戻す。
type reservedItem struct {
	productID uuid.UUID
	quantity  int64
}

// CreateOrderは価格解決→在庫予約→注文保存の順で進む。
// どこかで失敗したら、その時点までに取れた予約をすべて解放してから
// 元のエラーを返す。リトライによる二重注文の排除はしない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID uuid.UUID, items []OrderItemInput, shipping *ShippingAddressInput) (OrderOutput, error) {
	if len(items) == 0 || len(items) > maxOrderItems {
		return OrderOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "items must contain 1-10 entries")
	}
	for _, item := range items {
		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			return OrderOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "quantity must be between 1 and 10")
		}
	}

	//1. 価格解決（在庫はまだ触らない）
	orderItems := make([]model.OrderItem, 0, len(items))
	var totalAmount int64

	for i, item := range items {
		var unitPrice int64
		var productName string

		if item.DealID != nil {
			deal, err := u.inv.GetDeal(ctx, *item.DealID)
			if err != nil {
				return OrderOutput{}, mapInventoryErr(err, "deal not found")
			}
			if deal.ProductID != item.ProductID {
				return OrderOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidDeal, "deal does not match product")
			}
			if deal.Status != model.DealStatusActive {
				return OrderOutput{}, NewAPIError(http.StatusBadRequest, CodeDealNotActive, "deal is not active")
			}
			unitPrice = deal.DealPrice
			productName = deal.ProductName
		} else {
			p, err := u.inv.GetProduct(ctx, item.ProductID)
			if err != nil {
				return OrderOutput{}, mapInventoryErr(err, "product not found")
			}
			unitPrice = p.Price
			productName = p.Name
		}

		subtotal := unitPrice * item.Quantity
		totalAmount += subtotal

		orderItems = append(orderItems, model.OrderItem{
			LineNo:      i + 1,
			ProductID:   item.ProductID,
			DealID:      item.DealID,
			ProductName: productName,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
		})
	}

	//2. 在庫予約（リクエスト順、1件でも失敗したら取り済み分を解放して中断）
	reserved := make([]reservedItem, 0, len(items))
	for _, item := range items {
		if _, err := u.inv.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			u.releaseReserved(ctx, reserved)
			return OrderOutput{}, mapInventoryErr(err, "product not found")
		}
		reserved = append(reserved, reservedItem{productID: item.ProductID, quantity: item.Quantity})
	}

	//3. 注文と明細を1トランザクションで保存
	var created model.Order
	var createdItems []model.OrderItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order := model.Order{
			UserID:      userID,
			TotalAmount: totalAmount,
			Status:      model.OrderStatusConfirmed,
		}
		if shipping != nil {
			order.RecipientName = &shipping.RecipientName
			order.Phone = &shipping.Phone
			order.Address = &shipping.Address
			order.AddressDetail = shipping.AddressDetail
			order.PostalCode = &shipping.PostalCode
		}

		var err error
		created, err = r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}

		createdItems, err = r.OrderItems().CreateBulk(ctx, created.ID, orderItems)
		return err
	})
	if err != nil {
		//保存に失敗したら予約を全部戻す
		u.releaseReserved(ctx, reserved)
		return OrderOutput{}, WrapAPIError(http.StatusInternalServerError, CodeCreateFailed, "order create failed", err)
	}

	u.log.Info("order created",
		zap.String("order_id", created.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("total_amount", totalAmount),
		zap.Int("items", len(createdItems)),
	)
	return toOrderOutput(created, createdItems), nil
}

// releaseReservedは取り済みの予約を戻す。ベストエフォートで、
// 失敗してもリトライせずログだけ残す。
func (u *OrderUsecase) releaseReserved(ctx context.Context, reserved []reservedItem) {
	for _, r := range reserved {
		if _, err := u.inv.Release(ctx, r.productID, r.quantity); err != nil {
			u.log.Error("compensation failed",
				zap.String("product_id", r.productID.String()),
				zap.Int64("quantity", r.quantity),
				zap.Error(err),
			)
		}
	}
}

// CancelOrderは注文行をロックして検証し、キャンセル確定後に在庫を戻す。
// 在庫戻しはコミット後に行うため、戻し失敗がキャンセル自体を妨げることはない。
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID, userID uuid.UUID, reason *string) (OrderOutput, error) {
	if reason != nil && len(*reason) > maxReasonLength {
		return OrderOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "reason too long")
	}

	var cancelled model.Order
	var items []model.OrderItem
	now := time.Now().UTC()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//行ロックで同一注文への同時キャンセルを直列化
		order, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return WrapAPIError(http.StatusNotFound, CodeNotFound, "order not found", err)
		}
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}

		if order.UserID != userID {
			return NewAPIError(http.StatusForbidden, CodeForbidden, "not your order")
		}

		//キャンセル済みを含め、pending/confirmed以外は拒否
		if !order.Status.CanCancel() {
			return NewAPIError(http.StatusBadRequest, CodeCannotCancel,
				fmt.Sprintf("order cannot be cancelled in status: %s", order.Status))
		}

		items, err = r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}

		if err := r.Orders().Cancel(ctx, orderID, now, reason); err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeUpdateFailed, "order cancel failed", err)
		}

		cancelled = order
		cancelled.Status = model.OrderStatusCancelled
		cancelled.CancelledAt = &now
		cancelled.CancelReason = reason
		cancelled.UpdatedAt = now
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	//在庫戻しはコミット後。ベストエフォートで失敗はログのみ。
	for _, item := range items {
		if _, err := u.inv.Release(ctx, item.ProductID, item.Quantity); err != nil {
			u.log.Error("stock restore failed",
				zap.String("order_id", orderID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Int64("quantity", item.Quantity),
				zap.Error(err),
			)
		}
	}

	u.log.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID.String()),
	)
	return toOrderOutput(cancelled, items), nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return WrapAPIError(http.StatusNotFound, CodeNotFound, "order not found", err)
		}
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}
		if order.UserID != userID {
			return NewAPIError(http.StatusForbidden, CodeForbidden, "not your order")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}

		out = toOrderOutput(order, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListOrders(ctx context.Context, userID uuid.UUID, page, limit int, status string) (OrderListOutput, error) {
	if page < 1 {
		return OrderListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid limit")
	}
	switch model.OrderStatus(status) {
	case "", model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return OrderListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid status")
	}

	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, t, err := r.Orders().ListByUserID(ctx, userID, repo.OrderListFilter{
			Page:   page,
			Limit:  limit,
			Status: model.OrderStatus(status),
		})
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
		}
		total = t

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}

	return OrderListOutput{Items: outs, Total: total, Page: page, Limit: limit}, nil
}

// 在庫クライアントの分類をAPIエラーへ写す。分類不能はupstream扱い。
func mapInventoryErr(err error, notFoundMsg string) error {
	kind, ok := inventory.KindOf(err)
	if !ok {
		return WrapAPIError(http.StatusBadGateway, CodeUpstream, "inventory service error", err)
	}

	switch kind {
	case inventory.KindNotFound:
		return WrapAPIError(http.StatusNotFound, CodeNotFound, notFoundMsg, err)
	case inventory.KindInsufficientStock:
		return WrapAPIError(http.StatusBadRequest, CodeInsufficientStock, "insufficient stock", err)
	case inventory.KindInvalidArgument:
		return WrapAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid request", err)
	default:
		return WrapAPIError(http.StatusBadGateway, CodeUpstream, "inventory service error", err)
	}
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	out := OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        make([]OrderItemOutput, 0, len(items)),
	}

	if o.RecipientName != nil {
		out.ShippingAddress = &ShippingAddressOutput{
			RecipientName: *o.RecipientName,
			AddressDetail: o.AddressDetail,
		}
		if o.Phone != nil {
			out.ShippingAddress.Phone = *o.Phone
		}
		if o.Address != nil {
			out.ShippingAddress.Address = *o.Address
		}
		if o.PostalCode != nil {
			out.ShippingAddress.PostalCode = *o.PostalCode
		}
	}

	for _, it := range items {
		out.Items = append(out.Items, OrderItemOutput{
			ID:          it.ID,
			ProductID:   it.ProductID,
			DealID:      it.DealID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}

	return out
}
