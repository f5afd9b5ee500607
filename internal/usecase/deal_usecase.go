package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
)

type DealUsecase struct {
	deals    repo.DealRepository
	products repo.ProductRepository
}

func NewDealUsecase(deals repo.DealRepository, products repo.ProductRepository) *DealUsecase {
	return &DealUsecase{deals: deals, products: products}
}

// DealOutputは導出したstatusを含むAPI表現。statusは保存しない。
type DealOutput struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	Product        model.Product    `json:"product"`
	DealPrice      int64            `json:"deal_price"`
	OriginalPrice  int64            `json:"original_price"`
	DealStock      int64            `json:"deal_stock"`
	RemainingStock int64            `json:"remaining_stock"`
	StartsAt       time.Time        `json:"starts_at"`
	EndsAt         time.Time        `json:"ends_at"`
	Status         model.DealStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

func NewDealOutput(dwp repo.DealWithProduct, now time.Time) DealOutput {
	d := dwp.Deal
	return DealOutput{
		ID:             d.ID,
		ProductID:      d.ProductID,
		Product:        dwp.Product,
		DealPrice:      d.DealPrice,
		OriginalPrice:  dwp.Product.Price,
		DealStock:      d.DealStock,
		RemainingStock: d.RemainingStock,
		StartsAt:       d.StartsAt,
		EndsAt:         d.EndsAt,
		Status:         d.StatusAt(now),
		CreatedAt:      d.CreatedAt,
	}
}

// GetDealは商品込みでディールを返す。statusの導出は呼び出し側で行う。
func (u *DealUsecase) GetDeal(ctx context.Context, dealID uuid.UUID) (repo.DealWithProduct, error) {
	dwp, err := u.deals.FindByID(ctx, dealID)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.DealWithProduct{}, WrapAPIError(http.StatusNotFound, CodeNotFound, "deal not found", err)
	}
	if err != nil {
		return repo.DealWithProduct{}, WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
	}
	return dwp, nil
}

type CreateDealInput struct {
	ProductID uuid.UUID
	DealPrice int64
	DealStock int64
	StartsAt  time.Time
	EndsAt    time.Time
}

func (u *DealUsecase) CreateDeal(ctx context.Context, in CreateDealInput) (DealOutput, error) {
	if in.DealPrice < 0 {
		return DealOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "deal_price must be >= 0")
	}
	if in.DealStock <= 0 {
		return DealOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "deal_stock must be > 0")
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return DealOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "ends_at must be after starts_at")
	}

	//対象商品の存在確認
	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return DealOutput{}, WrapAPIError(http.StatusNotFound, CodeNotFound, "product not found", err)
	}
	if err != nil {
		return DealOutput{}, WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
	}

	d, err := u.deals.Create(ctx, model.Deal{
		ProductID:      in.ProductID,
		DealPrice:      in.DealPrice,
		DealStock:      in.DealStock,
		RemainingStock: in.DealStock,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
	})
	if err != nil {
		return DealOutput{}, WrapAPIError(http.StatusInternalServerError, CodeCreateFailed, "deal create failed", err)
	}

	return NewDealOutput(repo.DealWithProduct{Deal: d, Product: p}, time.Now().UTC()), nil
}

type DealListOutput struct {
	Items []DealOutput `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *DealUsecase) ListActiveDeals(ctx context.Context, page, limit int) (DealListOutput, error) {
	if page < 1 {
		return DealListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return DealListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid limit")
	}

	now := time.Now().UTC()
	items, total, err := u.deals.ListActive(ctx, now, page, limit)
	if err != nil {
		return DealListOutput{}, WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
	}

	out := make([]DealOutput, 0, len(items))
	for _, dwp := range items {
		out = append(out, NewDealOutput(dwp, now))
	}

	return DealListOutput{Items: out, Total: total, Page: page, Limit: limit}, nil
}
