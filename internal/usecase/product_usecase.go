package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
)

type ProductUsecase struct {
	products repo.ProductRepository
}

func NewProductUsecase(products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{products: products}
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID uuid.UUID) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, WrapAPIError(http.StatusNotFound, CodeNotFound, "product not found", err)
	}
	if err != nil {
		return model.Product{}, WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
	}
	return p, nil
}

type CreateProductInput struct {
	Name        string
	Description *string
	Price       int64
	Stock       int64
	Category    *string
	ImageURL    *string
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "price must be >= 0")
	}
	if in.Stock < 0 {
		return model.Product{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "stock must be >= 0")
	}

	p, err := u.products.Create(ctx, model.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return model.Product{}, WrapAPIError(http.StatusInternalServerError, CodeCreateFailed, "product create failed", err)
	}
	return p, nil
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	ImageURL    *string
}

// UpdateProductはカタログ情報の更新。在庫はStockUsecase経由でしか変わらない。
// 過去の注文明細はスナップショットなので価格変更の影響を受けない。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID uuid.UUID, in UpdateProductInput) (model.Product, error) {
	existing, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, WrapAPIError(http.StatusNotFound, CodeNotFound, "product not found", err)
	}
	if err != nil {
		return model.Product{}, WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 255 {
			return model.Product{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid name")
		}
		existing.Name = name
	}
	if in.Description != nil {
		existing.Description = in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.Product{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "price must be >= 0")
		}
		existing.Price = *in.Price
	}
	if in.Category != nil {
		existing.Category = in.Category
	}
	if in.ImageURL != nil {
		existing.ImageURL = in.ImageURL
	}

	updated, err := u.products.Update(ctx, existing)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, WrapAPIError(http.StatusNotFound, CodeNotFound, "product not found", err)
	}
	if err != nil {
		return model.Product{}, WrapAPIError(http.StatusInternalServerError, CodeUpdateFailed, "product update failed", err)
	}
	return updated, nil
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, page, limit int, category string) (ProductListOutput, error) {
	if page < 1 {
		return ProductListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ProductListOutput{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "invalid limit")
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{Page: page, Limit: limit, Category: category})
	if err != nil {
		return ProductListOutput{}, WrapAPIError(http.StatusInternalServerError, CodeInternal, "db error", err)
	}

	return ProductListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
