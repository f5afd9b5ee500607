package usecase

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type DealRepoMock struct{ mock.Mock }

func (m *DealRepoMock) FindByID(ctx context.Context, dealID uuid.UUID) (repo.DealWithProduct, error) {
	args := m.Called(ctx, dealID)
	dwp, _ := args.Get(0).(repo.DealWithProduct)
	return dwp, args.Error(1)
}

func (m *DealRepoMock) Create(ctx context.Context, d model.Deal) (model.Deal, error) {
	args := m.Called(ctx, d)
	out, _ := args.Get(0).(model.Deal)
	return out, args.Error(1)
}

func (m *DealRepoMock) ListActive(ctx context.Context, now time.Time, page, limit int) ([]repo.DealWithProduct, int64, error) {
	args := m.Called(ctx, now, page, limit)
	items, _ := args.Get(0).([]repo.DealWithProduct)
	return items, args.Get(1).(int64), args.Error(2)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) FindByID(ctx context.Context, productID uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDForUpdate(ctx context.Context, productID uuid.UUID) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) UpdateStock(ctx context.Context, productID uuid.UUID, newStock int64) (model.Product, error) {
	args := m.Called(ctx, productID, newStock)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func TestCreateDeal_Validation(t *testing.T) {
	deals := &DealRepoMock{}
	products := &ProductRepoMock{}
	uc := NewDealUsecase(deals, products)

	starts := time.Now()
	ends := starts.Add(time.Hour)

	tests := []struct {
		name string
		in   CreateDealInput
	}{
		{"負の価格", CreateDealInput{ProductID: uuid.New(), DealPrice: -1, DealStock: 10, StartsAt: starts, EndsAt: ends}},
		{"在庫0", CreateDealInput{ProductID: uuid.New(), DealPrice: 100, DealStock: 0, StartsAt: starts, EndsAt: ends}},
		{"期間が逆転", CreateDealInput{ProductID: uuid.New(), DealPrice: 100, DealStock: 10, StartsAt: ends, EndsAt: starts}},
		{"期間が同時刻", CreateDealInput{ProductID: uuid.New(), DealPrice: 100, DealStock: 10, StartsAt: starts, EndsAt: starts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateDeal(context.Background(), tt.in)
			assertAPIErrorCode(t, err, CodeInvalidArgument)
		})
	}

	deals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDeal_ProductNotFound(t *testing.T) {
	deals := &DealRepoMock{}
	products := &ProductRepoMock{}
	uc := NewDealUsecase(deals, products)

	productID := uuid.New()
	products.On("FindByID", mock.Anything, productID).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.CreateDeal(context.Background(), CreateDealInput{
		ProductID: productID,
		DealPrice: 100,
		DealStock: 10,
		StartsAt:  time.Now(),
		EndsAt:    time.Now().Add(time.Hour),
	})

	assertAPIErrorCode(t, err, CodeNotFound)
	deals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// remaining_stockは作成時にdeal_stockで初期化され、以後の導出に使われる
func TestCreateDeal_InitializesRemainingStock(t *testing.T) {
	deals := &DealRepoMock{}
	products := &ProductRepoMock{}
	uc := NewDealUsecase(deals, products)

	productID := uuid.New()
	starts := time.Now().Add(-time.Minute)
	ends := starts.Add(time.Hour)

	products.On("FindByID", mock.Anything, productID).
		Return(model.Product{ID: productID, Name: "apple", Price: 1000}, nil)
	deals.On("Create", mock.Anything, mock.MatchedBy(func(d model.Deal) bool {
		return d.DealStock == 30 && d.RemainingStock == 30
	})).Return(model.Deal{
		ID: uuid.New(), ProductID: productID, DealPrice: 700,
		DealStock: 30, RemainingStock: 30, StartsAt: starts, EndsAt: ends,
	}, nil)

	out, err := uc.CreateDeal(context.Background(), CreateDealInput{
		ProductID: productID,
		DealPrice: 700,
		DealStock: 30,
		StartsAt:  starts,
		EndsAt:    ends,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(30), out.RemainingStock)
	assert.Equal(t, int64(1000), out.OriginalPrice)
	assert.Equal(t, model.DealStatusActive, out.Status)
	deals.AssertExpectations(t)
}

func TestGetDeal_NotFound(t *testing.T) {
	deals := &DealRepoMock{}
	uc := NewDealUsecase(deals, &ProductRepoMock{})

	dealID := uuid.New()
	deals.On("FindByID", mock.Anything, dealID).Return(repo.DealWithProduct{}, repo.ErrNotFound)

	_, err := uc.GetDeal(context.Background(), dealID)
	assertAPIErrorCode(t, err, CodeNotFound)
}

func TestListActiveDeals_DerivesStatusPerItem(t *testing.T) {
	deals := &DealRepoMock{}
	uc := NewDealUsecase(deals, &ProductRepoMock{})

	productID := uuid.New()
	//開催中だが売り切れのディール
	soldOut := repo.DealWithProduct{
		Deal: model.Deal{
			ID: uuid.New(), ProductID: productID, DealPrice: 500,
			DealStock: 10, RemainingStock: 0,
			StartsAt: time.Now().Add(-time.Hour), EndsAt: time.Now().Add(time.Hour),
		},
		Product: model.Product{ID: productID, Name: "a", Price: 800},
	}
	active := repo.DealWithProduct{
		Deal: model.Deal{
			ID: uuid.New(), ProductID: productID, DealPrice: 500,
			DealStock: 10, RemainingStock: 3,
			StartsAt: time.Now().Add(-time.Hour), EndsAt: time.Now().Add(time.Hour),
		},
		Product: model.Product{ID: productID, Name: "a", Price: 800},
	}

	deals.On("ListActive", mock.Anything, mock.Anything, 1, 20).
		Return([]repo.DealWithProduct{soldOut, active}, int64(2), nil)

	out, err := uc.ListActiveDeals(context.Background(), 1, 20)

	assert.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, model.DealStatusSoldOut, out.Items[0].Status)
	assert.Equal(t, model.DealStatusActive, out.Items[1].Status)
}

func TestListActiveDeals_InvalidPaging(t *testing.T) {
	uc := NewDealUsecase(&DealRepoMock{}, &ProductRepoMock{})

	_, err := uc.ListActiveDeals(context.Background(), 0, 20)
	assertAPIErrorCode(t, err, CodeInvalidArgument)

	_, err = uc.ListActiveDeals(context.Background(), 1, 101)
	assertAPIErrorCode(t, err, CodeInvalidArgument)
}
