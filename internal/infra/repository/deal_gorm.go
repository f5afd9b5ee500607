package repository

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DealGormRepository struct {
	db *gorm.DB
}

func NewDealGormRepository(db *gorm.DB) *DealGormRepository {
	return &DealGormRepository{db: db}
}

func (r *DealGormRepository) FindByID(ctx context.Context, dealID uuid.UUID) (repo.DealWithProduct, error) {
	var d model.Deal
	err := r.db.WithContext(ctx).Where("id = ?", dealID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.DealWithProduct{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.DealWithProduct{}, err
	}

	var p model.Product
	err = r.db.WithContext(ctx).Where("id = ?", d.ProductID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		//対象商品が消えているディールは壊れている扱い
		return repo.DealWithProduct{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.DealWithProduct{}, err
	}

	return repo.DealWithProduct{Deal: d, Product: p}, nil
}

func (r *DealGormRepository) Create(ctx context.Context, d model.Deal) (model.Deal, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.Deal{}, err
	}
	return d, nil
}

func (r *DealGormRepository) ListActive(ctx context.Context, now time.Time, page, limit int) ([]repo.DealWithProduct, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	//商品行が消えたディールは一覧に出さないので、totalも結合後に数える
	q := r.db.WithContext(ctx).Model(&model.Deal{}).
		Joins("JOIN products ON products.id = deals.product_id").
		Where("deals.starts_at <= ? AND deals.ends_at >= ?", now, now)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deals []model.Deal
	offset := (page - 1) * limit
	if err := q.Select("deals.*").Order("deals.starts_at asc").Limit(limit).Offset(offset).Find(&deals).Error; err != nil {
		return nil, 0, err
	}

	out := make([]repo.DealWithProduct, 0, len(deals))
	for _, d := range deals {
		var p model.Product
		if err := r.db.WithContext(ctx).Where("id = ?", d.ProductID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				//結合後に消えた場合だけ。totalとの差は次の読み直しで解消する
				continue
			}
			return nil, 0, err
		}
		out = append(out, repo.DealWithProduct{Deal: d, Product: p})
	}

	return out, total, nil
}
