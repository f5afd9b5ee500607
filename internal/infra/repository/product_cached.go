package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProductCachedRepositoryは読み取りだけRedisを経由するProductRepository。
// 内側のrepositoryを保持する合成で、書き込みは素通しして該当キーを無効化する。
// キャッシュは在庫値を含む商品全体なので、Tx経由の在庫更新後は
// InvalidateProductで消してもらう必要がある。
type ProductCachedRepository struct {
	inner repo.ProductRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCachedRepository(inner repo.ProductRepository, redisClient *redis.Client, ttl time.Duration) *ProductCachedRepository {
	return &ProductCachedRepository{inner: inner, redis: redisClient, ttl: ttl}
}

func (r *ProductCachedRepository) productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id.String())
}

func (r *ProductCachedRepository) FindByID(ctx context.Context, productID uuid.UUID) (model.Product, error) {
	key := r.productKey(productID)

	cached, err := r.redis.Get(ctx, key).Bytes()
	if err == nil {
		var p model.Product
		if json.Unmarshal(cached, &p) == nil {
			return p, nil
		}
	}

	p, err := r.inner.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		//キャッシュ失敗は無視（読み取りはDBで成立している）
		r.redis.Set(ctx, key, data, r.ttl)
	}

	return p, nil
}

// ロック付き読みはキャッシュ不可
func (r *ProductCachedRepository) FindByIDForUpdate(ctx context.Context, productID uuid.UUID) (model.Product, error) {
	return r.inner.FindByIDForUpdate(ctx, productID)
}

// InvalidateProductは商品キーを消す。Tx内の在庫更新はこのwrapperを
// 通らないため、コミット後に呼び出し側から無効化する。
func (r *ProductCachedRepository) InvalidateProduct(ctx context.Context, productID uuid.UUID) {
	r.redis.Del(ctx, r.productKey(productID))
}

func (r *ProductCachedRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	return r.inner.Create(ctx, p)
}

func (r *ProductCachedRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	updated, err := r.inner.Update(ctx, p)
	if err != nil {
		return model.Product{}, err
	}
	r.redis.Del(ctx, r.productKey(p.ID))
	return updated, nil
}

func (r *ProductCachedRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	//一覧はフィルタの組合せが多いのでキャッシュしない
	return r.inner.List(ctx, q)
}

func (r *ProductCachedRepository) UpdateStock(ctx context.Context, productID uuid.UUID, newStock int64) (model.Product, error) {
	p, err := r.inner.UpdateStock(ctx, productID, newStock)
	if err != nil {
		return model.Product{}, err
	}
	r.redis.Del(ctx, r.productKey(productID))
	return p, nil
}
