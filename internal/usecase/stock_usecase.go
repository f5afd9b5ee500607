package usecase

import (
	"context"
	"errors"
	"net/http"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductCacheInvalidatorは在庫更新のコミット後にキャッシュ上の商品を消す。
// キャッシュ未使用の構成ではnil。
type ProductCacheInvalidator interface {
	InvalidateProduct(ctx context.Context, productID uuid.UUID)
}

// StockUsecaseは在庫カウンタの唯一の更新経路。
// 商品行のロックを取ってread-modify-writeするため、同一商品への
// 同時更新はここで直列化され、在庫が負になることはない。
type StockUsecase struct {
	tx    repo.TransactionManager
	cache ProductCacheInvalidator
	log   *zap.Logger
}

func NewStockUsecase(tx repo.TransactionManager, cache ProductCacheInvalidator, log *zap.Logger) *StockUsecase {
	return &StockUsecase{tx: tx, cache: cache, log: log}
}

// Adjustは符号付きdeltaで在庫を更新する（減算=負、加算=正）。
// new_stock < 0 になる更新は拒否し、在庫は変更しない。
func (u *StockUsecase) Adjust(ctx context.Context, productID uuid.UUID, delta int64) (model.Product, error) {
	if delta == 0 {
		return model.Product{}, NewAPIError(http.StatusBadRequest, CodeInvalidArgument, "delta must be non-zero")
	}

	var updated model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return WrapAPIError(http.StatusNotFound, CodeNotFound, "product not found", err)
		}
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeUpdateFailed, "stock update failed", err)
		}

		newStock := p.Stock + delta
		if newStock < 0 {
			return WrapAPIError(http.StatusBadRequest, CodeInsufficientStock, "insufficient stock", repo.ErrInsufficientStock)
		}

		updated, err = r.Products().UpdateStock(ctx, productID, newStock)
		if errors.Is(err, repo.ErrInsufficientStock) {
			return WrapAPIError(http.StatusBadRequest, CodeInsufficientStock, "insufficient stock", err)
		}
		if err != nil {
			return WrapAPIError(http.StatusInternalServerError, CodeUpdateFailed, "stock update failed", err)
		}
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	//在庫はTx内の素のrepoで更新されるので、古い商品キャッシュをここで消す
	if u.cache != nil {
		u.cache.InvalidateProduct(ctx, productID)
	}

	u.log.Debug("stock adjusted",
		zap.String("product_id", productID.String()),
		zap.Int64("delta", delta),
		zap.Int64("stock", updated.Stock),
	)
	return updated, nil
}
