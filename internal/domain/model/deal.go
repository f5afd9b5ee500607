package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DealStatusは保存しない。毎回 DealStatusAt で導出する。
type DealStatus string

const (
	DealStatusScheduled DealStatus = "scheduled"
	DealStatusActive    DealStatus = "active"
	DealStatusEnded     DealStatus = "ended"
	DealStatusSoldOut   DealStatus = "sold_out"
)

// Dealは期間・数量限定の特価。RemainingStockは単調非増加。
type Deal struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	DealPrice      int64     `gorm:"not null" json:"deal_price"`
	DealStock      int64     `gorm:"not null" json:"deal_stock"`
	RemainingStock int64     `gorm:"not null" json:"remaining_stock"`
	StartsAt       time.Time `gorm:"not null" json:"starts_at"`
	EndsAt         time.Time `gorm:"not null" json:"ends_at"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DealStatusAtは時刻と残数から状態を導出する。
// 売り切れは期間判定より優先。starts_atちょうどはactive、ends_at超過でended。
func DealStatusAt(now time.Time, startsAt, endsAt time.Time, remainingStock int64) DealStatus {
	if remainingStock <= 0 {
		return DealStatusSoldOut
	}
	if now.Before(startsAt) {
		return DealStatusScheduled
	}
	if now.After(endsAt) {
		return DealStatusEnded
	}
	return DealStatusActive
}

// StatusAtはレシーバ版のヘルパー
func (d *Deal) StatusAt(now time.Time) DealStatus {
	return DealStatusAt(now, d.StartsAt, d.EndsAt, d.RemainingStock)
}
