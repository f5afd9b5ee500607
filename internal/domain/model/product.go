package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Productは在庫側が持つ商品。Stockの更新はStockUsecase経由のみ。
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Price       int64     `gorm:"not null" json:"price"`
	Stock       int64     `gorm:"not null;check:stock >= 0" json:"stock"`
	Category    *string   `gorm:"type:varchar(100);index" json:"category,omitempty"`
	ImageURL    *string   `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
