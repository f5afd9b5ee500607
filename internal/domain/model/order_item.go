package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItemは注文明細。product_name / unit_price は注文時点のスナップショットで、
// 以後のカタログ変更には追従しない。
// line_noはリクエスト内の並び（1始まり）。読み出し順のキーに使う。
type OrderItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	LineNo      int        `gorm:"not null" json:"line_no"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	DealID      *uuid.UUID `gorm:"type:uuid" json:"deal_id,omitempty"`
	ProductName string     `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int64      `gorm:"not null" json:"quantity"`
	UnitPrice   int64      `gorm:"not null" json:"unit_price"`
	Subtotal    int64      `gorm:"not null" json:"subtotal"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
