package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品のタイトル・画像・価格は購入時点のスナップショット
type OrderItem struct {
	ID               string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID        string          `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductTitle     string          `gorm:"type:varchar(255);not null" json:"product_title"`
	ProductThumbnail string          `gorm:"type:text" json:"product_thumbnail"`
	Quantity         int64           `gorm:"not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Size             string          `gorm:"type:varchar(50)" json:"size"`
	Color            string          `gorm:"type:varchar(50)" json:"color"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
