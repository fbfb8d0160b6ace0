package model

import "time"

// カートの明細
// 価格は持たず、注文確定時に商品から読む。
type CartItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CartID    string    `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID string    `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Size      string    `gorm:"type:varchar(50)" json:"size"`
	Color     string    `gorm:"type:varchar(50)" json:"color"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartItem) TableName() string { return "cart_items" }
