package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Thumbnail string          `gorm:"type:text" json:"thumbnail"`
	Images    datatypes.JSON  `gorm:"type:jsonb" json:"images"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// サムネイルが無ければ画像の1枚目を使う
func (p Product) DisplayImage() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	var images []string
	if err := json.Unmarshal(p.Images, &images); err != nil || len(images) == 0 {
		return ""
	}
	return images[0]
}
