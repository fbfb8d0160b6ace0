package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Order struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Vendor      string          `gorm:"type:varchar(100);not null" json:"vendor"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_fee"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Currency    string          `gorm:"type:varchar(3);not null" json:"currency"`

	//注文時点の顧客情報
	CustomerName  string `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone"`

	ShippingAddress datatypes.JSON `gorm:"type:jsonb" json:"shipping_address"`

	PaymentMethod    string        `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentStatus    PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentReference string        `gorm:"type:varchar(255);not null;uniqueIndex" json:"payment_reference"`
	PaidAt           *time.Time    `json:"paid_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
