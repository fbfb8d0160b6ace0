package repository

import (
	"context"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"
)

type CartItemRepository interface {
	// 商品をJOINした明細一覧
	ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error)
}
