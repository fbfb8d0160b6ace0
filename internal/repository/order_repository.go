package repository

import (
	"context"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) error

	//検索（同じ決済参照なら同じ注文を返す）
	FindByPaymentReference(ctx context.Context, reference string) (model.Order, bool, error)
}
