package repository

import (
	"context"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"
)

type CartRepository interface {
	// ユーザーのカートを1件取得（無ければErrNotFound）
	FindByUserID(ctx context.Context, userID string) (model.Cart, error)
	// カート明細を全削除
	Clear(ctx context.Context, cartID string) error
}
