package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// 決済ゲートウェイの検証結果
type PaymentVerification struct {
	// "success" のときだけ支払い済み
	Status    string
	Reference string
	// 最小通貨単位（pesewas）
	Amount   int64
	Currency string
	Channel  string
	PaidAt   *time.Time
	// ゲートウェイのdataをそのまま返す
	Raw json.RawMessage
}

// 決済参照をゲートウェイに問い合わせる
type PaymentVerifier interface {
	// 秘密鍵が設定されているか
	Configured() bool
	Verify(ctx context.Context, reference string) (PaymentVerification, error)
}

// 注文確定の入力チェック
type OrderValidator interface {
	ValidateFinalizeOrder(ctx context.Context, in FinalizeOrderInput) error
}

// 認証済みの呼び出し元
type Caller struct {
	ID    string
	Email string
	Phone string
	Name  string
}

// Authorizationヘッダから呼び出し元を解決する
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (Caller, error)
}

var ErrReferenceLocked = errors.New("payment reference is being processed")

// 同じ決済参照の同時実行を防ぐ
type ReferenceLocker interface {
	Acquire(ctx context.Context, reference string) (release func(), err error)
}

// 注文確定イベントの送信
type OrderEventPublisher interface {
	PublishOrderFinalized(ctx context.Context, order OrderOutput) error
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}
