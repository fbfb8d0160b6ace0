package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"
	repo "github.com/Stephen-J4455/ExpressMart-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	paymentStatusSuccess = "success"
	defaultPaymentMethod = "paystack"

	defaultEventTimeout = 2 * time.Second
)

// 注文の固定値
type OrderSettings struct {
	Vendor   string
	Currency string
	// イベント送信の上限時間（0ならdefaultEventTimeout）
	EventTimeout time.Duration
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	carts    repo.CartRepository
	payments PaymentVerifier
	validate OrderValidator
	auth     Authenticator
	locker   ReferenceLocker
	events   OrderEventPublisher
	idGen    IDGenerator
	clock    Clock
	settings OrderSettings
	logger   *zap.Logger
}

// DI
// validator, locker, eventsはnilなら使わない
func NewOrderUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	payments PaymentVerifier,
	validator OrderValidator,
	auth Authenticator,
	locker ReferenceLocker,
	events OrderEventPublisher,
	idGen IDGenerator,
	clock Clock,
	settings OrderSettings,
	logger *zap.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.EventTimeout <= 0 {
		settings.EventTimeout = defaultEventTimeout
	}
	return &OrderUsecase{
		tx:       tx,
		carts:    carts,
		payments: payments,
		validate: validator,
		auth:     auth,
		locker:   locker,
		events:   events,
		idGen:    idGen,
		clock:    clock,
		settings: settings,
		logger:   logger,
	}
}

type FinalizeOrderInput struct {
	Reference       string
	ShippingAddress json.RawMessage
	ShippingFee     *decimal.Decimal
	PaymentMethod   string
}

type OrderItemOutput struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductTitle     string          `json:"product_title"`
	ProductThumbnail string          `json:"product_thumbnail"`
	Quantity         int64           `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Size             string          `json:"size,omitempty"`
	Color            string          `json:"color,omitempty"`
}

type OrderOutput struct {
	ID               string            `json:"id"`
	UserID           string            `json:"user_id"`
	Vendor           string            `json:"vendor"`
	Status           string            `json:"status"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	ShippingFee      decimal.Decimal   `json:"shipping_fee"`
	Total            decimal.Decimal   `json:"total"`
	Currency         string            `json:"currency"`
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email"`
	CustomerPhone    string            `json:"customer_phone"`
	ShippingAddress  json.RawMessage   `json:"shipping_address"`
	PaymentMethod    string            `json:"payment_method"`
	PaymentStatus    string            `json:"payment_status"`
	PaymentReference string            `json:"payment_reference"`
	PaidAt           *time.Time        `json:"paid_at"`
	CreatedAt        time.Time         `json:"created_at"`
	Items            []OrderItemOutput `json:"items"`
}

type FinalizeOrderOutput struct {
	Order       OrderOutput     `json:"order"`
	PaymentInfo json.RawMessage `json:"paymentInfo"`
}

// FinalizeOrder は決済検証→認証→カート読込→注文作成→カート削除を順番に行う。
// どこかで失敗したら以降は実行しない。
func (u *OrderUsecase) FinalizeOrder(ctx context.Context, authorization string, in FinalizeOrderInput) (FinalizeOrderOutput, error) {
	//設定チェック
	if u.payments == nil || !u.payments.Configured() {
		return FinalizeOrderOutput{}, NewError(KindConfiguration, "payment gateway secret key is not configured")
	}

	//入力チェック
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		return FinalizeOrderOutput{}, NewError(KindValidation, "payment reference is required")
	}

	shippingFee := decimal.Zero
	if in.ShippingFee != nil {
		shippingFee = *in.ShippingFee
	}
	if shippingFee.IsNegative() {
		return FinalizeOrderOutput{}, NewError(KindValidation, "invalid shipping fee")
	}

	if u.validate != nil {
		if err := u.validate.ValidateFinalizeOrder(ctx, in); err != nil {
			if _, ok := AsError(err); ok {
				return FinalizeOrderOutput{}, err
			}
			return FinalizeOrderOutput{}, WrapError(KindValidation, "invalid input", err)
		}
	}

	//決済検証（これが通らない限り注文は作らない）
	payment, err := u.payments.Verify(ctx, reference)
	if err != nil {
		if _, ok := AsError(err); ok {
			return FinalizeOrderOutput{}, err
		}
		return FinalizeOrderOutput{}, WrapError(KindUpstreamGateway, "payment verification failed", err)
	}
	if payment.Status != paymentStatusSuccess {
		return FinalizeOrderOutput{}, NewError(KindUpstreamGateway, "payment was not successful")
	}

	//呼び出し元の認証
	caller, err := u.auth.Authenticate(ctx, authorization)
	if err != nil {
		if _, ok := AsError(err); ok {
			return FinalizeOrderOutput{}, err
		}
		return FinalizeOrderOutput{}, WrapError(KindAuthentication, "unauthorized", err)
	}

	//同じ参照の同時実行を防ぐ
	if u.locker != nil {
		release, err := u.locker.Acquire(ctx, reference)
		if errors.Is(err, ErrReferenceLocked) {
			return FinalizeOrderOutput{}, NewError(KindValidation, "payment reference is already being processed")
		}
		if err != nil {
			return FinalizeOrderOutput{}, WrapError(KindStorage, "failed to lock payment reference", err)
		}
		defer release()
	}

	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	var (
		out      OrderOutput
		cartID   string
		replayed bool
	)

	//注文と明細はトランザクション（明細が失敗したら注文も残らない）
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じ参照なら同じ結果
		existing, found, err := r.Orders().FindByPaymentReference(ctx, reference)
		if err != nil {
			return WrapError(KindStorage, "failed to look up order", err)
		}
		if found {
			if existing.UserID != caller.ID {
				return NewError(KindValidation, "payment reference has already been used")
			}
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return WrapError(KindStorage, "failed to load order items", err)
			}
			out = toOrderOutput(existing, items)
			replayed = true
			return nil
		}

		//カート取得
		cart, err := r.Carts().FindByUserID(ctx, caller.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "cart not found")
		}
		if err != nil {
			return WrapError(KindStorage, "failed to load cart", err)
		}
		cartID = cart.ID

		//カート明細（商品付き）
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return WrapError(KindStorage, "failed to load cart items", err)
		}
		if len(cartItems) == 0 {
			return NewError(KindValidation, "cart is empty")
		}
		if err := checkCartItems(cartItems); err != nil {
			return err
		}

		totals := ComputeTotals(cartItems, shippingFee)
		now := u.clock.Now()
		snap := customerSnapshot(in.ShippingAddress, caller)

		order := model.Order{
			ID:               u.idGen.NewID(),
			UserID:           caller.ID,
			Vendor:           u.settings.Vendor,
			Status:           model.OrderStatusProcessing,
			Subtotal:         totals.Subtotal,
			ShippingFee:      totals.ShippingFee,
			Total:            totals.Total,
			Currency:         u.settings.Currency,
			CustomerName:     snap.Name,
			CustomerEmail:    snap.Email,
			CustomerPhone:    snap.Phone,
			ShippingAddress:  datatypes.JSON(in.ShippingAddress),
			PaymentMethod:    paymentMethod,
			PaymentStatus:    model.PaymentStatusPaid,
			PaymentReference: reference,
			PaidAt:           &now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		// 注文作成
		if err := r.Orders().Create(ctx, order); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return NewError(KindValidation, "payment reference has already been used")
			}
			return WrapError(KindStorage, "failed to create order", err)
		}

		//スナップショット
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				ID:               u.idGen.NewID(),
				ProductID:        ci.ProductID,
				ProductTitle:     ci.Product.Title,
				ProductThumbnail: ci.Product.DisplayImage(),
				Quantity:         ci.Quantity,
				Price:            ci.Product.Price,
				Subtotal:         lineTotal(ci),
				Size:             ci.Size,
				Color:            ci.Color,
				CreatedAt:        now,
			})
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return WrapError(KindStorage, "failed to create order items", err)
		}

		out = toOrderOutput(order, orderItems)
		return nil
	})
	if err != nil {
		if _, ok := AsError(err); ok {
			return FinalizeOrderOutput{}, err
		}
		return FinalizeOrderOutput{}, WrapError(KindStorage, "failed to finalize order", err)
	}

	if replayed {
		u.logger.Info("payment reference already finalized, returning existing order",
			zap.String("reference", reference),
			zap.String("order_id", out.ID))
		return FinalizeOrderOutput{Order: out, PaymentInfo: payment.Raw}, nil
	}

	u.checkPaidAmount(payment, out)

	//カート削除（失敗しても注文は成功扱い）
	if err := u.carts.Clear(ctx, cartID); err != nil {
		u.logger.Warn("failed to clear cart after order",
			zap.String("cart_id", cartID),
			zap.String("order_id", out.ID),
			zap.Error(err))
	}

	u.publishFinalized(ctx, out)

	u.logger.Info("order finalized",
		zap.String("order_id", out.ID),
		zap.String("user_id", out.UserID),
		zap.String("reference", reference),
		zap.String("total", out.Total.StringFixed(2)))

	return FinalizeOrderOutput{Order: out, PaymentInfo: payment.Raw}, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string) ([]OrderOutput, error) {
	if userID == "" {
		return []OrderOutput{}, NewError(KindAuthentication, "unauthorized")
	}

	//ページングでまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return WrapError(KindStorage, "db error", err)
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return WrapError(KindStorage, "db error", err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewError(KindAuthentication, "unauthorized")
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return OrderOutput{}, NewError(KindValidation, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(KindNotFound, "not found")
		}
		if err != nil {
			return WrapError(KindStorage, "db error", err)
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewError(KindNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return WrapError(KindStorage, "db error", err)
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 商品が消えた明細や数量0以下の明細があれば注文にしない
func checkCartItems(items []model.CartItem) error {
	for _, it := range items {
		if it.Product.ID == "" {
			return NewError(KindValidation, "cart contains a product that is no longer available")
		}
		if it.Quantity <= 0 {
			return NewError(KindValidation, "cart contains an invalid quantity")
		}
		if it.Product.Price.IsNegative() {
			return NewError(KindValidation, "cart contains a product with an invalid price")
		}
	}
	return nil
}

// イベントはレスポンスを待たせない。
// リクエストのキャンセルとは切り離し、EventTimeoutで打ち切る。
func (u *OrderUsecase) publishFinalized(ctx context.Context, out OrderOutput) {
	if u.events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.settings.EventTimeout)
	defer cancel()

	if err := u.events.PublishOrderFinalized(pubCtx, out); err != nil {
		u.logger.Warn("failed to publish order event",
			zap.String("order_id", out.ID),
			zap.Error(err))
	}
}

// ゲートウェイの金額と注文合計が合わなければ警告だけ出す
func (u *OrderUsecase) checkPaidAmount(p PaymentVerification, o OrderOutput) {
	if p.Amount <= 0 {
		return
	}
	expected := o.Total.Mul(decimal.NewFromInt(100)).Round(0)
	if !expected.Equal(decimal.NewFromInt(p.Amount)) {
		u.logger.Warn("paid amount does not match order total",
			zap.String("order_id", o.ID),
			zap.Int64("paid_minor", p.Amount),
			zap.String("expected_minor", expected.String()),
			zap.String("currency", p.Currency))
	}
}

type customer struct {
	Name  string
	Email string
	Phone string
}

// 配送先に書かれた連絡先を優先し、無ければトークンの情報を使う
func customerSnapshot(shippingAddress json.RawMessage, caller Caller) customer {
	c := customer{Name: caller.Name, Email: caller.Email, Phone: caller.Phone}

	var addr map[string]any
	if len(shippingAddress) == 0 || json.Unmarshal(shippingAddress, &addr) != nil {
		return c
	}

	if v := firstString(addr, "fullName", "full_name", "name"); v != "" {
		c.Name = v
	}
	if v := firstString(addr, "email"); v != "" {
		c.Email = v
	}
	if v := firstString(addr, "phone", "phoneNumber", "phone_number"); v != "" {
		c.Phone = v
	}
	return c
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductTitle:     it.ProductTitle,
			ProductThumbnail: it.ProductThumbnail,
			Quantity:         it.Quantity,
			Price:            it.Price,
			Subtotal:         it.Subtotal,
			Size:             it.Size,
			Color:            it.Color,
		})
	}

	var address json.RawMessage
	if len(o.ShippingAddress) > 0 {
		address = json.RawMessage(o.ShippingAddress)
	}

	return OrderOutput{
		ID:               o.ID,
		UserID:           o.UserID,
		Vendor:           o.Vendor,
		Status:           string(o.Status),
		Subtotal:         o.Subtotal,
		ShippingFee:      o.ShippingFee,
		Total:            o.Total,
		Currency:         o.Currency,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		ShippingAddress:  address,
		PaymentMethod:    o.PaymentMethod,
		PaymentStatus:    string(o.PaymentStatus),
		PaymentReference: o.PaymentReference,
		PaidAt:           o.PaidAt,
		CreatedAt:        o.CreatedAt,
		Items:            outItems,
	}
}
