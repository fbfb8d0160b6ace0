package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"
	repo "github.com/Stephen-J4455/ExpressMart-sub001/internal/repository"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// fnの結果でcommit/rollbackを数えるだけのTxManager
type txManagerFake struct {
	repos      repo.TxRepos
	committed  int
	rolledBack int
}

func (m *txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := fn(m.repos); err != nil {
		m.rolledBack++
		return err
	}
	m.committed++
	return nil
}

func (m *txManagerFake) touched() bool { return m.committed+m.rolledBack > 0 }

type txReposFake struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
}

func (r *txReposFake) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposFake) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposFake) Carts() repo.CartRepository           { return r.carts }
func (r *txReposFake) CartItems() repo.CartItemRepository   { return r.cartItems }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByPaymentReference(ctx context.Context, reference string) (model.Order, bool, error) {
	args := m.Called(ctx, reference)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

// =====================
// Port mocks
// =====================

type PaymentVerifierMock struct{ mock.Mock }

func (m *PaymentVerifierMock) Configured() bool {
	return m.Called().Bool(0)
}

func (m *PaymentVerifierMock) Verify(ctx context.Context, reference string) (usecase.PaymentVerification, error) {
	args := m.Called(ctx, reference)
	v, _ := args.Get(0).(usecase.PaymentVerification)
	return v, args.Error(1)
}

type AuthenticatorMock struct{ mock.Mock }

func (m *AuthenticatorMock) Authenticate(ctx context.Context, authorization string) (usecase.Caller, error) {
	args := m.Called(ctx, authorization)
	c, _ := args.Get(0).(usecase.Caller)
	return c, args.Error(1)
}

type LockerMock struct {
	mock.Mock
	released int
}

func (m *LockerMock) Acquire(ctx context.Context, reference string) (func(), error) {
	args := m.Called(ctx, reference)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderFinalized(ctx context.Context, order usecase.OrderOutput) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// =====================
// IDGenerator / Clock
// =====================

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
