package handler_test

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/handler"
	repo "github.com/Stephen-J4455/ExpressMart-sub001/internal/repository"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	testUserID = "11111111-1111-1111-1111-111111111111"
	testCartID = "22222222-2222-2222-2222-222222222222"
	goodAuth   = "Bearer good-token"
)

// 4つのrepositoryをまとめて持つメモリ上のストア
type memStore struct {
	carts      map[string]model.Cart
	cartItems  map[string][]model.CartItem
	orders     map[string]model.Order
	orderItems map[string][]model.OrderItem
	verifyHits int
}

func newMemStore() *memStore {
	s := &memStore{
		carts:      map[string]model.Cart{},
		cartItems:  map[string][]model.CartItem{},
		orders:     map[string]model.Order{},
		orderItems: map[string][]model.OrderItem{},
	}
	s.carts[testUserID] = model.Cart{ID: testCartID, UserID: testUserID}
	s.cartItems[testCartID] = []model.CartItem{
		{ID: "ci-1", CartID: testCartID, ProductID: "p-1", Quantity: 2,
			Product: model.Product{ID: "p-1", Title: "Shirt", Price: decimal.NewFromInt(10)}},
		{ID: "ci-2", CartID: testCartID, ProductID: "p-2", Quantity: 1,
			Product: model.Product{ID: "p-2", Title: "Cap", Price: decimal.NewFromInt(5)}},
	}
	return s
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(s)
}

func (s *memStore) Orders() repo.OrderRepository         { return s }
func (s *memStore) OrderItems() repo.OrderItemRepository { return s }
func (s *memStore) Carts() repo.CartRepository           { return s }
func (s *memStore) CartItems() repo.CartItemRepository   { return s }

func (s *memStore) FindByUserID(_ context.Context, userID string) (model.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return c, nil
}

func (s *memStore) Clear(_ context.Context, cartID string) error {
	delete(s.cartItems, cartID)
	return nil
}

func (s *memStore) ListByCartID(_ context.Context, cartID string) ([]model.CartItem, error) {
	return s.cartItems[cartID], nil
}

func (s *memStore) FindByID(_ context.Context, orderID string) (model.Order, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (s *memStore) ListByUserID(_ context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *memStore) Create(_ context.Context, order model.Order) error {
	for _, o := range s.orders {
		if o.PaymentReference == order.PaymentReference {
			return repo.ErrDuplicate
		}
	}
	s.orders[order.ID] = order
	return nil
}

func (s *memStore) FindByPaymentReference(_ context.Context, reference string) (model.Order, bool, error) {
	for _, o := range s.orders {
		if o.PaymentReference == reference {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (s *memStore) CreateBulk(_ context.Context, orderID string, items []model.OrderItem) error {
	for i := range items {
		items[i].OrderID = orderID
	}
	s.orderItems[orderID] = append(s.orderItems[orderID], items...)
	return nil
}

func (s *memStore) ListByOrderID(_ context.Context, orderID string) ([]model.OrderItem, error) {
	return s.orderItems[orderID], nil
}

type stubVerifier struct {
	store      *memStore
	configured bool
	status     string
}

func (v *stubVerifier) Configured() bool { return v.configured }

func (v *stubVerifier) Verify(_ context.Context, reference string) (usecase.PaymentVerification, error) {
	v.store.verifyHits++
	return usecase.PaymentVerification{
		Status:    v.status,
		Reference: reference,
		Amount:    2800,
		Raw:       json.RawMessage(`{"status":"` + v.status + `","reference":"` + reference + `"}`),
	}, nil
}

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, authorization string) (usecase.Caller, error) {
	if authorization != goodAuth {
		return usecase.Caller{}, usecase.NewError(usecase.KindAuthentication, "invalid or expired token")
	}
	return usecase.Caller{ID: testUserID, Email: "buyer@example.com"}, nil
}

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

type nowClock struct{}

func (nowClock) Now() time.Time { return time.Now().UTC() }

type fixture struct {
	store    *memStore
	verifier *stubVerifier
	h        *handler.OrderHandler
}

func newFixture() *fixture {
	store := newMemStore()
	verifier := &stubVerifier{store: store, configured: true, status: "success"}
	uc := usecase.NewOrderUsecase(
		store, store, verifier, validator.NewOrderValidator(), stubAuth{}, nil, nil,
		uuidGen{}, nowClock{},
		usecase.OrderSettings{Vendor: "ExpressMart", Currency: "GHS"},
		nil,
	)
	return &fixture{store: store, verifier: verifier, h: handler.NewOrderHandler(uc, nil)}
}
