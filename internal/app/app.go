package app

import (
	"context"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/config"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/handler"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/infra/cache"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/infra/db"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/infra/event"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/infra/payment"
	infraRepo "github.com/Stephen-J4455/ExpressMart-sub001/internal/infra/repository"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/middleware"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

// App は組み立て済みの部品
type App struct {
	OrderHandler  *handler.OrderHandler
	Authenticator usecase.Authenticator

	closers []func() error
}

// Build は設定から依存を全部組み立てる
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)

	verifier := payment.NewPaystackVerifier(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	if !verifier.Configured() {
		logger.Warn("PAYSTACK_SECRET_KEY is not set; finalize-order will fail")
	}
	authn := middleware.NewJWTAuthenticator(cfg.JWTSecret)

	//Redisは任意
	var locker usecase.ReferenceLocker
	if cfg.RedisAddr != "" {
		l := cache.NewRedisReferenceLocker(cfg.RedisAddr, logger)
		if err := l.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, continuing without reference lock", zap.Error(err))
			_ = l.Close()
		} else {
			locker = l
			a.closers = append(a.closers, l.Close)
		}
	}

	//Kafkaは任意
	var events usecase.OrderEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := event.NewKafkaOrderPublisher(event.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaOrderTopic))
		events = p
		a.closers = append(a.closers, p.Close)
	}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(
		txManager,
		cartRepo,
		verifier,
		validator.NewOrderValidator(),
		authn,
		locker,
		events,
		&uuidGenerator{},
		&realClock{},
		usecase.OrderSettings{Vendor: cfg.OrderVendor, Currency: cfg.OrderCurrency},
		logger,
	)

	a.OrderHandler = handler.NewOrderHandler(orderUC, logger)
	a.Authenticator = authn

	if sqlDB, err := gormDB.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
