package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/app"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/config"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/logger"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build app", zap.Error(err))
	}
	defer a.Close()

	e := server.New(log)
	server.RegisterRoutes(e, a.OrderHandler, a.Authenticator)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info("starting api", zap.String("addr", addr), zap.String("env", cfg.GoEnv))
	if err := server.Start(ctx, addr, e); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("api stopped")
}
