package main

import (
	"context"
	"fmt"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/app"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/config"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/logger"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer log.Sync()

	// コールドスタート時に1回だけ組み立てる
	a, err := app.Build(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("failed to build app", zap.Error(err))
	}
	defer a.Close()

	lambda.Start(a.OrderHandler.HandleLambda)
}
