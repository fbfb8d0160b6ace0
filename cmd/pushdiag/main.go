package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/config"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/logger"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/pushdiag"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("config", "app.json", "app config file (app.json / yaml)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, err := logger.New(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.LoadPush(*path)
	if err != nil {
		log.Fatal("failed to load push config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	device := &pushdiag.StaticDevice{
		OS:             pushdiag.Platform(cfg.Device.Platform),
		Physical:       cfg.Device.Physical,
		Permission:     pushdiag.PermissionStatus(cfg.Device.Permission),
		GrantOnRequest: cfg.Device.GrantOnRequest,
		Token:          pushdiag.PushToken{Type: cfg.Device.TokenType, Data: cfg.Device.Token},
	}
	broker := pushdiag.NewExpoTokenBroker(pushdiag.ExpoBrokerConfig{
		BaseURL:     cfg.ExpoBaseURL,
		DeviceID:    cfg.Device.ID,
		AppID:       cfg.AppID,
		Development: cfg.Development,
	}, device)
	notifier := pushdiag.NewExpoNotifier(cfg.ExpoBaseURL)

	diag := pushdiag.New(device, device, device, broker, notifier, pushdiag.Options{
		TargetPlatform:  pushdiag.Platform(cfg.TargetPlatform),
		NativeTokenType: cfg.NativeTokenType,
		ProjectID:       cfg.ProjectID,
	}, log)

	diag.SetupChannel(ctx)

	token, ok := diag.AcquireToken(ctx)
	if !ok {
		log.Warn("no push token available")
		os.Exit(1)
	}
	log.Info("push token", zap.String("token", token))
	fmt.Println(token)

	if cfg.SendTest {
		notifier.SetRecipient(token)
		diag.SendTestNotification(ctx)
	}
}
