package pushdiag

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const testNotificationDelay = time.Second

type Options struct {
	// このプラットフォーム以外では何もしない
	TargetPlatform Platform
	// ネイティブトークンのtypeがこれなら採用
	NativeTokenType string
	ProjectID       string
}

func (o Options) withDefaults() Options {
	if o.TargetPlatform == "" {
		o.TargetPlatform = PlatformAndroid
	}
	if o.NativeTokenType == "" {
		o.NativeTokenType = string(PlatformAndroid)
	}
	return o
}

// Diagnostic はプッシュトークン取得の確認用。
// どの失敗もログに出して早期returnするだけで、呼び出し元にerrorは返さない。
type Diagnostic struct {
	device   Device
	perms    Permissions
	native   NativeTokenSource
	brokered BrokeredTokenSource
	notifier Notifier
	opts     Options
	logger   *zap.Logger
}

func New(
	device Device,
	perms Permissions,
	native NativeTokenSource,
	brokered BrokeredTokenSource,
	notifier Notifier,
	opts Options,
	logger *zap.Logger,
) *Diagnostic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostic{
		device:   device,
		perms:    perms,
		native:   native,
		brokered: brokered,
		notifier: notifier,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// AcquireToken はネイティブ→ブローカーの順にトークンを取りに行く。
func (d *Diagnostic) AcquireToken(ctx context.Context) (string, bool) {
	platform := d.device.Platform()
	if platform != d.opts.TargetPlatform {
		d.logger.Info("push token skipped: unsupported platform",
			zap.String("platform", string(platform)),
			zap.String("target", string(d.opts.TargetPlatform)))
		return "", false
	}
	if !d.device.IsPhysical() {
		d.logger.Info("push token skipped: must use a physical device")
		return "", false
	}

	if !d.ensurePermission(ctx) {
		return "", false
	}

	//まずネイティブ
	tok, err := d.native.DeviceToken(ctx)
	switch {
	case err != nil:
		d.logger.Warn("device push token failed", zap.Error(err))
	case tok.Type == d.opts.NativeTokenType && tok.Data != "":
		d.logger.Info("got native device push token", zap.String("type", tok.Type))
		return tok.Data, true
	default:
		d.logger.Info("device push token has unexpected type",
			zap.String("type", tok.Type),
			zap.String("expected", d.opts.NativeTokenType))
	}

	//次にブローカー経由
	if d.brokered == nil {
		d.logger.Warn("no brokered token source configured")
		return "", false
	}
	if d.opts.ProjectID == "" {
		d.logger.Warn("brokered push token skipped: project id is not configured")
		return "", false
	}

	tok, err = d.brokered.BrokeredToken(ctx, d.opts.ProjectID)
	if err != nil {
		d.logger.Warn("brokered push token failed", zap.Error(err))
		return "", false
	}
	if tok.Data == "" {
		d.logger.Warn("brokered push token was empty")
		return "", false
	}

	d.logger.Info("got brokered push token", zap.String("type", tok.Type))
	return tok.Data, true
}

// 許可が無ければ1回だけ求める
func (d *Diagnostic) ensurePermission(ctx context.Context) bool {
	status, err := d.perms.Status(ctx)
	if err != nil {
		d.logger.Warn("failed to read notification permission", zap.Error(err))
		return false
	}
	if status == PermissionGranted {
		return true
	}

	status, err = d.perms.Request(ctx)
	if err != nil {
		d.logger.Warn("failed to request notification permission", zap.Error(err))
		return false
	}
	if status != PermissionGranted {
		d.logger.Warn("notification permission not granted", zap.String("status", string(status)))
		return false
	}
	return true
}

// SetupChannel はデフォルトの通知チャンネルを登録する
func (d *Diagnostic) SetupChannel(ctx context.Context) bool {
	if err := d.notifier.SetChannel(ctx, DefaultChannel); err != nil {
		d.logger.Warn("failed to set notification channel",
			zap.String("channel", DefaultChannel.ID),
			zap.Error(err))
		return false
	}
	d.logger.Info("notification channel ready", zap.String("channel", DefaultChannel.ID))
	return true
}

// SendTestNotification は1秒後にテスト通知を出す
func (d *Diagnostic) SendTestNotification(ctx context.Context) {
	n := LocalNotification{
		Title: "Test notification",
		Body:  "Push notifications are working",
		Data:  map[string]interface{}{"test": true},
	}
	if err := d.notifier.Schedule(ctx, n, testNotificationDelay); err != nil {
		d.logger.Warn("failed to schedule test notification", zap.Error(err))
		return
	}
	d.logger.Info("test notification scheduled")
}
