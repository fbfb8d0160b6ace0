package pushdiag

import (
	"context"
	"errors"
)

// StaticDevice は設定ファイルで記述された端末。
// 端末なしで診断を回すために使う。
type StaticDevice struct {
	OS       Platform
	Physical bool
	// 現在の許可状態
	Permission PermissionStatus
	// Request時に許可されるか
	GrantOnRequest bool
	Token          PushToken
}

func (d *StaticDevice) Platform() Platform { return d.OS }

func (d *StaticDevice) IsPhysical() bool { return d.Physical }

func (d *StaticDevice) Status(context.Context) (PermissionStatus, error) {
	if d.Permission == "" {
		return PermissionUndetermined, nil
	}
	return d.Permission, nil
}

func (d *StaticDevice) Request(context.Context) (PermissionStatus, error) {
	if d.Permission == PermissionGranted || d.GrantOnRequest {
		d.Permission = PermissionGranted
		return PermissionGranted, nil
	}
	// 一度拒否されたら以降もdenied
	d.Permission = PermissionDenied
	return PermissionDenied, nil
}

func (d *StaticDevice) DeviceToken(context.Context) (PushToken, error) {
	if d.Token.Data == "" {
		return PushToken{}, errors.New("device has no push token")
	}
	return d.Token, nil
}

var (
	_ Device              = (*StaticDevice)(nil)
	_ Permissions         = (*StaticDevice)(nil)
	_ NativeTokenSource   = (*StaticDevice)(nil)
	_ BrokeredTokenSource = (*ExpoTokenBroker)(nil)
	_ Notifier            = (*ExpoNotifier)(nil)
)
