package pushdiag

import (
	"context"
	"time"
)

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Typeはネイティブなら "android"(FCM) / "ios"(APNs)、ブローカー経由なら "expo"
type PushToken struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type Importance int

const (
	ImportanceMin Importance = iota + 1
	ImportanceLow
	ImportanceDefault
	ImportanceHigh
	ImportanceMax
)

type Channel struct {
	ID               string
	Name             string
	Importance       Importance
	VibrationPattern []int
	LightColor       string
	Sound            string
}

// 通知チャンネルの固定値
var DefaultChannel = Channel{
	ID:               "default",
	Name:             "default",
	Importance:       ImportanceMax,
	VibrationPattern: []int{0, 250, 250, 250},
	LightColor:       "#FF231F7C",
	Sound:            "default",
}

type LocalNotification struct {
	Title string
	Body  string
	Data  map[string]interface{}
}

// 端末の情報
type Device interface {
	Platform() Platform
	// シミュレータ/エミュレータならfalse
	IsPhysical() bool
}

type Permissions interface {
	Status(ctx context.Context) (PermissionStatus, error)
	Request(ctx context.Context) (PermissionStatus, error)
}

// OSから直接もらうトークン
type NativeTokenSource interface {
	DeviceToken(ctx context.Context) (PushToken, error)
}

// プロジェクトIDを使ってプロバイダ経由で発行するトークン
type BrokeredTokenSource interface {
	BrokeredToken(ctx context.Context, projectID string) (PushToken, error)
}

type Notifier interface {
	SetChannel(ctx context.Context, ch Channel) error
	Schedule(ctx context.Context, n LocalNotification, delay time.Duration) error
}
