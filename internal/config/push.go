package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PushConfig はpushdiag用の設定（app.json形式のファイル）
type PushConfig struct {
	ProjectID       string // expo.extra.eas.projectId
	AppID           string // expo.android.package
	TargetPlatform  string
	NativeTokenType string
	ExpoBaseURL     string
	Development     bool
	SendTest        bool

	Device PushDeviceConfig
}

type PushDeviceConfig struct {
	ID             string
	Platform       string
	Physical       bool
	Permission     string
	GrantOnRequest bool
	TokenType      string
	Token          string
}

// LoadPush は設定ファイルを読む。
// PUSHDIAG_ で始まる環境変数で上書きできる（例: PUSHDIAG_DEVICE_TOKEN）。
func LoadPush(path string) (PushConfig, error) {
	v := viper.New()

	v.SetDefault("pushdiag.targetPlatform", "android")
	v.SetDefault("pushdiag.nativeTokenType", "android")
	v.SetDefault("pushdiag.expoBaseURL", "https://exp.host")
	v.SetDefault("pushdiag.sendTest", true)
	v.SetDefault("pushdiag.device.platform", "android")
	v.SetDefault("pushdiag.device.physical", true)
	v.SetDefault("pushdiag.device.permission", "undetermined")
	v.SetDefault("pushdiag.device.grantOnRequest", true)
	v.SetDefault("pushdiag.device.tokenType", "android")

	v.SetEnvPrefix("PUSHDIAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// pushdiag.device.token -> PUSHDIAG_DEVICE_TOKEN
	for _, k := range []string{"device.token", "device.id", "device.platform", "expoBaseURL"} {
		if err := v.BindEnv("pushdiag."+k, "PUSHDIAG_"+strings.ToUpper(strings.ReplaceAll(k, ".", "_"))); err != nil {
			return PushConfig{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return PushConfig{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg := PushConfig{
		ProjectID:       v.GetString("expo.extra.eas.projectId"),
		AppID:           v.GetString("expo.android.package"),
		TargetPlatform:  v.GetString("pushdiag.targetPlatform"),
		NativeTokenType: v.GetString("pushdiag.nativeTokenType"),
		ExpoBaseURL:     v.GetString("pushdiag.expoBaseURL"),
		Development:     v.GetBool("pushdiag.development"),
		SendTest:        v.GetBool("pushdiag.sendTest"),
		Device: PushDeviceConfig{
			ID:             v.GetString("pushdiag.device.id"),
			Platform:       v.GetString("pushdiag.device.platform"),
			Physical:       v.GetBool("pushdiag.device.physical"),
			Permission:     v.GetString("pushdiag.device.permission"),
			GrantOnRequest: v.GetBool("pushdiag.device.grantOnRequest"),
			TokenType:      v.GetString("pushdiag.device.tokenType"),
			Token:          v.GetString("pushdiag.device.token"),
		},
	}
	return cfg, nil
}
