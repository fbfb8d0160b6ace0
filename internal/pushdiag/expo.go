package pushdiag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultExpoBaseURL = "https://exp.host"

// Expo APIのエラー形式
type expoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type expoErrors []expoError

func (e expoErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, x := range e {
		msgs = append(msgs, x.Code+": "+x.Message)
	}
	return strings.Join(msgs, "; ")
}

func newExpoClient(baseURL string) *resty.Client {
	if baseURL == "" {
		baseURL = DefaultExpoBaseURL
	}
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
}

// ExpoTokenBroker はネイティブトークンをExpoのpush tokenに交換する
type ExpoTokenBroker struct {
	client      *resty.Client
	native      NativeTokenSource
	deviceID    string
	appID       string
	development bool
}

type ExpoBrokerConfig struct {
	BaseURL     string
	DeviceID    string
	AppID       string
	Development bool
}

func NewExpoTokenBroker(cfg ExpoBrokerConfig, native NativeTokenSource) *ExpoTokenBroker {
	return &ExpoTokenBroker{
		client:      newExpoClient(cfg.BaseURL),
		native:      native,
		deviceID:    cfg.DeviceID,
		appID:       cfg.AppID,
		development: cfg.Development,
	}
}

type getTokenRequest struct {
	Type        string `json:"type"`
	DeviceID    string `json:"deviceId"`
	Development bool   `json:"development"`
	AppID       string `json:"appId"`
	DeviceToken string `json:"deviceToken"`
	ProjectID   string `json:"projectId"`
}

type getTokenResponse struct {
	Data struct {
		ExpoPushToken string `json:"expoPushToken"`
	} `json:"data"`
	Errors expoErrors `json:"errors"`
}

func (b *ExpoTokenBroker) BrokeredToken(ctx context.Context, projectID string) (PushToken, error) {
	if projectID == "" {
		return PushToken{}, errors.New("project id is required")
	}
	native, err := b.native.DeviceToken(ctx)
	if err != nil {
		return PushToken{}, fmt.Errorf("device token: %w", err)
	}

	var out getTokenResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(getTokenRequest{
			Type:        serviceType(native.Type),
			DeviceID:    b.deviceID,
			Development: b.development,
			AppID:       b.appID,
			DeviceToken: native.Data,
			ProjectID:   projectID,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/--/api/v2/push/getExpoPushToken")
	if err != nil {
		return PushToken{}, fmt.Errorf("expo token request: %w", err)
	}
	if len(out.Errors) > 0 {
		return PushToken{}, fmt.Errorf("expo token request: %w", out.Errors)
	}
	if resp.IsError() {
		return PushToken{}, fmt.Errorf("expo token request: status %d", resp.StatusCode())
	}
	if out.Data.ExpoPushToken == "" {
		return PushToken{}, errors.New("expo token response has no token")
	}
	return PushToken{Type: "expo", Data: out.Data.ExpoPushToken}, nil
}

// android -> fcm, ios -> apns
func serviceType(tokenType string) string {
	switch tokenType {
	case string(PlatformAndroid):
		return "fcm"
	case string(PlatformIOS):
		return "apns"
	default:
		return tokenType
	}
}

// ExpoNotifier はExpoのsend APIでテスト通知を届ける。
// チャンネルはローカルに覚えておき、送信時にchannelIdとして付ける。
type ExpoNotifier struct {
	client *resty.Client

	mu      sync.Mutex
	channel *Channel
	to      string
}

func NewExpoNotifier(baseURL string) *ExpoNotifier {
	return &ExpoNotifier{client: newExpoClient(baseURL)}
}

// SetRecipient は送信先のpush tokenを設定
func (n *ExpoNotifier) SetRecipient(token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.to = token
}

func (n *ExpoNotifier) SetChannel(_ context.Context, ch Channel) error {
	if ch.ID == "" {
		return errors.New("channel id is required")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	c := ch
	n.channel = &c
	return nil
}

type pushMessage struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type pushResponse struct {
	Data   []pushTicket `json:"data"`
	Errors expoErrors   `json:"errors"`
}

// Schedule はdelay待ってから送信する。ctxがキャンセルされたら送らない。
func (n *ExpoNotifier) Schedule(ctx context.Context, msg LocalNotification, delay time.Duration) error {
	n.mu.Lock()
	to := n.to
	var ch *Channel
	if n.channel != nil {
		c := *n.channel
		ch = &c
	}
	n.mu.Unlock()

	if to == "" {
		return errors.New("no recipient push token")
	}

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	m := pushMessage{
		To:    to,
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	}
	if ch != nil {
		m.ChannelID = ch.ID
		m.Sound = ch.Sound
		if ch.Importance >= ImportanceHigh {
			m.Priority = "high"
		}
	}

	var out pushResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody([]pushMessage{m}).
		SetResult(&out).
		SetError(&out).
		Post("/--/api/v2/push/send")
	if err != nil {
		return fmt.Errorf("expo send: %w", err)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("expo send: %w", out.Errors)
	}
	if resp.IsError() {
		return fmt.Errorf("expo send: status %d", resp.StatusCode())
	}
	for _, tk := range out.Data {
		if tk.Status != "ok" {
			return fmt.Errorf("expo send: ticket %s: %s", tk.Status, tk.Message)
		}
	}
	return nil
}
