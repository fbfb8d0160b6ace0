package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/go-resty/resty/v2"
)

// Paystack の GET /transaction/verify/{reference} を叩く
type PaystackVerifier struct {
	client    *resty.Client
	secretKey string
}

func NewPaystackVerifier(baseURL, secretKey string) *PaystackVerifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if secretKey != "" {
		client.SetAuthToken(secretKey)
	}
	return &PaystackVerifier{client: client, secretKey: secretKey}
}

type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type verifyData struct {
	Status    string     `json:"status"`
	Reference string     `json:"reference"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Channel   string     `json:"channel"`
	PaidAt    *time.Time `json:"paid_at"`
}

func (v *PaystackVerifier) Configured() bool {
	return v.secretKey != ""
}

func (v *PaystackVerifier) Verify(ctx context.Context, reference string) (usecase.PaymentVerification, error) {
	var body verifyResponse

	resp, err := v.client.R().
		SetContext(ctx).
		SetPathParam("reference", reference).
		SetResult(&body).
		SetError(&body).
		Get("/transaction/verify/{reference}")
	if err != nil {
		return usecase.PaymentVerification{}, usecase.WrapError(usecase.KindUpstreamGateway, "failed to reach payment gateway", err)
	}

	//Paystackはエラー時も{status:false,message}を返す
	if resp.IsError() || !body.Status {
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("payment gateway returned status %d", resp.StatusCode())
		}
		return usecase.PaymentVerification{}, usecase.NewError(usecase.KindUpstreamGateway, msg)
	}

	var data verifyData
	if len(body.Data) > 0 {
		if err := json.Unmarshal(body.Data, &data); err != nil {
			return usecase.PaymentVerification{}, usecase.WrapError(usecase.KindUpstreamGateway, "invalid response from payment gateway", err)
		}
	}

	return usecase.PaymentVerification{
		Status:    data.Status,
		Reference: data.Reference,
		Amount:    data.Amount,
		Currency:  data.Currency,
		Channel:   data.Channel,
		PaidAt:    data.PaidAt,
		Raw:       body.Data,
	}, nil
}

var _ usecase.PaymentVerifier = (*PaystackVerifier)(nil)
