package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

// Paystackの参照は英数字と - . = のみ
var referencePattern = regexp.MustCompile(`^[A-Za-z0-9.=\-]{1,100}$`)

const maxPaymentMethodLen = 50

type orderValidator struct{}

// Usecaseは interface を依存注入
func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

// 注文確定の入力を検証（参照が空かどうかはusecase側で見る）
func (v *orderValidator) ValidateFinalizeOrder(ctx context.Context, in usecase.FinalizeOrderInput) error {
	ref := strings.TrimSpace(in.Reference)
	if !referencePattern.MatchString(ref) {
		return invalid("invalid payment reference")
	}

	// 配送先はJSONオブジェクト
	if addr := bytes.TrimSpace(in.ShippingAddress); len(addr) > 0 && !bytes.Equal(addr, []byte("null")) {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(addr, &m); err != nil {
			return invalid("shippingAddress must be an object")
		}
	}

	if len(strings.TrimSpace(in.PaymentMethod)) > maxPaymentMethodLen {
		return invalid("invalid payment method")
	}

	return nil
}

func invalid(msg string) error {
	return usecase.WrapError(usecase.KindValidation, msg, ErrInvalidInput)
}
