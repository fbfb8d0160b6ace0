package usecase

import (
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/domain/model"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// subtotal = Σ(数量 × 商品価格)、total = subtotal + 送料
func ComputeTotals(items []model.CartItem, shippingFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(lineTotal(it))
	}
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Total:       subtotal.Add(shippingFee),
	}
}

func lineTotal(it model.CartItem) decimal.Decimal {
	return it.Product.Price.Mul(decimal.NewFromInt(it.Quantity))
}
