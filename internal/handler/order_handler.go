package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/middleware"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 1MB
const maxBodyBytes = 1 << 20

type OrderHandler struct {
	uc     *usecase.OrderUsecase
	logger *zap.Logger
}

func NewOrderHandler(uc *usecase.OrderUsecase, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{uc: uc, logger: logger}
}

type OrderDataRequest struct {
	ShippingAddress json.RawMessage  `json:"shippingAddress"`
	ShippingFee     *decimal.Decimal `json:"shippingFee"`
	PaymentMethod   string           `json:"paymentMethod"`
}

type FinalizeOrderRequest struct {
	Reference string           `json:"reference"`
	OrderData OrderDataRequest `json:"orderData"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, authn usecase.Authenticator) {
	// 認証は決済検証の後にusecase内で行う
	e.POST("/finalize-order", h.finalizeOrder)

	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(authn))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) finalizeOrder(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, fail("invalid body"))
	}

	status, resp := h.Finalize(c.Request().Context(), c.Request().Header.Get("Authorization"), body)
	return c.JSON(status, resp)
}

// Finalize はHTTPサーバーとLambdaで共通の処理。
// 失敗は種類に関係なく400で{success:false,error}を返す。
func (h *OrderHandler) Finalize(ctx context.Context, authorization string, body []byte) (int, APIResponse) {
	var req FinalizeOrderRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.logger.Warn("finalize order: invalid body", zap.Error(err))
			return http.StatusBadRequest, fail("invalid request body")
		}
	}

	out, err := h.uc.FinalizeOrder(ctx, authorization, usecase.FinalizeOrderInput{
		Reference:       req.Reference,
		ShippingAddress: req.OrderData.ShippingAddress,
		ShippingFee:     req.OrderData.ShippingFee,
		PaymentMethod:   req.OrderData.PaymentMethod,
	})
	if err != nil {
		msg := err.Error()
		kind := usecase.KindOf(err)
		if ue, ok := usecase.AsError(err); ok {
			msg = ue.Message
		}
		h.logger.Error("finalize order failed",
			zap.String("kind", kind.String()),
			zap.String("reference", req.Reference),
			zap.Error(err))
		return http.StatusBadRequest, fail(msg)
	}

	return http.StatusOK, ok(out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, fail("unauthorized"))
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: out})
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, fail("unauthorized"))
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: out})
}
