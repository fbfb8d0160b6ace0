package handler

import (
	"net/http"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/middleware"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全エンドポイント共通のレスポンス
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func fail(msg string) APIResponse {
	return APIResponse{Success: false, Error: msg}
}

// 読み取り系APIのエラー変換
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := usecase.AsError(err); ok {
		return c.JSON(statusForKind(ue.Kind), fail(ue.Message))
	}

	//500
	return c.JSON(http.StatusInternalServerError, fail("internal error"))
}

func statusForKind(k usecase.ErrorKind) int {
	switch k {
	case usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindAuthentication:
		return http.StatusUnauthorized
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindUpstreamGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
