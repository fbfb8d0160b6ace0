package server

import (
	"net/http"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/handler"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, orderH *handler.OrderHandler, authn usecase.Authenticator) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	orderH.RegisterRoutes(e, authn)
}
