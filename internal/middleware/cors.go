package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ブラウザ/アプリから直接呼ばれるので全オリジン許可
var CORSHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
}

// 全レスポンスにCORSヘッダを付け、OPTIONSは本文なしの200で返す。
// echoのCORSミドルウェアはpreflightに204を返すので使わない。
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range CORSHeaders {
				h.Set(k, v)
			}

			if c.Request().Method == http.MethodOptions {
				return c.String(http.StatusOK, "ok")
			}
			return next(c)
		}
	}
}
