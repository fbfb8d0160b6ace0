package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/middleware"

	"github.com/aws/aws-lambda-go/events"
)

// API Gateway(プロキシ統合)から呼ばれる関数版
func (h *OrderHandler) HandleLambda(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return lambdaResponse(http.StatusOK, "ok", "text/plain; charset=utf-8"), nil
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return lambdaJSON(http.StatusBadRequest, fail("invalid body")), nil
		}
		body = decoded
	}

	status, resp := h.Finalize(ctx, headerValue(req.Headers, "Authorization"), body)
	return lambdaJSON(status, resp), nil
}

func lambdaJSON(status int, resp APIResponse) events.APIGatewayProxyResponse {
	b, err := json.Marshal(resp)
	if err != nil {
		return lambdaResponse(http.StatusInternalServerError, `{"success":false,"error":"internal error"}`, "application/json")
	}
	return lambdaResponse(status, string(b), "application/json")
}

func lambdaResponse(status int, body string, contentType string) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(middleware.CORSHeaders)+1)
	for k, v := range middleware.CORSHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = contentType

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

// API Gatewayはヘッダ名の大文字小文字をそのまま渡してくる
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
