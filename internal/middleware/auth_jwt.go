package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey = "user_id" // string(uuid)
	CtxCallerKey = "caller"  // usecase.Caller
)

// Supabase が発行した HS256 のアクセストークンを検証する。
type JWTAuthenticator struct {
	secret []byte
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret)}
}

func (a *JWTAuthenticator) Authenticate(_ context.Context, authz string) (usecase.Caller, error) {
	if authz == "" {
		return usecase.Caller{}, usecase.NewError(usecase.KindAuthentication, "missing authorization header")
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return usecase.Caller{}, usecase.NewError(usecase.KindAuthentication, "invalid authorization header")
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return usecase.Caller{}, usecase.NewError(usecase.KindAuthentication, "invalid authorization header")
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return usecase.Caller{}, usecase.WrapError(usecase.KindAuthentication, "invalid or expired token", err)
	}

	//claimsを取り出す
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return usecase.Caller{}, usecase.NewError(usecase.KindAuthentication, "invalid token claims")
	}

	//subはユーザーのUUID（anonキーにはsubが無い）
	sub, _ := claims["sub"].(string)
	if _, err := uuid.Parse(sub); err != nil {
		return usecase.Caller{}, usecase.NewError(usecase.KindAuthentication, "invalid token subject")
	}

	return usecase.Caller{
		ID:    sub,
		Email: stringClaim(claims, "email"),
		Phone: stringClaim(claims, "phone"),
		Name:  metadataName(claims),
	}, nil
}

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(authn usecase.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := authn.Authenticate(c.Request().Context(), c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, caller.ID)
			c.Set(CtxCallerKey, caller)

			return next(c)
		}
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Error: msg}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// user_metadata の full_name / name
func metadataName(claims jwt.MapClaims) string {
	meta, ok := claims["user_metadata"].(map[string]interface{})
	if !ok {
		return ""
	}
	for _, k := range []string{"full_name", "name"} {
		if s, ok := meta[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

var _ usecase.Authenticator = (*JWTAuthenticator)(nil)
