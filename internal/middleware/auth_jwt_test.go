package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/middleware"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "test-secret"
	userID = "11111111-1111-1111-1111-111111111111"
)

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID,
		"email": "ama@example.com",
		"phone": "233240000000",
		"role":  "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"full_name": "Ama Mensah",
		},
	}
}

func TestJWTAuthenticator_OK(t *testing.T) {
	a := middleware.NewJWTAuthenticator(secret)
	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims())

	c, err := a.Authenticate(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, userID, c.ID)
	assert.Equal(t, "ama@example.com", c.Email)
	assert.Equal(t, "233240000000", c.Phone)
	assert.Equal(t, "Ama Mensah", c.Name)
}

func TestJWTAuthenticator_Rejects(t *testing.T) {
	a := middleware.NewJWTAuthenticator(secret)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noSub := validClaims()
	delete(noSub, "sub")

	cases := []struct {
		name  string
		authz string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{"wrong alg", "Bearer " + sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims())},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), expired)},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), noSub)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tc.authz)
			require.Error(t, err)
			assert.Equal(t, usecase.KindAuthentication, usecase.KindOf(err))
		})
	}
}

func TestAuthJWT_Middleware(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(middleware.CtxUserIDKey).(string))
	}, middleware.AuthJWT(middleware.NewJWTAuthenticator(secret)))

	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, rec.Body.String())
	})

	t.Run("unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"unauthorized"}`, rec.Body.String())
	})
}
