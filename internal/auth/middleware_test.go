package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seenOperator string
	mw := NewMiddleware(testSecret)
	handler := mw.RequireOperator(func(w http.ResponseWriter, r *http.Request) {
		seenOperator = OperatorID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, seenOperator
}

func TestRequireOperatorMissingHeader(t *testing.T) {
	rec, _ := callProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOperatorMalformedHeader(t *testing.T) {
	rec, _ := callProtected(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOperatorWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "ops-1"})
	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOperatorExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "ops-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOperatorValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "ops-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	rec, operator := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops-1", operator)
}
