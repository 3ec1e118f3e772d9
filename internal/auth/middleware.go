package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const operatorKey contextKey = "operatorID"

// Middleware guards the admin dashboard routes with an HMAC bearer token.
// Storefront endpoints are not touched by it; their identity rides the
// upstream session cookie instead.
type Middleware struct {
	secretKey []byte
}

func NewMiddleware(secret string) *Middleware {
	return &Middleware{
		secretKey: []byte(secret),
	}
}

func (m *Middleware) RequireOperator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		})

		if err != nil || !token.Valid {
			slog.Warn("Invalid operator token", "error", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if operatorID, ok := claims["sub"].(string); ok {
				ctx := context.WithValue(r.Context(), operatorKey, operatorID)
				next(w, r.WithContext(ctx))
				return
			}
		}

		next(w, r)
	}
}

// OperatorID returns the authenticated operator id, if any.
func OperatorID(ctx context.Context) string {
	id, _ := ctx.Value(operatorKey).(string)
	return id
}
