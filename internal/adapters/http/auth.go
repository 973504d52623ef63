package httpadapter

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidCredentials = errors.New("invalid credentials")

// AdminAuth gates the admin surface. The credential check is a static
// comparison; a successful login issues a short-lived HS256 token.
type AdminAuth struct {
	username string
	password string
	secret   []byte
	now      func() time.Time
}

func NewAdminAuth(username, password, secret string) *AdminAuth {
	return &AdminAuth{
		username: username,
		password: password,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

// Login validates the static credentials and returns a signed token.
func (a *AdminAuth) Login(username, password string) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("admin auth not configured")
	}
	if username != a.username || password != a.password {
		return "", errInvalidCredentials
	}

	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(a.secret)
}

// Require wraps a handler so it only runs with a valid admin token.
// An unconfigured secret refuses everything, mirroring Login.
func (a *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.secret) == 0 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "admin auth not configured"})
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authorization header missing"})
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token missing"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token missing"})
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
