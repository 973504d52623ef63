package httpadapter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/amarastelive/amaraste-agent/internal/adapters/http"
)

func protectedHandler(auth *httpadapter.AdminAuth) (http.Handler, *bool) {
	called := false
	h := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &called
}

func callWithAuth(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/conversations/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginRequiresSecret(t *testing.T) {
	auth := httpadapter.NewAdminAuth("1234", "1234", "")
	_, err := auth.Login("1234", "1234")
	assert.Error(t, err)
}

func TestRequireRejectsUnconfiguredSecret(t *testing.T) {
	auth := httpadapter.NewAdminAuth("1234", "1234", "")
	h, called := protectedHandler(auth)

	// A token signed with the empty key must not pass an unconfigured
	// gate.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"})
	signed, err := token.SignedString([]byte(""))
	require.NoError(t, err)

	rec := callWithAuth(h, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAcceptsValidToken(t *testing.T) {
	auth := httpadapter.NewAdminAuth("1234", "1234", "segredo")
	signed, err := auth.Login("1234", "1234")
	require.NoError(t, err)

	h, called := protectedHandler(auth)
	rec := callWithAuth(h, "Bearer "+signed)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, *called)
}

func TestRequireRejectsMalformedHeaders(t *testing.T) {
	auth := httpadapter.NewAdminAuth("1234", "1234", "segredo")
	signed, err := auth.Login("1234", "1234")
	require.NoError(t, err)

	h, called := protectedHandler(auth)
	for _, header := range []string{
		"",
		"Bearer",
		"Bearer ",
		"Bearer" + signed, // no space after the scheme
		"Basic " + signed,
	} {
		rec := callWithAuth(h, header)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.False(t, *called)
	}
}

func TestRequireRejectsWrongKeyToken(t *testing.T) {
	auth := httpadapter.NewAdminAuth("1234", "1234", "segredo")
	h, called := protectedHandler(auth)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"})
	signed, err := token.SignedString([]byte("outro-segredo"))
	require.NoError(t, err)

	rec := callWithAuth(h, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}
