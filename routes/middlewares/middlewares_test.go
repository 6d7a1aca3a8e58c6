package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mbolis/os-portal/httpx"
	"github.com/mbolis/os-portal/log"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestHasPermission(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.False(t, HasPermission(r, "CKL"))

	r = WithClaims(r, map[string]string{httpx.ClaimRoles: "PED,CKL", httpx.ClaimUsername: "ana"})
	assert.True(t, HasPermission(r, "CKL"))
	assert.True(t, HasPermission(r, "PED"))
	assert.False(t, HasPermission(r, "CK"))
	assert.Equal(t, "ana", Username(r))

	r = WithClaims(r, map[string]string{httpx.ClaimRoles: ""})
	assert.False(t, HasPermission(r, "CKL"))
}

func TestRequirePermission(t *testing.T) {
	h := requirePermission("CKL")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, WithClaims(httptest.NewRequest("GET", "/", nil), map[string]string{httpx.ClaimRoles: "PED"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, WithClaims(httptest.NewRequest("GET", "/", nil), map[string]string{httpx.ClaimRoles: "CKL"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPermissionRejectsMissingToken(t *testing.T) {
	h := Permission("secret", "CKL")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCookieAuthRedirectsToLogin(t *testing.T) {
	h := CookieAuth(nil)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/app/checklist?os=1", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login?goto=%2Fapp%2Fchecklist%3Fos%3D1", rec.Header().Get("location"))

	// non-GET requests pass through untouched
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/app", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessLog(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out)
	defer log.SetOutput(os.Stderr)

	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("done"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/login", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, out.String(), "status=201")
	assert.Contains(t, out.String(), "path=/api/login")
	assert.Contains(t, out.String(), "bytes=4")
}
