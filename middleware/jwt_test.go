package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func issueToken(t *testing.T) string {
	t.Helper()
	token, err := GenerateToken("42", "ybenali", "user")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func serveWithToken(token string, handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	Init("test-secret")

	var claims *Claims
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetClaims(r)
	}))

	rec := serveWithToken(issueToken(t), handler)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token rejected with %d", rec.Code)
	}
	if claims == nil || claims.UserID != "42" || claims.Username != "ybenali" || claims.Role != "user" {
		t.Fatalf("claims not carried through context: %+v", claims)
	}
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	Init("test-secret")
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a rejected token")
	}))

	if rec := serveWithToken("", handler); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d", rec.Code)
	}
	if rec := serveWithToken("not-a-jwt", handler); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: got %d", rec.Code)
	}
}

func TestTokensSignedWithOldKeyAreRejected(t *testing.T) {
	// The key comes from configuration at startup; a token minted under a
	// different key (another deployment, or a forgery against an empty key)
	// must not verify.
	Init("first-secret")
	stale := issueToken(t)

	Init("second-secret")
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a token signed under another key")
	}))
	if rec := serveWithToken(stale, handler); rec.Code != http.StatusUnauthorized {
		t.Errorf("stale-key token: got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	Init("test-secret")

	ok := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ok = true })

	admin := JWTMiddleware(RequireRole([]string{"admin"}, inner))
	if rec := serveWithToken(issueToken(t), admin); rec.Code != http.StatusForbidden {
		t.Errorf("user role on admin route: got %d", rec.Code)
	}
	if ok {
		t.Error("inner handler ran despite forbidden role")
	}

	users := JWTMiddleware(RequireRole([]string{"admin", "user"}, inner))
	if rec := serveWithToken(issueToken(t), users); rec.Code != http.StatusOK || !ok {
		t.Errorf("permitted role rejected: got %d", rec.Code)
	}
}
