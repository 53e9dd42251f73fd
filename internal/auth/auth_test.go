package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boshmah/HealthCommandCenter/internal/config"
	"github.com/boshmah/HealthCommandCenter/internal/userctx"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTIssuer:     "health-command-center",
		JWTTTLMinutes: 60,
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	s := NewService(testConfig())

	token, err := s.IssueToken("user-42", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := s.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-42" {
		t.Errorf("subject: got %q, want user-42", sub)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := NewService(&config.Config{JWTSecret: "secret-a", JWTIssuer: "x"})
	verifier := NewService(&config.Config{JWTSecret: "secret-b", JWTIssuer: "x"})

	token, err := issuer.IssueToken("user-42", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	s := NewService(testConfig())

	token, err := s.IssueToken("user-42", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := s.VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	s := NewService(testConfig())

	if _, err := s.VerifyToken("not.a.token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHandleDevAuth(t *testing.T) {
	h := NewHandlers(NewService(testConfig()))

	rr := httptest.NewRecorder()
	h.HandleDevAuth(rr, httptest.NewRequest(http.MethodPost, "/v1/auth/dev", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp DevAuthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type: got %q", resp.TokenType)
	}

	// The minted token must verify back to the dev user.
	sub, err := NewService(testConfig()).VerifyToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("verify dev token: %v", err)
	}
	if sub != "dev-user" {
		t.Errorf("subject: got %q, want dev-user", sub)
	}
}

func identityEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userctx.GetUserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(userID))
	})
}

func TestRequireAuth_MissingToken(t *testing.T) {
	cfg := testConfig()
	m := NewMiddleware(cfg, NewService(cfg))

	rr := httptest.NewRecorder()
	m.RequireAuth(identityEcho(t)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/foods", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Unauthorized" {
		t.Errorf("error: got %q", body["error"])
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	cfg := testConfig()
	s := NewService(cfg)
	m := NewMiddleware(cfg, s)

	token, err := s.IssueToken("user-42", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	m.RequireAuth(identityEcho(t)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "user-42" {
		t.Errorf("identity: got %q", rr.Body.String())
	}
}

func TestRequireAuth_PublicPathsPass(t *testing.T) {
	cfg := testConfig()
	m := NewMiddleware(cfg, NewService(cfg))

	for _, path := range []string{"/healthz", "/v1/auth/dev"} {
		rr := httptest.NewRecorder()
		m.RequireAuth(identityEcho(t)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code == http.StatusUnauthorized {
			t.Errorf("public path %s was rejected", path)
		}
	}
}

func TestOptionalAuth_NoTokenPassesWithoutIdentity(t *testing.T) {
	cfg := testConfig()
	m := NewMiddleware(cfg, NewService(cfg))

	rr := httptest.NewRecorder()
	m.OptionalAuth(identityEcho(t)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/foods", nil))

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected pass-through without identity, got %d", rr.Code)
	}
}

func TestOptionalAuth_BadTokenRejected(t *testing.T) {
	cfg := testConfig()
	m := NewMiddleware(cfg, NewService(cfg))

	req := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	m.OptionalAuth(identityEcho(t)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad token, got %d", rr.Code)
	}
}

func TestDefaultUser_InjectsDefaultIdentity(t *testing.T) {
	cfg := testConfig()
	m := NewMiddleware(cfg, NewService(cfg))

	rr := httptest.NewRecorder()
	m.DefaultUser(identityEcho(t)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/foods", nil))

	if rr.Body.String() != "default" {
		t.Errorf("identity: got %q, want default", rr.Body.String())
	}
}
