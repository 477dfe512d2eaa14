package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/testutil"
)

// TestAuthHandler_Register tests the registration endpoint.
//
// WHY: Registration is the only unauthenticated write path; it must never
// leak password material and must surface duplicate accounts as 400s.
func TestAuthHandler_Register(t *testing.T) {
	setup := func(t *testing.T) (*AuthHandler, func() *httptest.ResponseRecorder) {
		db := testutil.SetupTestDB(t)
		authService, _ := testutil.NewTestAuthService(t, db)
		return NewAuthHandler(authService), func() *httptest.ResponseRecorder { return httptest.NewRecorder() }
	}

	t.Run("creates an account", func(t *testing.T) {
		handler, rec := setup(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/register", request.RegisterRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Username:  "ada",
			Email:     "ada@example.com",
			Password:  "correct-horse",
		})
		w := rec()
		handler.Register(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var body map[string]interface{}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body["username"] != "ada" {
			t.Errorf("Expected username ada, got %v", body["username"])
		}
		if _, leaked := body["passwordHash"]; leaked {
			t.Error("Expected password hash to be absent from the response")
		}
		if strings.Contains(w.Body.String(), "correct-horse") {
			t.Error("Expected plaintext password to be absent from the response")
		}
	})

	t.Run("returns 400 for a taken username", func(t *testing.T) {
		handler, rec := setup(t)

		first := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/register", request.RegisterRequest{
			Username: "ada", Email: "ada@example.com", Password: "correct-horse",
		})
		handler.Register(rec(), first)

		second := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/register", request.RegisterRequest{
			Username: "ada", Email: "other@example.com", Password: "correct-horse",
		})
		w := rec()
		handler.Register(w, second)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for a short password", func(t *testing.T) {
		handler, rec := setup(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/register", request.RegisterRequest{
			Username: "ada", Email: "ada@example.com", Password: "short",
		})
		w := rec()
		handler.Register(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

// TestAuthHandler_Login tests the login endpoint.
func TestAuthHandler_Login(t *testing.T) {
	setup := func(t *testing.T) *AuthHandler {
		db := testutil.SetupTestDB(t)
		authService, _ := testutil.NewTestAuthService(t, db)

		handler := NewAuthHandler(authService)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/register", request.RegisterRequest{
			Username: "ada", Email: "ada@example.com", Password: "correct-horse",
		})
		w := httptest.NewRecorder()
		handler.Register(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Failed to register fixture user: %d %s", w.Code, w.Body.String())
		}
		return handler
	}

	t.Run("returns a token and the user", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/login", request.LoginRequest{
			Username: "ada", Password: "correct-horse",
		})
		w := httptest.NewRecorder()
		handler.Login(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var body LoginResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body.Token == "" {
			t.Error("Expected a token in the response")
		}
		if body.User == nil || body.User.Username != "ada" {
			t.Errorf("Expected user ada in the response, got %+v", body.User)
		}
	})

	t.Run("accepts the email in the username field", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/login", request.LoginRequest{
			Username: "ada@example.com", Password: "correct-horse",
		})
		w := httptest.NewRecorder()
		handler.Login(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("returns 401 for a wrong password", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/login", request.LoginRequest{
			Username: "ada", Password: "wrong-password",
		})
		w := httptest.NewRecorder()
		handler.Login(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("returns 400 for an unknown user", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/login", request.LoginRequest{
			Username: "nobody", Password: "correct-horse",
		})
		w := httptest.NewRecorder()
		handler.Login(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

// TestAuthHandler_Me tests the profile endpoint.
func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		authService, _ := testutil.NewTestAuthService(t, db)
		handler := NewAuthHandler(authService)
		user := testutil.CreateUser(t, db, "ada")

		req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), user.ID)
		w := httptest.NewRecorder()
		handler.Me(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var body map[string]interface{}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)

		if body["id"] != user.ID {
			t.Errorf("Expected user %s, got %v", user.ID, body["id"])
		}
	})

	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		authService, _ := testutil.NewTestAuthService(t, db)
		handler := NewAuthHandler(authService)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		w := httptest.NewRecorder()
		handler.Me(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("returns 404 for a deleted account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		authService, _ := testutil.NewTestAuthService(t, db)
		handler := NewAuthHandler(authService)

		req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), testutil.MakeID())
		w := httptest.NewRecorder()
		handler.Me(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

// TestAuthHandler_PasswordReset tests the two reset endpoints together.
//
// WHY: The forgot-password response must not disclose whether an email
// exists, and the link it mails out must actually complete a reset.
func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("unknown email still returns 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		authService, mailer := testutil.NewTestAuthService(t, db)
		handler := NewAuthHandler(authService)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/forgot-password", request.ForgotPasswordRequest{
			Email: "nobody@example.com",
		})
		w := httptest.NewRecorder()
		handler.ForgotPassword(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
		if len(mailer.Sent) != 0 {
			t.Errorf("Expected no mail for an unknown email, got %d", len(mailer.Sent))
		}
	})

	t.Run("mailed token completes a reset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		authService, mailer := testutil.NewTestAuthService(t, db)
		handler := NewAuthHandler(authService)

		testutil.NewUser().
			WithUsername("ada").
			WithEmail("ada@example.com").
			WithPasswordHash(testutil.HashPassword(t, "old-password")).
			Build(t, db)

		forgot := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/forgot-password", request.ForgotPasswordRequest{
			Email: "ada@example.com",
		})
		w := httptest.NewRecorder()
		handler.ForgotPassword(w, forgot)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		if len(mailer.Sent) != 1 {
			t.Fatalf("Expected 1 mail, got %d", len(mailer.Sent))
		}
		link := mailer.Sent[0].ResetLink
		idx := strings.Index(link, "reset_token=")
		if idx < 0 {
			t.Fatalf("Expected reset_token in link %q", link)
		}
		token := link[idx+len("reset_token="):]

		reset := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/reset-password", request.ResetPasswordRequest{
			Token:    token,
			Password: "new-password",
		})
		w = httptest.NewRecorder()
		handler.ResetPassword(w, reset)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		login := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/login", request.LoginRequest{
			Username: "ada", Password: "new-password",
		})
		w = httptest.NewRecorder()
		handler.Login(w, login)
		if w.Code != http.StatusOK {
			t.Errorf("Expected login with the new password to succeed, got %d", w.Code)
		}
	})

	t.Run("returns 401 for an invalid token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		authService, _ := testutil.NewTestAuthService(t, db)
		handler := NewAuthHandler(authService)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/auth/reset-password", request.ResetPasswordRequest{
			Token:    "not-a-real-token",
			Password: "new-password",
		})
		w := httptest.NewRecorder()
		handler.ResetPassword(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})
}
