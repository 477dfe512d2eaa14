package validation

import (
	"testing"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
)

// TestValidateRegister tests registration validation.
func TestValidateRegister(t *testing.T) {
	valid := request.RegisterRequest{
		Username: "trader1",
		Email:    "trader1@example.com",
		Password: "correct-horse",
	}

	t.Run("accepts a valid request", func(t *testing.T) {
		if err := ValidateRegister(valid); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*request.RegisterRequest)
		field  string
	}{
		{"rejects empty username", func(r *request.RegisterRequest) { r.Username = "  " }, "username"},
		{"rejects empty email", func(r *request.RegisterRequest) { r.Email = "" }, "email"},
		{"rejects email without at sign", func(r *request.RegisterRequest) { r.Email = "trader1.example.com" }, "email"},
		{"rejects short password", func(r *request.RegisterRequest) { r.Password = "short" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			fieldError(t, ValidateRegister(req), tt.field)
		})
	}
}

// TestValidateLogin tests login validation.
func TestValidateLogin(t *testing.T) {
	t.Run("accepts username and password", func(t *testing.T) {
		req := request.LoginRequest{Username: "trader1", Password: "pw"}
		if err := ValidateLogin(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("accepts an email in the username field", func(t *testing.T) {
		req := request.LoginRequest{Username: "trader1@example.com", Password: "pw"}
		if err := ValidateLogin(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects missing username", func(t *testing.T) {
		fieldError(t, ValidateLogin(request.LoginRequest{Password: "pw"}), "username")
	})

	t.Run("rejects missing password", func(t *testing.T) {
		fieldError(t, ValidateLogin(request.LoginRequest{Username: "trader1"}), "password")
	})
}

// TestValidateForgotPassword tests reset initiation validation.
func TestValidateForgotPassword(t *testing.T) {
	t.Run("accepts a valid email", func(t *testing.T) {
		req := request.ForgotPasswordRequest{Email: "trader1@example.com"}
		if err := ValidateForgotPassword(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		fieldError(t, ValidateForgotPassword(request.ForgotPasswordRequest{Email: "nope"}), "email")
	})
}

// TestValidateResetPassword tests reset completion validation.
func TestValidateResetPassword(t *testing.T) {
	t.Run("accepts token and password", func(t *testing.T) {
		req := request.ResetPasswordRequest{Token: "tok", Password: "long-enough"}
		if err := ValidateResetPassword(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		fieldError(t, ValidateResetPassword(request.ResetPasswordRequest{Password: "long-enough"}), "token")
	})

	t.Run("rejects short password", func(t *testing.T) {
		fieldError(t, ValidateResetPassword(request.ResetPasswordRequest{Token: "tok", Password: "short"}), "password")
	})
}
