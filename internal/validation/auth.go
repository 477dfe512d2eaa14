package validation

import (
	"strings"

	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
)

const minPasswordLength = 8

// ValidateRegister validates a registration request.
//
// Required fields:
//   - username: Non-empty, no surrounding whitespace
//   - email: Non-empty, must contain "@"
//   - password: At least 8 characters
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errors["email"] = "email is not valid"
	}

	if len(req.Password) < minPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateLogin validates a login request. The username field also accepts
// an email address.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateForgotPassword validates a password reset initiation request.
func ValidateForgotPassword(req request.ForgotPasswordRequest) error {
	errors := make(map[string]string)

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errors["email"] = "email is not valid"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateResetPassword validates a password reset completion request.
func ValidateResetPassword(req request.ResetPasswordRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Token) == "" {
		errors["token"] = "token is required"
	}
	if len(req.Password) < minPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
