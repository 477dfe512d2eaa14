package handlers

import (
	"errors"
	"net/http"

	"github.com/stockpilot/stock-pilot-backend/internal/api/middleware"
	"github.com/stockpilot/stock-pilot-backend/internal/api/request"
	"github.com/stockpilot/stock-pilot-backend/internal/api/response"
	"github.com/stockpilot/stock-pilot-backend/internal/apperrors"
	"github.com/stockpilot/stock-pilot-backend/internal/model"
	"github.com/stockpilot/stock-pilot-backend/internal/service"
	"github.com/stockpilot/stock-pilot-backend/internal/validation"
)

// AuthHandler handles HTTP requests for authentication endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the authService.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginResponse is the payload returned on a successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST requests to create a new account.
//
// Endpoint: POST /api/v1/auth/register
// Request Body: RegisterRequest (firstName, lastName, username, email, password)
// Response: 201 Created with User (password hash never serialized)
// Error: 400 Bad Request if validation fails or the username/email is taken
// Error: 500 Internal Server Error if creation fails
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRegister(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) || errors.Is(err, apperrors.ErrEmailTaken) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToRegisterUser.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRegisterUser.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST requests to authenticate a user. The username field
// also accepts an email address.
//
// Endpoint: POST /api/v1/auth/login
// Request Body: LoginRequest (username, password)
// Response: 200 OK with LoginResponse (token, user)
// Error: 400 Bad Request if validation fails or the user is unknown
// Error: 401 Unauthorized if the password does not match
// Error: 500 Internal Server Error if login fails
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	token, user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToLogin.Error(), apperrors.ErrUserNotFound.Error())
			return
		}
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrFailedToLogin.Error(), apperrors.ErrInvalidCredentials.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLogin.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Me handles GET requests to retrieve the authenticated user's profile.
//
// Endpoint: GET /api/v1/auth/me
// Response: 200 OK with User
// Error: 401 Unauthorized if the bearer token is missing or invalid
// Error: 404 Not Found if the account no longer exists
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve user", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

// ForgotPassword handles POST requests to start a password reset. The
// response is identical whether or not the email exists.
//
// Endpoint: POST /api/v1/auth/forgot-password
// Request Body: ForgotPasswordRequest (email)
// Response: 200 OK
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if the reset could not be initiated
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ForgotPasswordRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateForgotPassword(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to initiate password reset", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetPassword handles POST requests to complete a password reset.
//
// Endpoint: POST /api/v1/auth/reset-password
// Request Body: ResetPasswordRequest (token, password)
// Response: 200 OK
// Error: 400 Bad Request if validation fails
// Error: 401 Unauthorized if the reset token is invalid or expired
// Error: 500 Internal Server Error if the update fails
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ResetPasswordRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateResetPassword(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrInvalidResetToken) || errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrInvalidResetToken.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to reset password", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
