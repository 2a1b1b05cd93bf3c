package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/FinBank/internal/identity"
)

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

// respondTwoFactorError maps the errors shared by the TOTP endpoints.
func respondTwoFactorError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalid2FACode):
		respondError(w, http.StatusUnauthorized, "Invalid 2fa code")
	case errors.Is(err, ErrUser2FAAlreadyEnabled):
		respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
	case errors.Is(err, ErrUser2FANotEnabled), errors.Is(err, ErrTwoFactorNotRegistered):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidSessionToken), errors.Is(err, ErrExpiredSessionToken), errors.Is(err, ErrUserNotFound):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) respondToken(w http.ResponseWriter, result *LoginResult) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"access_token": result.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   h.authService.AccessTokenTTLSeconds(),
			"user_id":      result.User.ID,
			"account_id":   result.User.AccountID,
		},
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Login == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Login and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respondError(w, http.StatusBadRequest, ErrInvalidCredentials.Error())
		case errors.Is(err, ErrUserNotVerified):
			respondError(w, http.StatusUnauthorized, ErrUserNotVerified.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if result.TwoFactorRequired {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]string{
				"message":         "Two-factor authentication required",
				"2fa_auth_method": totpAuthMethod,
				"session_token":   result.SessionToken,
			},
		})
		return
	}

	h.respondToken(w, result)
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		Code         string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.SessionToken == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyTwoFactor(r.Context(), req.SessionToken, req.Code)
	if err != nil {
		respondTwoFactorError(w, err, "Could not verify two-factor authentication")
		return
	}

	h.respondToken(w, result)
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	otpURI, err := h.authService.RegisterTwoFactor(r.Context(), userID)
	if err != nil {
		respondTwoFactorError(w, err, "Could not register two-factor authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
		},
	})
}

func (h *Handler) HandleVerifyTwoFactorCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, ok := identity.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := h.authService.VerifyTwoFactorCode(r.Context(), userID, req.Code); err != nil {
		respondTwoFactorError(w, err, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication enabled",
	})
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, ok := identity.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := h.authService.DisableTwoFactorAuth(r.Context(), userID, req.Code); err != nil {
		respondTwoFactorError(w, err, "Could not disable two-factor authentication")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication disabled successfully",
	})
}
