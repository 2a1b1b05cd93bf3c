package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sebuszqo/FinBank/internal/identity"
)

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("JSON encoding error", slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

// respondServiceError maps the service errors shared by every user endpoint.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErr.Messages)
	case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrCPFAlreadyExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNothingToUpdate):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func profile(user *User) map[string]interface{} {
	return map[string]interface{}{
		"user_id":     user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"cpf":         user.CPF,
		"birthdate":   user.Birthdate.Format("2006-01-02"),
		"account_id":  user.AccountID,
		"2fa_enabled": user.TwoFactorEnabled,
		"2fa_method":  user.TwoFactorMethod,
		"created_at":  user.CreatedAt,
		"updated_at":  user.UpdatedAt,
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Could not register user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "User created. Check your email to activate the account.",
		"data": map[string]interface{}{
			"user_id":    user.ID,
			"account_id": user.AccountID,
		},
	})
}

func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "Activation token is required")
		return
	}

	err := h.userService.Activate(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidActivationToken):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUserAlreadyActive):
			respondError(w, http.StatusConflict, "User already activated")
		default:
			respondError(w, http.StatusInternalServerError, "Could not activate user")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Account activated",
	})
}

func (h *Handler) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Could not fetch user data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   profile(user),
	})
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   profile(user),
	})
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.userService.SoftDelete(r.Context(), userID, r.PathValue("userID"))
	if err != nil {
		respondServiceError(w, err, "Could not delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "User deleted",
	})
}
