package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sebuszqo/FinBank/internal/auth"
	"github.com/sebuszqo/FinBank/internal/finance/interfaces"
	"github.com/sebuszqo/FinBank/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
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

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router          http.Handler
	health          healthChecker
	authHandler     *auth.Handler
	userHandler     *user.Handler
	authService     auth.Service
	transferHandler *interfaces.TransferHandler
	financeHandler  *interfaces.FinanceHandler
	categoryHandler *interfaces.CategoryHandler
	accountHandler  *interfaces.AccountHandler
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	if stats["status"] != "up" {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"database": stats,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"database": stats,
	})
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/users", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("GET /api/users/activate", http.HandlerFunc(s.userHandler.HandleActivate))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protected := s.authService.JWTAccessTokenMiddleware()
	protectedRoutes := http.NewServeMux()

	// users
	protectedRoutes.Handle("GET /api/protected/users", protected(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("PATCH /api/protected/users", protected(http.HandlerFunc(s.userHandler.HandleUpdateProfile)))
	protectedRoutes.Handle("DELETE /api/protected/users/{userID}", protected(http.HandlerFunc(s.userHandler.HandleDeleteUser)))

	// two-factor auth
	protectedRoutes.Handle("POST /api/protected/2fa/register", protected(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", protected(http.HandlerFunc(s.authHandler.HandleVerifyTwoFactorCode)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", protected(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// account and transfers
	protectedRoutes.Handle("GET /api/protected/account", protected(http.HandlerFunc(s.accountHandler.GetAccount)))
	protectedRoutes.Handle("POST /api/protected/transfer/{receiverAccountID}", protected(http.HandlerFunc(s.transferHandler.CreateTransfer)))
	protectedRoutes.Handle("GET /api/protected/transfer", protected(http.HandlerFunc(s.transferHandler.ListTransfers)))

	// finances
	protectedRoutes.Handle("POST /api/protected/finances", protected(http.HandlerFunc(s.financeHandler.CreateFinance)))
	protectedRoutes.Handle("GET /api/protected/finances", protected(http.HandlerFunc(s.financeHandler.ListFinances)))
	protectedRoutes.Handle("PATCH /api/protected/finances/{financeID}", protected(http.HandlerFunc(s.financeHandler.UpdateFinance)))
	protectedRoutes.Handle("GET /api/protected/categories", protected(http.HandlerFunc(s.categoryHandler.GetCategories)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("GET /metrics", promhttp.Handler())
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
