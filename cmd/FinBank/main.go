package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebuszqo/FinBank/internal/auth"
	"github.com/sebuszqo/FinBank/internal/config"
	database "github.com/sebuszqo/FinBank/internal/db"
	emailService "github.com/sebuszqo/FinBank/internal/email"
	"github.com/sebuszqo/FinBank/internal/finance/application"
	"github.com/sebuszqo/FinBank/internal/finance/infrastructure"
	"github.com/sebuszqo/FinBank/internal/finance/interfaces"
	"github.com/sebuszqo/FinBank/internal/telemetry"
	"github.com/sebuszqo/FinBank/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := telemetry.InitLogger("finbank", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: database.DefaultPoolOptions().ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer dbService.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, dbService.DB); err != nil {
			return err
		}
	}

	newEmailService, err := emailService.NewEmailService(emailService.LogSender{Logger: logger}, logger)
	if err != nil {
		return err
	}
	defer newEmailService.Close()

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, newEmailService, jwtManager, cfg.ActivationBaseURL, logger)
	userHandler := user.NewHandler(userService)

	sessionManager := auth.NewSessionManager()
	authRepo := auth.NewTwoFactorRepository(dbService.DB)
	authService := auth.NewAuthService(authRepo, userService, sessionManager, jwtManager, &auth.Authenticator{}, logger)
	authHandler := auth.NewHandler(authService)

	accountRepo := infrastructure.NewAccountRepository(dbService.DB)
	holderRepo := infrastructure.NewHolderRepository(dbService.DB)
	transferenceRepo := infrastructure.NewTransferenceRepository(dbService.DB)
	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	financeRepo := infrastructure.NewFinanceRepository(dbService.DB)
	unitOfWork := infrastructure.NewSQLUnitOfWork(dbService.DB)

	transferService := application.NewTransferService(accountRepo, holderRepo, transferenceRepo, unitOfWork, logger)
	categoryService := application.NewCategoryService(categoryRepo)
	financeService := application.NewFinanceService(financeRepo, categoryService, unitOfWork, logger)
	accountService := application.NewAccountService(accountRepo)

	server := &Server{
		health:          dbService,
		authHandler:     authHandler,
		userHandler:     userHandler,
		authService:     authService,
		transferHandler: interfaces.NewTransferHandler(transferService, respondJSON, respondError),
		financeHandler:  interfaces.NewFinanceHandler(financeService, respondJSON, respondError),
		categoryHandler: interfaces.NewCategoryHandler(categoryService, respondJSON, respondError),
		accountHandler:  interfaces.NewAccountHandler(accountService, respondJSON, respondError),
	}
	server.RegisterRoutes()

	scheduler, err := StartSessionCleanupScheduler(cfg.SessionPurgeSchedule, sessionManager, logger)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	if cfg.PprofAddr != "" {
		go func() {
			logger.Info("pprof listening", slog.String("addr", cfg.PprofAddr))
			if err := http.ListenAndServe(cfg.PprofAddr, nil); err != nil {
				logger.Warn("pprof stopped", slog.String("error", err.Error()))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           telemetry.HTTPMiddleware(logger, server),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr()))
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
