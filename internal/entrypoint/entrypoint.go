package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/identity/internal/audit"
	"github.com/mrlokans/identity/internal/auth"
	"github.com/mrlokans/identity/internal/config"
	"github.com/mrlokans/identity/internal/database"
	"github.com/mrlokans/identity/internal/database/accounts"
	auditrepo "github.com/mrlokans/identity/internal/database/audit"
	"github.com/mrlokans/identity/internal/database/verifications"
	http_controllers "github.com/mrlokans/identity/internal/http"
	"github.com/mrlokans/identity/internal/logging"
	"github.com/mrlokans/identity/internal/mail"
	"github.com/mrlokans/identity/internal/scheduler"
	"github.com/mrlokans/identity/internal/services"
	"github.com/mrlokans/identity/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger logging.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info(context.Background(), "shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Background work stops after the last request has been answered
	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info(ctx, "server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger.Slog())
	ctx := context.Background()

	logger.Info(ctx, "starting identity service", "version", version)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error(ctx, "error closing database", "error", err)
		}
	}()

	accountRepo := accounts.NewRepository(db.DB, cfg.Auth.BcryptCost)
	verificationRepo := verifications.NewRepository(db.DB)

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.SecretKey), cfg.Auth.TokenExpiry)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	var auditService *audit.Service
	var auditRecorder services.AuditRecorder
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditrepo.NewRepository(db.DB), logger)
		auditRecorder = auditService
	}

	mailer, err := mail.NewMailer(cfg.Mail, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Verification mail goes through the task queue when it is enabled,
	// otherwise it is sent inline after the ticket is committed.
	var notifier services.VerificationNotifier = tasks.NewDirectNotifier(mailer, cfg.Mail.VerifyURL)

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error(ctx, "error closing task client", "error", err)
			}
		}()

		taskClient.Register(
			tasks.NewSendVerificationEmailQueue(mailer, cfg.Mail.VerifyURL, logger),
			tasks.NewCleanupVerificationsQueue(verificationRepo, logger),
		)
		if auditService != nil {
			taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, logger))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		notifier = tasks.NewVerificationDispatcher(taskClient)
	}

	accountService := services.NewAccountService(services.AccountServiceConfig{
		DB:            db.DB,
		Accounts:      accountRepo,
		Verifications: verificationRepo,
		Tokens:        tokens,
		Notifier:      notifier,
		Audit:         auditRecorder,
		Logger:        logger,
	})

	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Maintenance.Enabled {
		maintenance = scheduler.NewMaintenanceScheduler(cfg.Maintenance.Schedule, logger,
			maintenanceJobs(cfg, taskClient, verificationRepo, auditService, logger)...)
		if err := maintenance.Start(ctx); err != nil {
			return fmt.Errorf("failed to start maintenance scheduler: %w", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Accounts:       accountService,
		Database:       db,
		AuthMiddleware: auth.NewMiddleware(tokens, accountRepo, cfg.Auth.TokenHeader, logger),
		AuditService:   auditService,
		EnableHSTS:     cfg.HTTP.HSTS,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if auditService != nil {
			auditService.Wait()
		}
	}

	return Serve(router, cfg, logger, onShutdown)
}

// maintenanceJobs enqueues the cleanup tasks, or runs them inline when the
// task queue is disabled.
func maintenanceJobs(cfg *config.Config, taskClient *tasks.Client, verificationRepo *verifications.Repository, auditService *audit.Service, logger logging.Logger) []scheduler.Job {
	verificationTask := tasks.CleanupVerificationsTask{RetentionDays: cfg.Maintenance.VerificationRetentionDays}
	auditTask := tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}

	if taskClient != nil {
		jobs := []scheduler.Job{{
			Name: "cleanup_verifications",
			Run: func(ctx context.Context) error {
				_, err := taskClient.Add(verificationTask).Ctx(ctx).Save()
				return err
			},
		}}
		if auditService != nil {
			jobs = append(jobs, scheduler.Job{
				Name: "cleanup_audit_events",
				Run: func(ctx context.Context) error {
					_, err := taskClient.Add(auditTask).Ctx(ctx).Save()
					return err
				},
			})
		}
		return jobs
	}

	jobs := []scheduler.Job{{
		Name: "cleanup_verifications",
		Run: func(ctx context.Context) error {
			return tasks.CleanupVerificationsProcessor(verificationRepo, logger)(ctx, verificationTask)
		},
	}}
	if auditService != nil {
		jobs = append(jobs, scheduler.Job{
			Name: "cleanup_audit_events",
			Run: func(ctx context.Context) error {
				return tasks.CleanupAuditEventsProcessor(auditService, logger)(ctx, auditTask)
			},
		})
	}
	return jobs
}
