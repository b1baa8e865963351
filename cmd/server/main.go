package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/invobill/invobill/internal/api"
	v1 "github.com/invobill/invobill/internal/api/v1"
	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/dynamodb"
	"github.com/invobill/invobill/internal/logger"
	"github.com/invobill/invobill/internal/repository"
	"github.com/invobill/invobill/internal/service"
	"github.com/invobill/invobill/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// DynamoDB
			dynamodb.NewClient,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewUserRepository,

			// Services
			service.NewServiceParams,
			service.NewInvoiceService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	invoiceService service.InvoiceService,
) api.Handlers {
	return api.NewHandlers(
		v1.NewInvoiceHandler(invoiceService, logger),
		v1.NewHealthHandler(),
	)
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
