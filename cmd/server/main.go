package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nextplate/billing/internal/api"
	v1 "github.com/nextplate/billing/internal/api/v1"
	"github.com/nextplate/billing/internal/config"
	"github.com/nextplate/billing/internal/domain/price"
	"github.com/nextplate/billing/internal/domain/product"
	"github.com/nextplate/billing/internal/domain/profile"
	"github.com/nextplate/billing/internal/domain/subscription"
	stripeclient "github.com/nextplate/billing/internal/integration/stripe"
	"github.com/nextplate/billing/internal/integration/stripe/webhook"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/postgres"
	pgrepo "github.com/nextplate/billing/internal/repository/postgres"
	"github.com/nextplate/billing/internal/service"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			postgres.NewDB,
		),
		fx.Provide(
			pgrepo.NewProductRepository,
			pgrepo.NewPriceRepository,
			pgrepo.NewSubscriptionRepository,
			pgrepo.NewProfileRepository,
		),
		fx.Provide(
			stripeclient.NewClient,
			func(c *stripeclient.Client) stripeclient.Provider { return c },
		),
		fx.Provide(
			newServiceParams,
			service.NewUserResolver,
			service.NewCatalogSyncService,
			service.NewSubscriptionSyncService,
		),
		fx.Provide(
			webhook.NewHandler,
			v1.NewHealthHandler,
			v1.NewWebhookHandler,
			v1.NewSyncHandler,
			newHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	db *postgres.DB,
	provider stripeclient.Provider,
	productRepo product.Repository,
	priceRepo price.Repository,
	subRepo subscription.Repository,
	profileRepo profile.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:      log,
		Config:      cfg,
		DB:          db,
		Provider:    provider,
		ProductRepo: productRepo,
		PriceRepo:   priceRepo,
		SubRepo:     subRepo,
		ProfileRepo: profileRepo,
	}
}

func newHandlers(
	health *v1.HealthHandler,
	webhookHandler *v1.WebhookHandler,
	sync *v1.SyncHandler,
) api.Handlers {
	return api.Handlers{
		Health:  health,
		Webhook: webhookHandler,
		Sync:    sync,
	}
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	db *postgres.DB,
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
			db.Close()
			return nil
		},
	})
}
