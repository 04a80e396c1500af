package service

import (
	"context"

	"github.com/nextplate/billing/internal/config"
	"github.com/nextplate/billing/internal/domain/price"
	"github.com/nextplate/billing/internal/domain/product"
	"github.com/nextplate/billing/internal/domain/profile"
	"github.com/nextplate/billing/internal/domain/subscription"
	"github.com/nextplate/billing/internal/integration/stripe"
	"github.com/nextplate/billing/internal/logger"
)

// TxRunner runs a function inside a database transaction. *postgres.DB
// satisfies it; tests substitute a pass-through.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ServiceParams bundles common dependencies for services
type ServiceParams struct {
	Logger   *logger.Logger
	Config   *config.Configuration
	DB       TxRunner
	Provider stripe.Provider

	// Repositories
	ProductRepo product.Repository
	PriceRepo   price.Repository
	SubRepo     subscription.Repository
	ProfileRepo profile.Repository
}
