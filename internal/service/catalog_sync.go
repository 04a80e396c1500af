package service

import (
	"context"

	"github.com/nextplate/billing/internal/domain/price"
	"github.com/nextplate/billing/internal/domain/product"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/types"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"
)

// CatalogSyncService reconciles the local product and price mirror with the
// provider's catalog. The provider is the source of truth: rows absent from
// its listing are deactivated, never deleted.
type CatalogSyncService interface {
	SyncProducts(ctx context.Context) (*types.SyncResult, error)
	SyncPrices(ctx context.Context) (*types.SyncResult, error)
	SyncCatalog(ctx context.Context) (*types.SyncResult, error)
}

type catalogSyncService struct {
	ServiceParams
}

func NewCatalogSyncService(params ServiceParams) CatalogSyncService {
	return &catalogSyncService{ServiceParams: params}
}

func (s *catalogSyncService) SyncProducts(ctx context.Context) (*types.SyncResult, error) {
	stripeProducts, err := s.Provider.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{}
	presentIDs := lo.Map(stripeProducts, func(p *stripe.Product, _ int) string { return p.ID })

	for _, sp := range stripeProducts {
		result.Total++

		created, err := s.ProductRepo.Upsert(ctx, product.FromStripe(sp))
		if err != nil {
			// One bad record does not abort the batch
			s.Logger.Errorw("failed to upsert product",
				"stripe_product_id", sp.ID,
				"error", err,
			)
			result.Errors++
			continue
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	deactivated, err := s.ProductRepo.DeactivateMissing(ctx, presentIDs)
	if err != nil {
		return result, err
	}

	s.Logger.Infow("product sync complete",
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"errors", result.Errors,
		"deactivated", deactivated,
	)
	return result, nil
}

func (s *catalogSyncService) SyncPrices(ctx context.Context) (*types.SyncResult, error) {
	stripePrices, err := s.Provider.ListPrices(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.SyncResult{}
	presentIDs := lo.Map(stripePrices, func(p *stripe.Price, _ int) string { return p.ID })

	for _, sp := range stripePrices {
		result.Total++

		if sp.Product == nil {
			s.Logger.Warnw("price has no product, skipping", "stripe_price_id", sp.ID)
			result.Skipped++
			continue
		}

		localProduct, err := s.ProductRepo.GetByStripeID(ctx, sp.Product.ID)
		if err != nil {
			if ierr.IsNotFound(err) {
				// Prices referencing a product we do not mirror are
				// skipped, not written
				s.Logger.Warnw("price references unknown product, skipping",
					"stripe_price_id", sp.ID,
					"stripe_product_id", sp.Product.ID,
				)
				result.Skipped++
				continue
			}
			result.Errors++
			continue
		}

		created, err := s.PriceRepo.Upsert(ctx, price.FromStripe(sp, localProduct.ID))
		if err != nil {
			s.Logger.Errorw("failed to upsert price",
				"stripe_price_id", sp.ID,
				"error", err,
			)
			result.Errors++
			continue
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	deactivated, err := s.PriceRepo.DeactivateMissing(ctx, presentIDs)
	if err != nil {
		return result, err
	}

	s.Logger.Infow("price sync complete",
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"errors", result.Errors,
		"skipped", result.Skipped,
		"deactivated", deactivated,
	)
	return result, nil
}

// SyncCatalog syncs products first so that prices can link to them
func (s *catalogSyncService) SyncCatalog(ctx context.Context) (*types.SyncResult, error) {
	result := &types.SyncResult{}

	productResult, err := s.SyncProducts(ctx)
	if err != nil {
		return nil, err
	}
	result.Add(*productResult)

	priceResult, err := s.SyncPrices(ctx)
	if err != nil {
		return result, err
	}
	result.Add(*priceResult)

	return result, nil
}
