package service

import (
	"context"

	"github.com/nextplate/billing/internal/domain/subscription"
)

// SubscriptionSyncService mirrors a single provider subscription into the
// local store. The operation is idempotent: replays of the same provider
// state leave exactly one row per stripe subscription id.
type SubscriptionSyncService interface {
	SyncSubscription(ctx context.Context, stripeSubscriptionID string) (string, error)
}

type subscriptionSyncService struct {
	ServiceParams
	resolver UserResolver
}

func NewSubscriptionSyncService(params ServiceParams, resolver UserResolver) SubscriptionSyncService {
	return &subscriptionSyncService{
		ServiceParams: params,
		resolver:      resolver,
	}
}

func (s *subscriptionSyncService) SyncSubscription(ctx context.Context, stripeSubscriptionID string) (string, error) {
	stripeSub, err := s.Provider.GetSubscription(ctx, stripeSubscriptionID)
	if err != nil {
		return "", err
	}

	userID, err := s.resolver.Resolve(ctx, stripeSub)
	if err != nil {
		return "", err
	}

	// Remember the customer mapping for future resolutions. Failure here
	// must not block the sync itself.
	if customerID := customerIDOf(stripeSub); customerID != "" {
		if err := s.ProfileRepo.UpdateStripeCustomerID(ctx, userID, customerID); err != nil {
			s.Logger.Warnw("failed to store customer id on profile",
				"user_id", userID,
				"stripe_customer_id", customerID,
				"error", err,
			)
		}
	}

	local := subscription.FromStripe(stripeSub, userID)
	if !local.Status.Validate() {
		s.Logger.Warnw("unknown subscription status from provider",
			"subscription_id", stripeSubscriptionID,
			"status", local.Status,
		)
	}

	var localID string
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		id, err := s.SubRepo.Upsert(ctx, local)
		if err != nil {
			return err
		}
		localID = id

		if stripeSub.Items == nil {
			return nil
		}
		for _, item := range stripeSub.Items.Data {
			if err := s.SubRepo.UpsertItem(ctx, subscription.ItemFromStripe(item, localID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.Logger.Infow("subscription synced",
		"subscription_id", stripeSubscriptionID,
		"local_id", localID,
		"user_id", userID,
		"status", local.Status,
	)
	return localID, nil
}
