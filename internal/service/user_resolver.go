package service

import (
	"context"

	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/types"
	"github.com/stripe/stripe-go/v82"
)

// UserResolver maps a provider subscription to the local user that owns it.
// Resolution walks an ordered chain of sources and stops at the first hit.
type UserResolver interface {
	Resolve(ctx context.Context, sub *stripe.Subscription) (string, error)
}

type resolverStep struct {
	name string
	run  func(ctx context.Context, sub *stripe.Subscription) (string, error)
}

type userResolver struct {
	ServiceParams
	steps []resolverStep
}

// NewUserResolver creates the resolver with its fallback chain. The order
// matters: cheap local sources run before provider API calls.
func NewUserResolver(params ServiceParams) UserResolver {
	r := &userResolver{ServiceParams: params}
	r.steps = []resolverStep{
		{name: "subscription_metadata", run: r.fromSubscriptionMetadata},
		{name: "local_subscription", run: r.fromLocalSubscription},
		{name: "customer_metadata", run: r.fromCustomerMetadata},
		{name: "profile_customer_id", run: r.fromProfile},
	}
	return r
}

func (r *userResolver) Resolve(ctx context.Context, sub *stripe.Subscription) (string, error) {
	for _, step := range r.steps {
		userID, err := step.run(ctx, sub)
		if err != nil {
			// A failing source falls through to the next one
			r.Logger.Warnw("user resolution step failed",
				"step", step.name,
				"subscription_id", sub.ID,
				"error", err,
			)
			continue
		}
		if userID != "" {
			r.Logger.Debugw("resolved subscription owner",
				"step", step.name,
				"subscription_id", sub.ID,
				"user_id", userID,
			)
			return userID, nil
		}
	}

	return "", ierr.NewError("user not resolved").
		WithHint("No local user could be linked to the subscription").
		WithReportableDetails(map[string]interface{}{
			"subscription_id":    sub.ID,
			"stripe_customer_id": customerIDOf(sub),
		}).
		Mark(ierr.ErrNotFound)
}

func (r *userResolver) fromSubscriptionMetadata(_ context.Context, sub *stripe.Subscription) (string, error) {
	return sub.Metadata[types.MetadataKeyUserID], nil
}

func (r *userResolver) fromLocalSubscription(ctx context.Context, sub *stripe.Subscription) (string, error) {
	customerID := customerIDOf(sub)
	if customerID == "" {
		return "", nil
	}

	existing, err := r.SubRepo.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return existing.UserID, nil
}

func (r *userResolver) fromCustomerMetadata(ctx context.Context, sub *stripe.Subscription) (string, error) {
	customerID := customerIDOf(sub)
	if customerID == "" {
		return "", nil
	}

	cust, err := r.Provider.GetCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}
	return cust.Metadata[types.MetadataKeyUserID], nil
}

func (r *userResolver) fromProfile(ctx context.Context, sub *stripe.Subscription) (string, error) {
	customerID := customerIDOf(sub)
	if customerID == "" {
		return "", nil
	}

	p, err := r.ProfileRepo.GetByStripeCustomerID(ctx, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return p.ID, nil
}

func customerIDOf(sub *stripe.Subscription) string {
	if sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}
