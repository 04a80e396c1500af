package service

import (
	"errors"
	"testing"

	"github.com/nextplate/billing/internal/domain/profile"
	"github.com/nextplate/billing/internal/domain/subscription"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/testutil"
	"github.com/nextplate/billing/internal/types"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
)

type UserResolverSuite struct {
	testutil.BaseServiceTestSuite
	resolver UserResolver
}

func TestUserResolver(t *testing.T) {
	suite.Run(t, new(UserResolverSuite))
}

func (s *UserResolverSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.resolver = NewUserResolver(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          testutil.PassthroughTx{},
		Provider:    s.GetProvider(),
		ProductRepo: stores.ProductRepo,
		PriceRepo:   stores.PriceRepo,
		SubRepo:     stores.SubscriptionRepo,
		ProfileRepo: stores.ProfileRepo,
	})
}

func stripeSubscription(metadata map[string]string) *stripe.Subscription {
	return &stripe.Subscription{
		ID:       "sub_123",
		Customer: &stripe.Customer{ID: "cus_123"},
		Metadata: metadata,
	}
}

func (s *UserResolverSuite) TestResolvesFromSubscriptionMetadata() {
	sub := stripeSubscription(map[string]string{types.MetadataKeyUserID: "user_meta"})

	userID, err := s.resolver.Resolve(s.GetContext(), sub)
	s.NoError(err)
	s.Equal("user_meta", userID)

	// Cheaper sources win without touching the provider
	s.Zero(s.GetProvider().GetCustomerCalls)
}

func (s *UserResolverSuite) TestResolvesFromLocalSubscription() {
	_, err := s.GetStores().SubscriptionRepo.Upsert(s.GetContext(), &subscription.Subscription{
		ID:                   types.GenerateUUIDWithPrefix(types.UUIDPrefixSubscription),
		UserID:               "user_local",
		StripeCustomerID:     "cus_123",
		StripeSubscriptionID: "sub_prior",
		Status:               types.SubscriptionStatusActive,
		BaseModel:            types.GetDefaultBaseModel(),
	})
	s.NoError(err)

	userID, err := s.resolver.Resolve(s.GetContext(), stripeSubscription(nil))
	s.NoError(err)
	s.Equal("user_local", userID)
	s.Zero(s.GetProvider().GetCustomerCalls)
}

func (s *UserResolverSuite) TestResolvesFromCustomerMetadata() {
	s.GetProvider().Customers["cus_123"] = &stripe.Customer{
		ID:       "cus_123",
		Metadata: map[string]string{types.MetadataKeyUserID: "user_cust"},
	}

	userID, err := s.resolver.Resolve(s.GetContext(), stripeSubscription(nil))
	s.NoError(err)
	s.Equal("user_cust", userID)
	s.Equal(1, s.GetProvider().GetCustomerCalls)
}

func (s *UserResolverSuite) TestFallsBackToProfileWhenCustomerFetchFails() {
	s.GetProvider().GetCustomerErr = errors.New("provider unavailable")

	customerID := "cus_123"
	s.GetStores().ProfileRepo.Set(s.GetContext(), "user_profile", &profile.Profile{
		ID:               "user_profile",
		Email:            "user_profile@example.com",
		StripeCustomerID: &customerID,
		BaseModel:        types.GetDefaultBaseModel(),
	})

	userID, err := s.resolver.Resolve(s.GetContext(), stripeSubscription(nil))
	s.NoError(err)
	s.Equal("user_profile", userID)
	s.Equal(1, s.GetProvider().GetCustomerCalls)
}

func (s *UserResolverSuite) TestFailsWhenNoSourceMatches() {
	_, err := s.resolver.Resolve(s.GetContext(), stripeSubscription(nil))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
