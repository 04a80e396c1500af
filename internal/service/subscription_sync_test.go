package service

import (
	"testing"
	"time"

	"github.com/nextplate/billing/internal/domain/profile"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/testutil"
	"github.com/nextplate/billing/internal/types"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
)

type SubscriptionSyncSuite struct {
	testutil.BaseServiceTestSuite
	service SubscriptionSyncService
}

func TestSubscriptionSyncService(t *testing.T) {
	suite.Run(t, new(SubscriptionSyncSuite))
}

func (s *SubscriptionSyncSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := s.newParams()
	s.service = NewSubscriptionSyncService(params, NewUserResolver(params))
}

func (s *SubscriptionSyncSuite) newParams() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          testutil.PassthroughTx{},
		Provider:    s.GetProvider(),
		ProductRepo: stores.ProductRepo,
		PriceRepo:   stores.PriceRepo,
		SubRepo:     stores.SubscriptionRepo,
		ProfileRepo: stores.ProfileRepo,
	}
}

func (s *SubscriptionSyncSuite) seedStripeSubscription(status stripe.SubscriptionStatus) *stripe.Subscription {
	sub := &stripe.Subscription{
		ID:       "sub_123",
		Status:   status,
		Customer: &stripe.Customer{ID: "cus_123"},
		Metadata: map[string]string{types.MetadataKeyUserID: "user_1"},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					ID:                 "si_1",
					Quantity:           1,
					CurrentPeriodStart: 1700000000,
					CurrentPeriodEnd:   1702592000,
					Price:              &stripe.Price{ID: "price_1"},
				},
			},
		},
	}
	s.GetProvider().Subscriptions[sub.ID] = sub
	return sub
}

func (s *SubscriptionSyncSuite) seedProfile(id string) {
	s.GetStores().ProfileRepo.Set(s.GetContext(), id, &profile.Profile{
		ID:        id,
		Email:     id + "@example.com",
		BaseModel: types.GetDefaultBaseModel(),
	})
}

func (s *SubscriptionSyncSuite) TestSyncCreatesSubscription() {
	s.seedStripeSubscription(stripe.SubscriptionStatusActive)
	s.seedProfile("user_1")

	localID, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)
	s.NotEmpty(localID)

	stored, err := s.GetStores().SubscriptionRepo.GetByStripeID(s.GetContext(), "sub_123")
	s.NoError(err)
	s.Equal("user_1", stored.UserID)
	s.Equal("cus_123", stored.StripeCustomerID)
	s.Equal("price_1", stored.PriceID)
	s.Equal(types.SubscriptionStatusActive, stored.Status)
	s.Equal(time.Unix(1700000000, 0).UTC(), stored.CurrentPeriodStart)
	s.Equal(time.Unix(1702592000, 0).UTC(), stored.CurrentPeriodEnd)
	s.Nil(stored.CanceledAt)

	items, err := s.GetStores().SubscriptionRepo.ListItems(s.GetContext(), localID)
	s.NoError(err)
	s.Len(items, 1)
	s.Equal("si_1", items[0].StripeItemID)
	s.Equal("price_1", items[0].StripePriceID)
}

func (s *SubscriptionSyncSuite) TestSyncIsIdempotent() {
	s.seedStripeSubscription(stripe.SubscriptionStatusActive)
	s.seedProfile("user_1")

	firstID, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)

	secondID, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)

	s.Equal(firstID, secondID)
	s.Equal(1, s.GetStores().SubscriptionRepo.CountSubscriptions(s.GetContext()))

	items, err := s.GetStores().SubscriptionRepo.ListItems(s.GetContext(), firstID)
	s.NoError(err)
	s.Len(items, 1)
}

func (s *SubscriptionSyncSuite) TestSyncReflectsCancellation() {
	sub := s.seedStripeSubscription(stripe.SubscriptionStatusActive)
	s.seedProfile("user_1")

	firstID, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)

	sub.Status = stripe.SubscriptionStatusCanceled
	sub.CanceledAt = 1701000000

	secondID, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)
	s.Equal(firstID, secondID)

	stored, err := s.GetStores().SubscriptionRepo.GetByStripeID(s.GetContext(), "sub_123")
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCanceled, stored.Status)
	s.NotNil(stored.CanceledAt)
	s.Equal(time.Unix(1701000000, 0).UTC(), *stored.CanceledAt)
	s.True(stored.Status.IsTerminal())
}

func (s *SubscriptionSyncSuite) TestSyncStoresCustomerIDOnProfile() {
	s.seedStripeSubscription(stripe.SubscriptionStatusActive)
	s.seedProfile("user_1")

	_, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)

	p, err := s.GetStores().ProfileRepo.Get(s.GetContext(), "user_1")
	s.NoError(err)
	s.NotNil(p.StripeCustomerID)
	s.Equal("cus_123", *p.StripeCustomerID)
}

func (s *SubscriptionSyncSuite) TestSyncContinuesWhenProfileUpdateFails() {
	// No profile row exists, so storing the customer id fails. The sync
	// itself must still go through.
	s.seedStripeSubscription(stripe.SubscriptionStatusActive)

	localID, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.NoError(err)
	s.NotEmpty(localID)
	s.Equal(1, s.GetStores().SubscriptionRepo.CountSubscriptions(s.GetContext()))
}

func (s *SubscriptionSyncSuite) TestSyncFailsWhenUserUnresolved() {
	sub := s.seedStripeSubscription(stripe.SubscriptionStatusActive)
	sub.Metadata = nil

	_, err := s.service.SyncSubscription(s.GetContext(), "sub_123")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
	s.Zero(s.GetStores().SubscriptionRepo.Writes)
}

func (s *SubscriptionSyncSuite) TestSyncFailsWhenProviderHasNoSubscription() {
	_, err := s.service.SyncSubscription(s.GetContext(), "sub_missing")
	s.Error(err)
	s.Zero(s.GetStores().SubscriptionRepo.Writes)
}
