package testutil

import (
	"context"
	"time"

	"github.com/nextplate/billing/internal/config"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository fakes for testing
type Stores struct {
	ProductRepo      *InMemoryProductStore
	PriceRepo        *InMemoryPriceStore
	SubscriptionRepo *InMemorySubscriptionStore
	ProfileRepo      *InMemoryProfileStore
}

// BaseServiceTestSuite provides common functionality for service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	provider *FakeProvider
	logger   *logger.Logger
	config   *config.Configuration
	now      time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.logger = logger.NewNop()
	s.config = config.GetDefaultConfig()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = types.SetRequestID(context.Background(), types.GenerateUUID())
	s.stores = Stores{
		ProductRepo:      NewInMemoryProductStore(),
		PriceRepo:        NewInMemoryPriceStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
		ProfileRepo:      NewInMemoryProfileStore(),
	}
	s.provider = NewFakeProvider()
	s.now = time.Now().UTC()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetProvider() *FakeProvider {
	return s.provider
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
