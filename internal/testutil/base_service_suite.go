package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/domain/invoice"
	"github.com/invobill/invobill/internal/domain/user"
	"github.com/invobill/invobill/internal/logger"
	"github.com/invobill/invobill/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo invoice.Repository
	UserRepo    user.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		InvoiceRepo: NewInMemoryInvoiceStore(),
		UserRepo:    NewInMemoryUserStore(),
	}
	s.now = time.Now().UTC()

	err := s.stores.UserRepo.Create(s.ctx, &user.User{
		ID:           TestUserID,
		Name:         "Ada Example",
		Email:        "ada@example.com",
		BusinessName: "Example Consulting",
	})
	if err != nil {
		s.T().Fatalf("failed to seed test user: %v", err)
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test config
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the time captured at test setup
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
