package service

import (
	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/domain/invoice"
	"github.com/invobill/invobill/internal/domain/user"
	"github.com/invobill/invobill/internal/logger"
)

// ServiceParams bundles the dependencies shared by all services
type ServiceParams struct {
	Logger      *logger.Logger
	Config      *config.Configuration
	InvoiceRepo invoice.Repository
	UserRepo    user.Repository
}

func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	invoiceRepo invoice.Repository,
	userRepo user.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		InvoiceRepo: invoiceRepo,
		UserRepo:    userRepo,
	}
}
