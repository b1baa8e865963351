package repository

import (
	"github.com/invobill/invobill/internal/config"
	"github.com/invobill/invobill/internal/domain/invoice"
	"github.com/invobill/invobill/internal/domain/user"
	"github.com/invobill/invobill/internal/dynamodb"
	"github.com/invobill/invobill/internal/logger"
	dynamorepo "github.com/invobill/invobill/internal/repository/dynamodb"
)

func NewInvoiceRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) invoice.Repository {
	return dynamorepo.NewInvoiceRepository(client, cfg, logger)
}

func NewUserRepository(client *dynamodb.Client, cfg *config.Configuration, logger *logger.Logger) user.Repository {
	return dynamorepo.NewUserRepository(client, cfg, logger)
}
