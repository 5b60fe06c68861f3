// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"tradergym/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Accounts
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	UpdateMaxDailyRisk(ctx context.Context, accountID string, maxDailyRisk float64) error

	// Trades
	LogTrade(ctx context.Context, trade *models.Trade) error
	LogTrades(ctx context.Context, trades []models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)

	// Daily prep
	SavePrep(ctx context.Context, accountID string, prep *models.DailyPrepData) error
	GetPrep(ctx context.Context, accountID, date string) (*models.DailyPrepData, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	AccountID string
	Symbol    string
	Date      string
	StartDate string
	EndDate   string
	Status    models.TradeStatus
	Limit     int
}
