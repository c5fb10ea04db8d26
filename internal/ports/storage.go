package ports

import (
	"context"

	"github.com/rvilla87/polymirror/internal/domain"
)

// SettingsStore persiste las credenciales del operador. Los consumidores
// las leen al principio de cada operación, nunca las cachean.
type SettingsStore interface {
	SaveSettings(ctx context.Context, s domain.Settings) error

	// GetSettings devuelve (settings, true) si hay credenciales guardadas.
	GetSettings(ctx context.Context) (domain.Settings, bool, error)
}

// TraderStore persiste los traders seguidos y su trade log espejado.
// Append/overwrite-safe: el orden de llamadas concurrentes no importa.
type TraderStore interface {
	AddTrader(ctx context.Context, address string) error
	ListTraders(ctx context.Context) ([]domain.Trader, error)
	UpdateTraderProfile(ctx context.Context, address string, sample domain.Activity) error

	// AddTrade inserta un trade espejado; los duplicados por transaction
	// hash se ignoran silenciosamente (insert-or-ignore).
	AddTrade(ctx context.Context, t domain.MirroredTrade) error
	TradesForTrader(ctx context.Context, address string, limit int) ([]domain.MirroredTrade, error)
	RecentTrades(ctx context.Context, limit int) ([]domain.MirroredTrade, error)
	TraderStats(ctx context.Context) (map[string]domain.TraderStats, error)

	Close() error
}
