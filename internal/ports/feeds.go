package ports

import (
	"context"

	"github.com/rvilla87/polymirror/internal/domain"
)

// MarketLookup resuelve un mercado por slug contra el servicio de metadata.
type MarketLookup interface {
	// MarketBySlug devuelve el mercado para el slug dado.
	// Cero resultados o respuesta malformada → domain.ErrMarketNotFound.
	MarketBySlug(ctx context.Context, slug string) (domain.Market, error)
}

// ActivityFeed expone el feed público de actividad de la data API.
// Toda implementación debe replicar la convención de dos intentos:
// primero query por `user`, y si la respuesta no es 200 / no es lista /
// está vacía, reintentar con `proxyWallet` como nombre de parámetro.
type ActivityFeed interface {
	// RecentActivity devuelve la actividad más reciente de una wallet.
	RecentActivity(ctx context.Context, address string, limit int) ([]domain.Activity, error)

	// RecentTrades devuelve los trades de una wallet (fallback del mirror
	// cuando el feed de actividad viene vacío).
	RecentTrades(ctx context.Context, address string, limit int) ([]domain.Activity, error)
}
