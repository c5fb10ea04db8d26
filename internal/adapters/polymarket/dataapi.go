package polymarket

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rvilla87/polymirror/internal/domain"
)

// dataapi.go — feed público de actividad y trades (ports.ActivityFeed).
//
// Convención de dos intentos de la Data API: algunos perfiles indexan por
// `user` y otros por `proxyWallet`. Primero se consulta con `user`; si la
// respuesta no es 200 / no es lista / está vacía, se repite la query con
// `proxyWallet` como nombre de parámetro. Todos los fetches de este sistema
// replican esa convención.

// RecentActivity devuelve la actividad más reciente de una wallet.
func (c *Client) RecentActivity(ctx context.Context, address string, limit int) ([]domain.Activity, error) {
	return c.fetchWithFallback(ctx, "/activity", address, limit)
}

// RecentTrades devuelve los trades de una wallet; mismo fallback.
func (c *Client) RecentTrades(ctx context.Context, address string, limit int) ([]domain.Activity, error) {
	return c.fetchWithFallback(ctx, "/trades", address, limit)
}

func (c *Client) fetchWithFallback(ctx context.Context, path, address string, limit int) ([]domain.Activity, error) {
	items, err := c.fetchFeed(ctx, path, "user", address, limit)
	if err == nil && len(items) > 0 {
		return items, nil
	}

	items, err2 := c.fetchFeed(ctx, path, "proxyWallet", address, limit)
	if err2 != nil {
		// Preferimos el error del primer intento si lo hubo: es el canónico.
		if err != nil {
			return nil, fmt.Errorf("%w: data-api %s: %v", domain.ErrUpstreamUnavailable, path, err)
		}
		return nil, fmt.Errorf("%w: data-api %s: %v", domain.ErrUpstreamUnavailable, path, err2)
	}
	return items, nil
}

func (c *Client) fetchFeed(ctx context.Context, path, param, address string, limit int) ([]domain.Activity, error) {
	u := fmt.Sprintf("%s%s?%s=%s", c.dataBase, path, param, url.QueryEscape(address))
	if limit > 0 {
		u += fmt.Sprintf("&limit=%d", limit)
	}

	var resp []rawActivity
	if err := c.get(ctx, c.dataLimiter, u, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.Activity, 0, len(resp))
	for _, r := range resp {
		items = append(items, rawToActivity(r))
	}
	return items, nil
}
