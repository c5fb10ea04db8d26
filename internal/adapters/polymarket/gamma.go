package polymarket

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rvilla87/polymirror/internal/domain"
)

const gammaMarketsPath = "/markets"

// MarketBySlug implementa ports.MarketLookup: busca el mercado por slug en
// Gamma (limit 1, un único resultado esperado). Cero resultados o respuesta
// malformada → domain.ErrMarketNotFound; los fallos de red →
// domain.ErrUpstreamUnavailable.
func (c *Client) MarketBySlug(ctx context.Context, slug string) (domain.Market, error) {
	u := fmt.Sprintf("%s%s?slug=%s&limit=1", c.gammaBase, gammaMarketsPath, url.QueryEscape(slug))

	var resp []gammaMarket
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return domain.Market{}, fmt.Errorf("%w: gamma markets: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(resp) == 0 {
		return domain.Market{}, fmt.Errorf("%w: slug %q", domain.ErrMarketNotFound, slug)
	}

	m := gammaToMarket(resp[0])
	if len(m.TokenIDs) == 0 {
		return domain.Market{}, fmt.Errorf("%w: slug %q has no token ids", domain.ErrMarketNotFound, slug)
	}
	return m, nil
}
