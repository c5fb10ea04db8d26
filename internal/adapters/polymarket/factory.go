package polymarket

import (
	"context"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/ports"
)

// Factory implementa ports.ExchangeFactory sobre un Client compartido.
// El Client (y sus rate limiters) se reutiliza entre operaciones; lo que
// cambia por operación es la credencial y el wallet mode.
type Factory struct {
	base *Client
}

// NewFactory crea la factory sobre el cliente HTTP compartido.
func NewFactory(base *Client) *Factory {
	return &Factory{base: base}
}

// NewExchange construye un Exchange autenticado y deriva las API creds.
func (f *Factory) NewExchange(ctx context.Context, cred domain.WalletCredential, mode domain.WalletMode) (ports.Exchange, error) {
	auth := NewAuthClient(f.base, cred, mode)
	if err := auth.EnsureCreds(ctx); err != nil {
		return nil, err
	}
	return NewTradingClient(auth), nil
}
