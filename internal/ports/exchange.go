package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rvilla87/polymirror/internal/domain"
)

// Exchange es la capacidad opaca "firmar y enviar orden / consultar
// colateral" contra el CLOB, ya autenticada para una credencial y un
// wallet mode concretos.
type Exchange interface {
	// PlaceLimitOrder firma y envía una orden GTC que descansa en el libro.
	PlaceLimitOrder(ctx context.Context, tokenID string, side domain.Side, price, size decimal.Decimal) (domain.OrderReceipt, error)

	// PlaceMarketOrder firma y envía una orden FOK: o se llena entera de
	// inmediato o el venue la rechaza. amount es USDC para BUY y shares
	// para SELL (semántica del CLOB).
	PlaceMarketOrder(ctx context.Context, tokenID string, side domain.Side, amount decimal.Decimal) (domain.OrderReceipt, error)

	// Midpoint devuelve (best bid + best ask) / 2 para el token.
	Midpoint(ctx context.Context, tokenID string) (decimal.Decimal, error)

	// CollateralBalance consulta el balance de colateral que el exchange
	// reporta para el par funder/signature type del cliente.
	CollateralBalance(ctx context.Context) (decimal.Decimal, error)

	// Balances devuelve la lista genérica de balances por asset type,
	// usada como fallback cuando el endpoint de colateral falla.
	Balances(ctx context.Context) ([]domain.AssetBalance, error)
}

// ExchangeFactory construye un Exchange autenticado (deriva las API creds
// desde la private key). Se invoca por operación: el wallet mode puede
// cambiar entre llamadas.
type ExchangeFactory interface {
	NewExchange(ctx context.Context, cred domain.WalletCredential, mode domain.WalletMode) (Exchange, error)
}
