package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side es el lado de una orden.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide acepta "buy"/"BUY"/"Sell"... y devuelve el lado normalizado.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	}
	return "", fmt.Errorf("invalid side %q", s)
}

// OrderKind distingue órdenes market (FOK) de limit (GTC).
type OrderKind string

const (
	OrderMarket OrderKind = "MARKET"
	OrderLimit  OrderKind = "LIMIT"
)

// TradeIntent es lo que el operador quiere ejecutar. Se construye por
// llamada y lo consume el executor exactamente una vez.
//
// Invariantes (validadas antes de cualquier side effect de red):
//   - LIMIT requiere Price y Size.
//   - MARKET BUY requiere Notional (USDC) — o Size, que se convierte con el
//     midpoint actual.
//   - MARKET SELL requiere Size (shares).
type TradeIntent struct {
	TokenID  string
	Side     Side
	Kind     OrderKind
	Price    decimal.Decimal // límite; cero = sin precio
	Size     decimal.Decimal // shares
	Notional decimal.Decimal // importe en USDC (market buy)
}

// Validate comprueba los invariantes que no dependen de datos de red.
// La conversión size→notional de los market buy se resuelve en el executor
// porque necesita el midpoint.
func (t TradeIntent) Validate() error {
	if t.Side != SideBuy && t.Side != SideSell {
		return fmt.Errorf("invalid side %q", t.Side)
	}
	switch t.Kind {
	case OrderLimit:
		if !t.Price.IsPositive() || !t.Size.IsPositive() {
			return fmt.Errorf("%w: limit order requires price and size", ErrMissingAmount)
		}
	case OrderMarket:
		if t.Side == SideSell && !t.Size.IsPositive() {
			return fmt.Errorf("%w: market sell requires size (shares)", ErrMissingAmount)
		}
		if t.Side == SideBuy && !t.Notional.IsPositive() && !t.Size.IsPositive() {
			return fmt.Errorf("%w: market buy requires notional (USDC) or size", ErrMissingAmount)
		}
	default:
		return fmt.Errorf("invalid order kind %q", t.Kind)
	}
	return nil
}

// OrderReceipt es la respuesta del venue a una orden aceptada.
type OrderReceipt struct {
	OrderID      string
	Status       string
	TakingAmount decimal.Decimal
	MakingAmount decimal.Decimal
}
