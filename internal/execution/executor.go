// Package execution submits resolved trade intents to the venue.
//
// Exactly one outbound order call per Submit: validation and resolution
// errors are returned before any network side effect, and venue rejections
// are never retried here. Retrying a money-moving operation automatically
// is unsafe, so failures surface verbatim to the caller.
package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/ports"
)

// Executor builds and submits one order per intent.
type Executor struct {
	factory ports.ExchangeFactory
	gate    ports.Gate
}

// New creates an Executor. The gate is the shared admission check every
// network call must pass.
func New(factory ports.ExchangeFactory, gate ports.Gate) *Executor {
	return &Executor{factory: factory, gate: gate}
}

// Submit places the intent on the venue for the given credential and wallet
// mode. Market orders go out fill-or-kill, limit orders good-till-cancelled.
func (e *Executor) Submit(ctx context.Context, cred domain.WalletCredential, mode domain.WalletMode, intent domain.TradeIntent) (domain.OrderReceipt, error) {
	if err := intent.Validate(); err != nil {
		return domain.OrderReceipt{}, err
	}
	if !e.gate.Allow() {
		return domain.OrderReceipt{}, domain.ErrRateLimited
	}

	requestID := uuid.NewString()
	log := slog.With(
		"request_id", requestID,
		"token", intent.TokenID,
		"side", intent.Side,
		"kind", intent.Kind,
	)

	client, err := e.factory.NewExchange(ctx, cred, mode)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("exchange client: %w", err)
	}

	if intent.Kind == domain.OrderLimit {
		log.Info("submitting limit order", "price", intent.Price, "size", intent.Size)
		receipt, err := client.PlaceLimitOrder(ctx, intent.TokenID, intent.Side, intent.Price, intent.Size)
		if err != nil {
			return domain.OrderReceipt{}, err
		}
		log.Info("order accepted", "order_id", receipt.OrderID, "status", receipt.Status)
		return receipt, nil
	}

	amount, err := e.marketAmount(ctx, client, intent)
	if err != nil {
		return domain.OrderReceipt{}, err
	}

	log.Info("submitting market order", "amount", amount)
	receipt, err := client.PlaceMarketOrder(ctx, intent.TokenID, intent.Side, amount)
	if err != nil {
		return domain.OrderReceipt{}, err
	}
	log.Info("order accepted", "order_id", receipt.OrderID, "status", receipt.Status)
	return receipt, nil
}

// marketAmount resolves the CLOB amount semantics: USDC notional for BUY,
// shares for SELL. A size-only market BUY is converted with the current
// midpoint (size × mid).
func (e *Executor) marketAmount(ctx context.Context, client ports.Exchange, intent domain.TradeIntent) (decimal.Decimal, error) {
	if intent.Side == domain.SideSell {
		if !intent.Size.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: market sell requires size", domain.ErrMissingAmount)
		}
		return intent.Size, nil
	}

	if intent.Notional.IsPositive() {
		return intent.Notional, nil
	}

	// Convenience mode: only a share size was given, so price it at the
	// current midpoint to get the USDC notional.
	mid, err := client.Midpoint(ctx, intent.TokenID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("midpoint for %s: %w", intent.TokenID, err)
	}
	amount := intent.Size.Mul(mid)
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: size %s at midpoint %s", domain.ErrMissingAmount, intent.Size, mid)
	}
	return amount, nil
}
