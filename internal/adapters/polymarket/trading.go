package polymarket

// trading.go — Order execution and exchange balances via the Polymarket
// CLOB API. Implements ports.Exchange on top of AuthClient.
//
// Limit orders go out as GTC and rest on the book; market orders go out
// as FOK priced at the current midpoint, so they either fill whole
// immediately or the venue rejects them. Exactly one POST /order per
// call, never retried: a rejected order is a terminal answer, not a
// transient failure.

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gomodel "github.com/polymarket/go-order-utils/pkg/model"
	"github.com/shopspring/decimal"

	"github.com/rvilla87/polymirror/internal/domain"
)

// microFactor converts USDC/share units to 6-decimal micro units.
var microFactor = decimal.New(1, 6)

type clobNegRiskResponse struct {
	NegRisk bool `json:"neg_risk"`
}

// TradingClient implements ports.Exchange for one credential + wallet mode.
type TradingClient struct {
	auth *AuthClient
}

// NewTradingClient wraps an authenticated client.
func NewTradingClient(auth *AuthClient) *TradingClient {
	return &TradingClient{auth: auth}
}

// PlaceLimitOrder signs and submits a GTC limit order.
func (tc *TradingClient) PlaceLimitOrder(ctx context.Context, tokenID string, side domain.Side, price, size decimal.Decimal) (domain.OrderReceipt, error) {
	return tc.placeOrder(ctx, tokenID, side, price, size, "GTC")
}

// PlaceMarketOrder signs and submits a FOK order priced at the current
// midpoint. For BUY, amount is the USDC notional to spend; for SELL,
// amount is the number of shares to unload (CLOB market order semantics).
func (tc *TradingClient) PlaceMarketOrder(ctx context.Context, tokenID string, side domain.Side, amount decimal.Decimal) (domain.OrderReceipt, error) {
	mid, err := tc.Midpoint(ctx, tokenID)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("market order: midpoint: %w", err)
	}
	if !mid.IsPositive() {
		return domain.OrderReceipt{}, fmt.Errorf("market order: no midpoint for token %s", tokenID)
	}

	var size decimal.Decimal
	if side == domain.SideBuy {
		// amount is USDC; shares = notional / midpoint.
		size = amount.DivRound(mid, 6)
	} else {
		size = amount
	}

	return tc.placeOrder(ctx, tokenID, side, mid, size, "FOK")
}

// placeOrder builds, signs and submits one order. Venue rejections come
// back wrapped in ErrRejectedByVenue with the venue's message verbatim.
func (tc *TradingClient) placeOrder(ctx context.Context, tokenID string, side domain.Side, price, size decimal.Decimal, orderType string) (domain.OrderReceipt, error) {
	if err := tc.auth.EnsureCreds(ctx); err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("place order: creds: %w", err)
	}

	negRisk, err := tc.isNegRisk(ctx, tokenID)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("place order: %w", err)
	}

	signed, err := tc.buildSignedOrder(tokenID, side, price, size, negRisk)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("place order: sign: %w", err)
	}

	body := clobOrderRequest{
		Order: clobOrderBody{
			Salt:          json.Number(signed.Order.Salt.String()),
			Maker:         signed.Order.Maker.Hex(),
			Signer:        signed.Order.Signer.Hex(),
			Taker:         signed.Order.Taker.Hex(),
			TokenID:       tokenID,
			MakerAmount:   signed.Order.MakerAmount.String(),
			TakerAmount:   signed.Order.TakerAmount.String(),
			Expiration:    signed.Order.Expiration.String(),
			Nonce:         signed.Order.Nonce.String(),
			FeeRateBps:    signed.Order.FeeRateBps.String(),
			Side:          string(side),
			SignatureType: int(signed.Order.SignatureType.Int64()),
			Signature:     "0x" + hex.EncodeToString(signed.Signature),
		},
		Owner:     tc.auth.creds.APIKey,
		OrderType: orderType,
	}

	// Exactamente un POST por orden: jamás se reintenta un envío que
	// mueve dinero, aunque falle el transporte.
	var resp clobOrderResponse
	if err := tc.auth.doL2Once(ctx, http.MethodPost, "/order", body, &resp); err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("place order: post: %w", err)
	}

	if !resp.Success || resp.ErrorMsg != "" {
		return domain.OrderReceipt{}, fmt.Errorf("%w: %s", domain.ErrRejectedByVenue, resp.ErrorMsg)
	}

	return domain.OrderReceipt{
		OrderID:      resp.OrderID,
		Status:       resp.Status,
		TakingAmount: parseMicro(resp.TakingAmount),
		MakingAmount: parseMicro(resp.MakingAmount),
	}, nil
}

// buildSignedOrder creates an EIP-712 signed order. price and size come in
// USDC/share units; the exchange wants 6-decimal micro-unit integers and
// verifies makerAmount/takerAmount against price exactly, so everything is
// fixed-point decimal until the final integer conversion.
//
// BUY:  maker gives USDC (price × size), taker gives shares (size).
// SELL: maker gives shares (size), taker gives USDC (price × size).
func (tc *TradingClient) buildSignedOrder(tokenID string, side domain.Side, price, size decimal.Decimal, negRisk bool) (*gomodel.SignedOrder, error) {
	sharesMicro := size.Mul(microFactor).Round(0)
	usdcMicro := price.Mul(size).Mul(microFactor).Round(0)

	if !sharesMicro.IsPositive() || !usdcMicro.IsPositive() {
		return nil, fmt.Errorf("invalid amounts: shares=%s usdc=%s (price=%s size=%s)",
			sharesMicro, usdcMicro, price, size)
	}

	var makerAmount, takerAmount decimal.Decimal
	var gomodelSide gomodel.Side
	if side == domain.SideBuy {
		makerAmount, takerAmount = usdcMicro, sharesMicro
		gomodelSide = gomodel.BUY
	} else {
		makerAmount, takerAmount = sharesMicro, usdcMicro
		gomodelSide = gomodel.SELL
	}

	verifyingContract := gomodel.CTFExchange
	if negRisk {
		verifyingContract = gomodel.NegRiskCTFExchange
	}

	// Maker is the funds-custodying wallet (proxy/safe when applicable);
	// Signer is always the EOA derived from the private key.
	orderData := &gomodel.OrderData{
		Maker:         tc.auth.maker(),
		Taker:         zeroAddress,
		TokenId:       tokenID,
		MakerAmount:   makerAmount.String(),
		TakerAmount:   takerAmount.String(),
		FeeRateBps:    "0",
		Nonce:         "0",
		Signer:        tc.auth.cred.Address.Hex(),
		Expiration:    "0",
		Side:          gomodelSide,
		SignatureType: tc.auth.signatureType(),
	}

	signed, err := tc.auth.orderBuilder.BuildSignedOrder(tc.auth.cred.PrivateKey, orderData, verifyingContract)
	if err != nil {
		return nil, fmt.Errorf("build signed order: %w", err)
	}
	return signed, nil
}

// Midpoint returns (best bid + best ask) / 2 for the token. Public endpoint.
func (tc *TradingClient) Midpoint(ctx context.Context, tokenID string) (decimal.Decimal, error) {
	u := fmt.Sprintf("%s/midpoint?token_id=%s", tc.auth.clobBase, url.QueryEscape(tokenID))

	var resp midpointResponse
	if err := tc.auth.get(ctx, tc.auth.clobLimiter, u, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("%w: midpoint: %v", domain.ErrUpstreamUnavailable, err)
	}

	mid, err := decimal.NewFromString(resp.Mid.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("midpoint: bad value %q: %w", resp.Mid, err)
	}
	return mid, nil
}

// isNegRisk asks the CLOB whether the token trades on the NegRisk adapter.
func (tc *TradingClient) isNegRisk(ctx context.Context, tokenID string) (bool, error) {
	u := fmt.Sprintf("%s/neg-risk?token_id=%s", tc.auth.clobBase, url.QueryEscape(tokenID))

	var resp clobNegRiskResponse
	if err := tc.auth.get(ctx, tc.auth.clobLimiter, u, &resp); err != nil {
		return false, fmt.Errorf("neg-risk check: %w", err)
	}
	return resp.NegRisk, nil
}

// CollateralBalance returns the collateral the CLOB reports for this
// client's funder/signature-type pair, in USDC.
func (tc *TradingClient) CollateralBalance(ctx context.Context) (decimal.Decimal, error) {
	if err := tc.auth.EnsureCreds(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("collateral: creds: %w", err)
	}

	path := fmt.Sprintf("/balance-allowance?asset_type=COLLATERAL&signature_type=%d", int(tc.auth.mode.SignatureType))

	var resp balanceAllowanceResponse
	if err := tc.auth.doL2(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("collateral: %w", err)
	}
	return parseMicro(resp.Balance), nil
}

// Balances returns the generic per-asset balance list. Used as a fallback
// when the collateral endpoint fails or reports zero.
func (tc *TradingClient) Balances(ctx context.Context) ([]domain.AssetBalance, error) {
	if err := tc.auth.EnsureCreds(ctx); err != nil {
		return nil, fmt.Errorf("balances: creds: %w", err)
	}

	path := fmt.Sprintf("/balances?signature_type=%d", int(tc.auth.mode.SignatureType))

	var raw []rawAssetBalance
	if err := tc.auth.doL2(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}

	out := make([]domain.AssetBalance, 0, len(raw))
	for _, r := range raw {
		out = append(out, domain.AssetBalance{
			AssetType: strings.ToUpper(r.AssetType),
			Balance:   parseMicro(r.Balance),
		})
	}
	return out, nil
}

// parseMicro converts a micro-unit integer string ("1000000") to a
// 6-decimal amount. Empty or malformed values count as zero.
func parseMicro(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Shift(-6)
}
