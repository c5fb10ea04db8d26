// Package balance calcula la posición de cash operable de una wallet
// combinando la cifra de colateral del exchange con lecturas directas de
// contrato como fallback.
//
// Política deliberada: los fallos upstream de cada sub-importe degradan esa
// cifra a cero en vez de abortar: el snapshot se devuelve siempre, degradado
// antes que ausente.
package balance

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/ports"
)

// Direcciones canónicas en Polygon.
const (
	// USDCe es el stablecoin bridgeado que usa el CLOB como colateral.
	USDCe = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
	// USDCNative es el USDC nativo de Circle en Polygon.
	USDCNative = "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"
	// CTFExchange es el contrato de settlement al que se concede allowance.
	CTFExchange = "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
)

// Aggregator implementa el snapshot multi-fuente.
type Aggregator struct {
	factory ports.ExchangeFactory
	chain   ports.ChainReader
	gate    ports.Gate
}

// New crea el agregador.
func New(factory ports.ExchangeFactory, chain ports.ChainReader, gate ports.Gate) *Aggregator {
	return &Aggregator{factory: factory, chain: chain, gate: gate}
}

// Snapshot calcula la foto de balances para la credencial y el mode dados.
// Solo la denegación del gate es un error; todo lo demás degrada a cero.
func (a *Aggregator) Snapshot(ctx context.Context, cred domain.WalletCredential, mode domain.WalletMode) (domain.BalanceSnapshot, error) {
	if !a.gate.Allow() {
		return domain.BalanceSnapshot{}, domain.ErrRateLimited
	}

	funder := mode.FunderOr(cred.Address)

	snap := domain.BalanceSnapshot{
		Funder:        funder,
		SignatureType: mode.SignatureType,
	}

	snap.CollateralCash = a.collateral(ctx, cred, mode)

	// El fallback al contrato bridgeado compensa depósitos recién bridgeados
	// que el venue todavía no refleja.
	erc20Cash := a.read(ctx, "usdc.e", func() (decimal.Decimal, error) {
		return a.chain.ERC20Balance(ctx, USDCe, funder)
	})
	if snap.CollateralCash.IsZero() && erc20Cash.IsPositive() {
		snap.CollateralCash = erc20Cash
	}

	// Estas tres cifras se reportan siempre, independientemente de lo que
	// haya devuelto la vía principal de colateral.
	snap.NativeUSDC = a.read(ctx, "usdc.native", func() (decimal.Decimal, error) {
		return a.chain.ERC20Balance(ctx, USDCNative, funder)
	})
	snap.Allowance = a.read(ctx, "allowance", func() (decimal.Decimal, error) {
		return a.chain.ERC20Allowance(ctx, USDCe, funder, CTFExchange)
	})
	snap.GasToken = a.read(ctx, "gas", func() (decimal.Decimal, error) {
		return a.chain.NativeBalance(ctx, funder)
	})

	return snap, nil
}

// collateral intenta el endpoint de colateral del exchange y, si falla, la
// lista genérica de balances buscando el asset COLLATERAL.
func (a *Aggregator) collateral(ctx context.Context, cred domain.WalletCredential, mode domain.WalletMode) decimal.Decimal {
	client, err := a.factory.NewExchange(ctx, cred, mode)
	if err != nil {
		slog.Warn("exchange client for balance failed", "err", err)
		return decimal.Zero
	}

	cash, err := client.CollateralBalance(ctx)
	if err == nil {
		return cash
	}
	slog.Debug("collateral endpoint failed, trying balance list", "err", err)

	balances, err := client.Balances(ctx)
	if err != nil {
		slog.Debug("balance list failed", "err", err)
		return decimal.Zero
	}
	for _, b := range balances {
		if b.AssetType == "COLLATERAL" {
			return b.Balance
		}
	}
	return decimal.Zero
}

// read ejecuta una lectura best-effort: el fallo degrada a cero con un log.
func (a *Aggregator) read(ctx context.Context, name string, fn func() (decimal.Decimal, error)) decimal.Decimal {
	v, err := fn()
	if err != nil {
		slog.Debug("balance sub-figure degraded to zero", "figure", name, "err", err)
		return decimal.Zero
	}
	return v
}
