package mirror

// poller.go — loop de espejado de trades.
//
// Cada ciclo recorre las wallets seguidas, pide su actividad reciente a la
// data API y persiste los trades nuevos. El insert-or-ignore del storage
// hace la deduplicación: re-leer el feed entero en cada ciclo es barato y
// no requiere cursor.
//
// Todos los fallos por-wallet son best effort: se loguean y el ciclo sigue
// con la siguiente wallet. El poller nunca tumba el proceso.

import (
	"context"
	"log/slog"
	"time"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/ports"
)

const defaultFetchLimit = 50

// Poller espeja la actividad de las wallets seguidas al trade log local.
type Poller struct {
	feed     ports.ActivityFeed
	store    ports.TraderStore
	gate     ports.Gate
	interval time.Duration
	limit    int
}

// NewPoller crea el poller con el intervalo de ciclo y el máximo de
// registros por fetch dados (fetchLimit <= 0 usa el default). El gate es el
// mismo control de admisión que protege las órdenes y los balances.
func NewPoller(feed ports.ActivityFeed, store ports.TraderStore, gate ports.Gate, interval time.Duration, fetchLimit int) *Poller {
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}
	return &Poller{
		feed:     feed,
		store:    store,
		gate:     gate,
		interval: interval,
		limit:    fetchLimit,
	}
}

// Run ejecuta ciclos hasta que el contexto se cancele. El primer ciclo
// corre inmediatamente, sin esperar al primer tick.
func (p *Poller) Run(ctx context.Context) error {
	slog.Info("mirror: started", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("mirror: stopped")
			return ctx.Err()
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce ejecuta un único ciclo de espejado sobre todas las wallets.
func (p *Poller) RunOnce(ctx context.Context) {
	traders, err := p.store.ListTraders(ctx)
	if err != nil {
		slog.Error("mirror: list traders", "err", err)
		return
	}
	if len(traders) == 0 {
		slog.Debug("mirror: no tracked traders")
		return
	}

	start := time.Now()
	total := 0
	for _, t := range traders {
		n := p.mirrorTrader(ctx, t.Address)
		total += n
	}
	slog.Info("mirror: cycle done", "traders", len(traders), "new_trades", total, "took", time.Since(start).Round(time.Millisecond))
}

// mirrorTrader trae la actividad de una wallet y persiste los trades.
// Devuelve cuántos registros TRADE intentó insertar.
func (p *Poller) mirrorTrader(ctx context.Context, address string) int {
	if !p.gate.Allow() {
		// Denegación inmediata: la wallet se recoge en el siguiente ciclo.
		slog.Debug("mirror: rate limited, skipping", "wallet", address)
		return 0
	}

	acts, err := p.feed.RecentActivity(ctx, address, p.limit)
	if err != nil || len(acts) == 0 {
		// El feed de actividad falla o viene vacío para algunas wallets;
		// el feed de trades suele tener datos igualmente.
		acts, err = p.feed.RecentTrades(ctx, address, p.limit)
		if err != nil {
			slog.Warn("mirror: fetch failed", "wallet", address, "err", err)
			return 0
		}
	}
	if len(acts) == 0 {
		return 0
	}

	// El registro más reciente lleva el perfil público embebido.
	if err := p.store.UpdateTraderProfile(ctx, address, acts[0]); err != nil {
		slog.Warn("mirror: update profile", "wallet", address, "err", err)
	}

	count := 0
	for _, a := range acts {
		if !a.IsTrade() {
			continue
		}
		if err := p.store.AddTrade(ctx, toMirroredTrade(a)); err != nil {
			slog.Warn("mirror: add trade", "wallet", address, "tx", a.TransactionHash, "err", err)
			continue
		}
		count++
	}
	return count
}

func toMirroredTrade(a domain.Activity) domain.MirroredTrade {
	return domain.MirroredTrade{
		TransactionHash: a.TransactionHash,
		ProxyWallet:     a.ProxyWallet,
		ConditionID:     a.ConditionID,
		Type:            a.Type,
		Side:            a.Side,
		Size:            a.Size,
		USDCSize:        a.USDCSize,
		Price:           a.Price,
		Asset:           a.Asset,
		OutcomeIndex:    a.OutcomeIndex,
		Outcome:         a.Outcome,
		Title:           a.Title,
		Slug:            a.Slug,
		EventSlug:       a.EventSlug,
		Icon:            a.Icon,
		Timestamp:       a.Timestamp,
	}
}
