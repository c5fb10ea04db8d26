// Package resolve convierte inputs humanos (slug de mercado, outcome,
// credenciales guardadas) en decisiones concretas de trading: token id del
// CLOB y par (funder, signature type). Todo se resuelve de cero en cada
// request, sin caches.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/ports"
)

// MarketResolver mapea slug (o token id literal) + selector de outcome a un
// token id concreto del CLOB.
type MarketResolver struct {
	lookup ports.MarketLookup
}

// NewMarketResolver crea el resolver sobre el lookup de metadata dado.
func NewMarketResolver(lookup ports.MarketLookup) *MarketResolver {
	return &MarketResolver{lookup: lookup}
}

// TokenSelector elige el outcome dentro del mercado. Index tiene precedencia
// sobre Label; con ambos ausentes aplica el default binario Yes→0 / No→1.
type TokenSelector struct {
	// Index es el outcome index explícito; nil = no especificado.
	Index *int
	// Label es el nombre del outcome ("Yes", "no", " Maybe ").
	Label string
}

// Resolve devuelve el token id para el slug y selector dados.
//
// Un input puramente numérico de más de 10 caracteres se trata como token id
// literal y se devuelve sin tocar la red. El resto va a Gamma por slug.
func (r *MarketResolver) Resolve(ctx context.Context, slugOrID string, sel TokenSelector) (string, error) {
	input := strings.TrimSpace(slugOrID)
	if domain.IsLiteralTokenID(input) {
		return input, nil
	}

	market, err := r.lookup.MarketBySlug(ctx, input)
	if err != nil {
		return "", err
	}

	idx, err := r.outcomeIndex(market, sel)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(market.TokenIDs) {
		return "", fmt.Errorf("%w: index %d, %d tokens", domain.ErrTokenIndexOutOfRange, idx, len(market.TokenIDs))
	}

	slog.Debug("market resolved",
		"slug", input,
		"outcome_index", idx,
		"token", market.TokenIDs[idx],
	)
	return market.TokenIDs[idx], nil
}

// outcomeIndex aplica la precedencia: índice explícito → matching de label →
// default binario (sin outcome, o "Yes" → 0; "No" → 1).
func (r *MarketResolver) outcomeIndex(m domain.Market, sel TokenSelector) (int, error) {
	if sel.Index != nil {
		return *sel.Index, nil
	}

	label := strings.TrimSpace(sel.Label)
	if label != "" {
		if idx := m.OutcomeIndex(label); idx >= 0 {
			return idx, nil
		}
		// Convención heredada: en mercados binarios "yes"/"no" mapean a
		// 0/1 aunque los labels del mercado no hayan matcheado.
		switch strings.ToLower(label) {
		case "yes":
			return 0, nil
		case "no":
			return 1, nil
		}
		return 0, fmt.Errorf("%w: %q not in %v", domain.ErrOutcomeNotResolved, label, m.Outcomes)
	}

	// Sin índice ni label: default al primer outcome ("Yes" en binarios).
	if len(m.TokenIDs) > 0 {
		return 0, nil
	}
	return 0, fmt.Errorf("%w: market %q has no outcomes", domain.ErrOutcomeNotResolved, m.Slug)
}
