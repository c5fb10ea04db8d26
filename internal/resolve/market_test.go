package resolve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/resolve"
)

// fakeLookup implementa ports.MarketLookup sobre un mapa en memoria.
type fakeLookup struct {
	markets map[string]domain.Market
	calls   int
}

func (f *fakeLookup) MarketBySlug(_ context.Context, slug string) (domain.Market, error) {
	f.calls++
	m, ok := f.markets[slug]
	if !ok {
		return domain.Market{}, domain.ErrMarketNotFound
	}
	return m, nil
}

func binaryMarket() domain.Market {
	return domain.Market{
		ConditionID: "0xcond001",
		Slug:        "fed-rate-cut",
		Outcomes:    []string{"Yes", "No"},
		TokenIDs:    []string{"111111111111", "222222222222"},
	}
}

func intPtr(i int) *int { return &i }

func TestResolve_LiteralTokenIDBypassesNetwork(t *testing.T) {
	lookup := &fakeLookup{}
	r := resolve.NewMarketResolver(lookup)

	token, err := r.Resolve(context.Background(), " 71321045679252212594626385532706912750332 ", resolve.TokenSelector{})

	require.NoError(t, err)
	assert.Equal(t, "71321045679252212594626385532706912750332", token)
	assert.Zero(t, lookup.calls, "literal token id must not hit the network")
}

func TestResolve_LabelMatching(t *testing.T) {
	lookup := &fakeLookup{markets: map[string]domain.Market{"fed-rate-cut": binaryMarket()}}
	r := resolve.NewMarketResolver(lookup)

	for label, want := range map[string]string{
		"Yes":  "111111111111",
		"yes":  "111111111111",
		" NO ": "222222222222",
	} {
		token, err := r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{Label: label})
		require.NoError(t, err, "label %q", label)
		assert.Equal(t, want, token, "label %q", label)
	}
}

func TestResolve_YesNoFallbackWhenLabelsDiffer(t *testing.T) {
	m := binaryMarket()
	m.Outcomes = []string{"Up", "Down"}
	lookup := &fakeLookup{markets: map[string]domain.Market{"fed-rate-cut": m}}
	r := resolve.NewMarketResolver(lookup)

	// "yes"/"no" mapean a 0/1 aunque los labels del mercado sean otros
	token, err := r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{Label: "no"})
	require.NoError(t, err)
	assert.Equal(t, "222222222222", token)

	// cualquier otro label sin match es error
	_, err = r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{Label: "sideways"})
	assert.ErrorIs(t, err, domain.ErrOutcomeNotResolved)
}

func TestResolve_ExplicitIndexWins(t *testing.T) {
	lookup := &fakeLookup{markets: map[string]domain.Market{"fed-rate-cut": binaryMarket()}}
	r := resolve.NewMarketResolver(lookup)

	// el índice explícito tiene precedencia sobre el label
	token, err := r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{Index: intPtr(1), Label: "Yes"})
	require.NoError(t, err)
	assert.Equal(t, "222222222222", token)
}

func TestResolve_IndexOutOfRange(t *testing.T) {
	lookup := &fakeLookup{markets: map[string]domain.Market{"fed-rate-cut": binaryMarket()}}
	r := resolve.NewMarketResolver(lookup)

	_, err := r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{Index: intPtr(5)})
	assert.ErrorIs(t, err, domain.ErrTokenIndexOutOfRange)

	_, err = r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{Index: intPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrTokenIndexOutOfRange)
}

func TestResolve_DefaultsToFirstOutcome(t *testing.T) {
	lookup := &fakeLookup{markets: map[string]domain.Market{"fed-rate-cut": binaryMarket()}}
	r := resolve.NewMarketResolver(lookup)

	token, err := r.Resolve(context.Background(), "fed-rate-cut", resolve.TokenSelector{})
	require.NoError(t, err)
	assert.Equal(t, "111111111111", token)
}

func TestResolve_MarketNotFound(t *testing.T) {
	lookup := &fakeLookup{}
	r := resolve.NewMarketResolver(lookup)

	_, err := r.Resolve(context.Background(), "no-such-slug", resolve.TokenSelector{})
	assert.ErrorIs(t, err, domain.ErrMarketNotFound)
}
