package polymarket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/internal/adapters/polymarket"
	"github.com/rvilla87/polymirror/internal/domain"
)

func newTestClient(clobSrv, gammaSrv, dataSrv *httptest.Server) *polymarket.Client {
	clobURL, gammaURL, dataURL := "", "", ""
	if clobSrv != nil {
		clobURL = clobSrv.URL
	}
	if gammaSrv != nil {
		gammaURL = gammaSrv.URL
	}
	if dataSrv != nil {
		dataURL = dataSrv.URL
	}
	return polymarket.NewClient(clobURL, gammaURL, dataURL)
}

func TestMarketBySlug_EncodedStringFields(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/gamma_market_encoded.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "fed-rate-cut-september", r.URL.Query().Get("slug"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client := newTestClient(nil, srv, nil)
	m, err := client.MarketBySlug(context.Background(), "fed-rate-cut-september")

	require.NoError(t, err)
	assert.Equal(t, "0xcond001", m.ConditionID)
	assert.Equal(t, "fed-rate-cut-september", m.Slug)
	require.Len(t, m.TokenIDs, 2)
	assert.Equal(t, []string{"Yes", "No"}, m.Outcomes)
	assert.False(t, m.NegRisk)
}

func TestMarketBySlug_NativeArrayFields(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/gamma_market_native.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client := newTestClient(nil, srv, nil)
	m, err := client.MarketBySlug(context.Background(), "ucl-winner-2026")

	require.NoError(t, err)
	require.Len(t, m.TokenIDs, 3)
	assert.Equal(t, "22222222222222222222", m.TokenIDs[1])
	assert.Equal(t, []string{"Real Madrid", "Arsenal", "Bayern"}, m.Outcomes)
	assert.True(t, m.NegRisk)
}

func TestMarketBySlug_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv, nil)
	_, err := client.MarketBySlug(context.Background(), "no-such-market")

	assert.ErrorIs(t, err, domain.ErrMarketNotFound)
}

func TestMarketBySlug_NoTokenIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"conditionId":"0xc","slug":"empty","clobTokenIds":"[]","outcomes":"[]"}]`))
	}))
	defer srv.Close()

	client := newTestClient(nil, srv, nil)
	_, err := client.MarketBySlug(context.Background(), "empty")

	assert.ErrorIs(t, err, domain.ErrMarketNotFound)
}
