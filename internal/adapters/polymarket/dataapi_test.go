package polymarket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/internal/domain"
)

func TestRecentActivity_UserParam(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/data_activity.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity", r.URL.Path)
		assert.Equal(t, "0xDerived", r.URL.Query().Get("user"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client := newTestClient(nil, nil, srv)
	acts, err := client.RecentActivity(context.Background(), "0xDerived", 50)

	require.NoError(t, err)
	require.Len(t, acts, 2)

	a := acts[0]
	assert.Equal(t, "0xaaa111", a.TransactionHash)
	assert.True(t, a.IsTrade())
	assert.InDelta(t, 120.5, a.Size, 0.001)
	assert.InDelta(t, 0.65, a.Price, 0.0001)
	assert.Equal(t, int64(1756300000), a.Timestamp)
	assert.Equal(t, "Quiet-Whale", a.Pseudonym)
	// ipfs:// se reescribe al gateway navegable
	assert.Equal(t, "https://cloudflare-ipfs.com/ipfs/QmProfileHash", a.ProfileImage)

	assert.False(t, acts[1].IsTrade())
	// con optimized presente, gana sobre profileImage
	assert.Equal(t, "https://cdn.example/opt.png", acts[1].ProfileImage)
}

func TestRecentActivity_FallbackToProxyWalletParam(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/data_activity.json")
	require.NoError(t, err)

	var params []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("user") != "" {
			params = append(params, "user")
			w.Write([]byte("[]")) // vacío → dispara el fallback
			return
		}
		params = append(params, "proxyWallet")
		assert.NotEmpty(t, r.URL.Query().Get("proxyWallet"))
		w.Write(data)
	}))
	defer srv.Close()

	client := newTestClient(nil, nil, srv)
	acts, err := client.RecentActivity(context.Background(), "0xDerived", 10)

	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, []string{"user", "proxyWallet"}, params)
}

func TestRecentTrades_BothAttemptsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(nil, nil, srv)
	_, err := client.RecentTrades(context.Background(), "0xDerived", 10)

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestRecentActivity_BothEmptyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newTestClient(nil, nil, srv)
	acts, err := client.RecentActivity(context.Background(), "0xDerived", 10)

	require.NoError(t, err)
	assert.Empty(t, acts)
}
