package mirror_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/internal/adapters/storage"
	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/mirror"
)

// allowAll es un gate que nunca deniega.
type allowAll struct{}

func (allowAll) Allow() bool { return true }

// denyAll deniega todas las llamadas.
type denyAll struct{}

func (denyAll) Allow() bool { return false }

// fakeFeed sirve actividad por wallet; activityErr fuerza el fallback al
// feed de trades.
type fakeFeed struct {
	activity    map[string][]domain.Activity
	trades      map[string][]domain.Activity
	activityErr error
	tradesCalls int
	gotLimit    int
}

func (f *fakeFeed) RecentActivity(_ context.Context, addr string, limit int) ([]domain.Activity, error) {
	f.gotLimit = limit
	if f.activityErr != nil {
		return nil, f.activityErr
	}
	return f.activity[addr], nil
}

func (f *fakeFeed) RecentTrades(_ context.Context, addr string, _ int) ([]domain.Activity, error) {
	f.tradesCalls++
	return f.trades[addr], nil
}

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func tradeActivity(hash, wallet string, ts int64) domain.Activity {
	return domain.Activity{
		TransactionHash: hash,
		ProxyWallet:     wallet,
		Type:            "TRADE",
		Side:            "BUY",
		Size:            10,
		Price:           0.5,
		Timestamp:       ts,
		Name:            "whale.eth",
	}
}

func TestRunOnce_MirrorsTradesAndProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallet := "0xA"
	require.NoError(t, store.AddTrader(ctx, wallet))

	redeem := tradeActivity("0xredeem", wallet, 400)
	redeem.Type = "REDEEM"

	feed := &fakeFeed{activity: map[string][]domain.Activity{
		wallet: {
			tradeActivity("0x1", wallet, 300),
			redeem,
			tradeActivity("0x2", wallet, 200),
		},
	}}

	p := mirror.NewPoller(feed, store, allowAll{}, time.Minute, 0)
	p.RunOnce(ctx)

	trades, err := store.TradesForTrader(ctx, wallet, 10)
	require.NoError(t, err)
	// solo los TRADE se espejan; el REDEEM se descarta
	require.Len(t, trades, 2)

	traders, err := store.ListTraders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "whale.eth", traders[0].Name)
}

func TestRunOnce_FallsBackToTradesFeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallet := "0xA"
	require.NoError(t, store.AddTrader(ctx, wallet))

	feed := &fakeFeed{
		activityErr: errors.New("activity endpoint down"),
		trades: map[string][]domain.Activity{
			wallet: {tradeActivity("0x9", wallet, 100)},
		},
	}

	p := mirror.NewPoller(feed, store, allowAll{}, time.Minute, 0)
	p.RunOnce(ctx)

	assert.Equal(t, 1, feed.tradesCalls)
	trades, err := store.RecentTrades(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "0x9", trades[0].TransactionHash)
}

func TestRunOnce_RerunDoesNotDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallet := "0xA"
	require.NoError(t, store.AddTrader(ctx, wallet))

	feed := &fakeFeed{activity: map[string][]domain.Activity{
		wallet: {tradeActivity("0x1", wallet, 300)},
	}}

	p := mirror.NewPoller(feed, store, allowAll{}, time.Minute, 0)
	p.RunOnce(ctx)
	p.RunOnce(ctx)

	trades, err := store.RecentTrades(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestRunOnce_GateDeniedSkipsFetch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallet := "0xA"
	require.NoError(t, store.AddTrader(ctx, wallet))

	feed := &fakeFeed{activity: map[string][]domain.Activity{
		wallet: {tradeActivity("0x1", wallet, 300)},
	}}

	p := mirror.NewPoller(feed, store, denyAll{}, time.Minute, 0)
	p.RunOnce(ctx)

	trades, err := store.RecentTrades(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestRunOnce_UsesConfiguredFetchLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	wallet := "0xA"
	require.NoError(t, store.AddTrader(ctx, wallet))

	feed := &fakeFeed{activity: map[string][]domain.Activity{
		wallet: {tradeActivity("0x1", wallet, 300)},
	}}

	p := mirror.NewPoller(feed, store, allowAll{}, time.Minute, 25)
	p.RunOnce(ctx)

	assert.Equal(t, 25, feed.gotLimit)
}
