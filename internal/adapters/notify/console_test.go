package notify_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rvilla87/polymirror/internal/adapters/notify"
	"github.com/rvilla87/polymirror/internal/domain"
)

func TestPrintTrades(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintTrades([]domain.MirroredTrade{
		{
			TransactionHash: "0xaaa",
			ProxyWallet:     "0x1234567890abcdef1234567890abcdef12345678",
			Side:            "BUY",
			Size:            120.5,
			USDCSize:        78.33,
			Price:           0.65,
			Outcome:         "Yes",
			Title:           "Will the Fed cut rates in September?",
			Timestamp:       1756300000,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "0x123456…5678")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "0.650")
	assert.Contains(t, out, "$78.33")
	assert.Contains(t, out, "1 trades")
}

func TestPrintTrades_Empty(t *testing.T) {
	var buf bytes.Buffer
	notify.NewConsoleWriter(&buf).PrintTrades(nil)

	assert.Contains(t, buf.String(), "no mirrored trades yet")
}

func TestPrintTraders_WithStats(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	traders := []domain.Trader{
		{Address: "0x1234567890abcdef1234567890abcdef12345678", Name: "whale.eth"},
	}
	stats := map[string]domain.TraderStats{
		"0x1234567890abcdef1234567890abcdef12345678": {TradesCount: 7, LastTrade: 1756300000},
	}
	c.PrintTraders(traders, stats)

	out := buf.String()
	assert.Contains(t, out, "whale.eth")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "2025-08-27")
}

func TestPrintBalances_WarnsOnZeroCollateral(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintBalances(domain.BalanceSnapshot{
		Funder:   "0xabc",
		GasToken: decimal.RequireFromString("1.2345"),
	})

	out := buf.String()
	assert.Contains(t, out, "$0.00")
	assert.Contains(t, out, "1.2345")
	assert.Contains(t, out, "no operating collateral")
}

func TestPrintSettings_MasksKey(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.PrintSettings(domain.Settings{
		PrivateKey:    "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		SignatureType: domain.SignaturePolyGnosisSafe,
	}, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	out := buf.String()
	assert.Contains(t, out, "ac09...ff80")
	assert.NotContains(t, out, "ac0974bec39a17e36ba4a6b4d238ff944bacb478")
	assert.Contains(t, out, "signature type: 2")
}
