package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/rvilla87/polymirror/internal/domain"
)

// Console renderiza el output de operador a stdout.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintTrades imprime el trade log espejado en tabla.
func (c *Console) PrintTrades(trades []domain.MirroredTrade) {
	if len(trades) == 0 {
		fmt.Fprintf(c.out, "[%s] no mirrored trades yet\n", time.Now().Format("15:04:05"))
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "When", "Wallet", "Market", "Side", "Outcome", "Price", "Shares", "USDC")

	for i, t := range trades {
		table.Append(
			fmt.Sprintf("%d", i+1),
			time.Unix(t.Timestamp, 0).UTC().Format("01-02 15:04"),
			shortAddr(t.ProxyWallet),
			truncate(t.Title, 38),
			t.Side,
			t.Outcome,
			fmt.Sprintf("%.3f", t.Price),
			fmt.Sprintf("%.2f", t.Size),
			fmt.Sprintf("$%.2f", t.USDCSize),
		)
	}
	table.Render()
	fmt.Fprintf(c.out, "  %d trades\n", len(trades))
}

// PrintTraders imprime las wallets seguidas con sus stats agregadas.
func (c *Console) PrintTraders(traders []domain.Trader, stats map[string]domain.TraderStats) {
	if len(traders) == 0 {
		fmt.Fprintln(c.out, "  no tracked traders — add one with -add-trader")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Wallet", "Name", "Pseudonym", "Trades", "Last trade")

	for _, t := range traders {
		st := stats[t.Address]
		last := "-"
		if st.LastTrade > 0 {
			last = time.Unix(st.LastTrade, 0).UTC().Format("2006-01-02 15:04")
		}
		table.Append(
			shortAddr(t.Address),
			truncate(t.Name, 24),
			truncate(t.Pseudonym, 24),
			fmt.Sprintf("%d", st.TradesCount),
			last,
		)
	}
	table.Render()
}

// PrintBalances imprime el snapshot de balances de la wallet operativa.
func (c *Console) PrintBalances(snap domain.BalanceSnapshot) {
	fmt.Fprintf(c.out, "\n  Wallet: %s (signature type %d)\n\n", snap.Funder, snap.SignatureType)

	table := tablewriter.NewWriter(c.out)
	table.Header("Asset", "Amount")
	table.Append("Collateral (USDC.e)", money(snap.CollateralCash, 2))
	table.Append("Native USDC", money(snap.NativeUSDC, 2))
	table.Append("Allowance → CTF Exchange", money(snap.Allowance, 2))
	table.Append("POL (gas)", snap.GasToken.StringFixed(4))
	table.Render()

	if snap.CollateralCash.IsZero() {
		fmt.Fprintln(c.out, "  ! no operating collateral — deposit USDC.e or check allowance")
	}
	fmt.Fprintln(c.out)
}

// PrintReceipt imprime la confirmación de una orden aceptada.
func (c *Console) PrintReceipt(r domain.OrderReceipt) {
	fmt.Fprintf(c.out, "\n  order accepted: %s\n", r.OrderID)
	fmt.Fprintf(c.out, "  status: %s  making: %s  taking: %s\n\n",
		r.Status, money(r.MakingAmount, 4), money(r.TakingAmount, 4))
}

// PrintSettings imprime las credenciales guardadas, con la key enmascarada.
func (c *Console) PrintSettings(s domain.Settings, derived string) {
	fmt.Fprintf(c.out, "\n  credentials saved\n")
	fmt.Fprintf(c.out, "  key:            %s\n", s.MaskedKey())
	fmt.Fprintf(c.out, "  derived EOA:    %s\n", derived)
	if s.Funder != "" {
		fmt.Fprintf(c.out, "  funder:         %s\n", s.Funder)
	}
	fmt.Fprintf(c.out, "  signature type: %d\n\n", s.SignatureType)
}

func money(d decimal.Decimal, places int32) string {
	return "$" + d.StringFixed(places)
}

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
