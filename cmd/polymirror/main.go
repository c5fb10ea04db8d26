package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/rvilla87/polymirror/config"
	"github.com/rvilla87/polymirror/internal/adapters/notify"
	"github.com/rvilla87/polymirror/internal/adapters/onchain"
	"github.com/rvilla87/polymirror/internal/adapters/polymarket"
	"github.com/rvilla87/polymirror/internal/adapters/storage"
	"github.com/rvilla87/polymirror/internal/balance"
	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/execution"
	"github.com/rvilla87/polymirror/internal/mirror"
	"github.com/rvilla87/polymirror/internal/ports"
	"github.com/rvilla87/polymirror/internal/rategate"
	"github.com/rvilla87/polymirror/internal/resolve"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")

	// operaciones (una por invocación)
	setCreds := flag.Bool("set-creds", false, "save operator credentials (-key, -funder, -sig-type)")
	addTrader := flag.String("add-trader", "", "track a trader wallet address")
	listTraders := flag.Bool("traders", false, "list tracked traders with stats")
	showTrades := flag.Bool("trades", false, "show mirrored trade log (-wallet to filter)")
	cash := flag.Bool("cash", false, "show the operating wallet balance snapshot")
	order := flag.Bool("order", false, "place an order (-slug, -side, ...)")
	runMirror := flag.Bool("mirror", false, "run the trade mirror loop until interrupted")
	approve := flag.Bool("approve", false, "send a max USDC.e approval to the CTF Exchange")

	// parámetros de -set-creds
	key := flag.String("key", "", "private key hex (with or without 0x)")
	funder := flag.String("funder", "", "funds-custodying wallet address (empty = derived EOA)")
	sigType := flag.Int("sig-type", 0, "signature type: 0 EOA, 1 proxy, 2 gnosis safe")

	// parámetros de -order
	slug := flag.String("slug", "", "market slug or literal token id")
	outcome := flag.String("outcome", "", "outcome label (Yes/No/...)")
	outcomeIndex := flag.Int("outcome-index", -1, "explicit outcome index (overrides -outcome)")
	side := flag.String("side", "BUY", "BUY or SELL")
	price := flag.String("price", "", "limit price (implies -limit)")
	size := flag.String("size", "", "shares")
	notional := flag.String("notional", "", "USDC amount (market buy)")
	limit := flag.Bool("limit", false, "place a GTC limit order instead of market FOK")

	// parámetros de consulta
	wallet := flag.String("wallet", "", "filter trades by wallet")
	nTrades := flag.Int("limit-rows", 30, "max rows to show")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &app{
		cfg:     cfg,
		client:  polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase, cfg.API.DataBase),
		store:   store,
		console: notify.NewConsole(),
	}
	app.gate = rategate.New(cfg.RateGate.MaxCalls, cfg.RateWindow())

	switch {
	case *setCreds:
		err = app.setCreds(ctx, *key, *funder, *sigType)
	case *addTrader != "":
		err = app.addTrader(ctx, *addTrader)
	case *listTraders:
		err = app.listTraders(ctx)
	case *showTrades:
		err = app.showTrades(ctx, *wallet, *nTrades)
	case *cash:
		err = app.cash(ctx)
	case *order:
		err = app.placeOrder(ctx, orderArgs{
			slug: *slug, outcome: *outcome, outcomeIndex: *outcomeIndex,
			side: *side, price: *price, size: *size, notional: *notional,
			limit: *limit,
		})
	case *runMirror:
		err = app.mirror(ctx)
	case *approve:
		err = app.approve(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error("operation failed", "err", err)
		os.Exit(1)
	}
}

// app agrupa las dependencias compartidas por todas las operaciones.
type app struct {
	cfg     *config.Config
	client  *polymarket.Client
	store   *storage.SQLiteStorage
	console *notify.Console
	gate    ports.Gate
}

// setCreds valida la private key y persiste las credenciales.
func (a *app) setCreds(ctx context.Context, key, funder string, sigType int) error {
	cred, err := domain.ParseCredential(key)
	if err != nil {
		return err
	}
	if sigType < int(domain.SignatureEOA) || sigType > int(domain.SignaturePolyGnosisSafe) {
		return fmt.Errorf("invalid signature type %d", sigType)
	}

	settings := domain.Settings{
		PrivateKey:    strings.TrimSpace(key),
		Funder:        domain.ChecksumAddress(funder),
		SignatureType: domain.SignatureType(sigType),
	}
	if err := a.store.SaveSettings(ctx, settings); err != nil {
		return err
	}
	a.console.PrintSettings(settings, cred.Address.Hex())
	return nil
}

func (a *app) addTrader(ctx context.Context, address string) error {
	addr := domain.ChecksumAddress(address)
	if err := a.store.AddTrader(ctx, addr); err != nil {
		return err
	}
	slog.Info("trader tracked", "wallet", addr)
	return nil
}

func (a *app) listTraders(ctx context.Context) error {
	traders, err := a.store.ListTraders(ctx)
	if err != nil {
		return err
	}
	stats, err := a.store.TraderStats(ctx)
	if err != nil {
		return err
	}
	a.console.PrintTraders(traders, stats)
	return nil
}

func (a *app) showTrades(ctx context.Context, wallet string, limit int) error {
	var trades []domain.MirroredTrade
	var err error
	if wallet != "" {
		trades, err = a.store.TradesForTrader(ctx, domain.ChecksumAddress(wallet), limit)
	} else {
		trades, err = a.store.RecentTrades(ctx, limit)
	}
	if err != nil {
		return err
	}
	a.console.PrintTrades(trades)
	return nil
}

// cash resuelve credenciales + wallet mode y muestra el snapshot de balances.
func (a *app) cash(ctx context.Context) error {
	cred, mode, err := a.resolveWallet(ctx)
	if err != nil {
		return err
	}

	chain, err := onchain.NewReader(a.cfg.Chain.RPCURL)
	if err != nil {
		return err
	}

	agg := balance.New(polymarket.NewFactory(a.client), chain, a.gate)
	snap, err := agg.Snapshot(ctx, cred, mode)
	if err != nil {
		return err
	}
	a.console.PrintBalances(snap)
	return nil
}

type orderArgs struct {
	slug, outcome         string
	outcomeIndex          int
	side                  string
	price, size, notional string
	limit                 bool
}

// placeOrder resuelve mercado + wallet mode y envía exactamente una orden.
func (a *app) placeOrder(ctx context.Context, args orderArgs) error {
	if args.slug == "" {
		return errors.New("-order requires -slug")
	}

	sideVal, err := domain.ParseSide(args.side)
	if err != nil {
		return err
	}

	cred, mode, err := a.resolveWallet(ctx)
	if err != nil {
		return err
	}

	sel := resolve.TokenSelector{Label: args.outcome}
	if args.outcomeIndex >= 0 {
		idx := args.outcomeIndex
		sel.Index = &idx
	}
	tokenID, err := resolve.NewMarketResolver(a.client).Resolve(ctx, args.slug, sel)
	if err != nil {
		return err
	}

	intent := domain.TradeIntent{
		TokenID: tokenID,
		Side:    sideVal,
		Kind:    domain.OrderMarket,
	}
	if args.limit || args.price != "" {
		intent.Kind = domain.OrderLimit
	}
	if intent.Price, err = parseAmount(args.price); err != nil {
		return fmt.Errorf("invalid -price: %w", err)
	}
	if intent.Size, err = parseAmount(args.size); err != nil {
		return fmt.Errorf("invalid -size: %w", err)
	}
	if intent.Notional, err = parseAmount(args.notional); err != nil {
		return fmt.Errorf("invalid -notional: %w", err)
	}

	exec := execution.New(polymarket.NewFactory(a.client), a.gate)
	receipt, err := exec.Submit(ctx, cred, mode, intent)
	if err != nil {
		return err
	}
	a.console.PrintReceipt(receipt)
	return nil
}

func (a *app) mirror(ctx context.Context) error {
	poller := mirror.NewPoller(a.client, a.store, a.gate, a.cfg.MirrorInterval(), a.cfg.Mirror.FetchLimit)
	if err := poller.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// approve emite el max approval de USDC.e hacia el CTF Exchange. Solo tiene
// sentido para wallets EOA; los proxies gestionan allowances desde la UI.
func (a *app) approve(ctx context.Context) error {
	settings, ok, err := a.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no credentials saved — run -set-creds first")
	}
	cred, err := domain.ParseCredential(settings.PrivateKey)
	if err != nil {
		return err
	}

	approver, err := onchain.NewApproveClient(a.cfg.Chain.RPCURL, cred)
	if err != nil {
		return err
	}
	return sendApproval(ctx, approver, os.Stdout)
}

// sendApproval aprueba el gasto de USDC.e por el CTF Exchange y reporta el
// hash de la transacción.
func sendApproval(ctx context.Context, approver ports.Approver, out io.Writer) error {
	txHash, err := approver.ApproveMax(ctx, balance.USDCe, balance.CTFExchange)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n  approval tx: %s\n\n", txHash)
	return nil
}

// resolveWallet carga las credenciales guardadas y resuelve el wallet mode
// efectivo de esta operación.
func (a *app) resolveWallet(ctx context.Context) (domain.WalletCredential, domain.WalletMode, error) {
	settings, ok, err := a.store.GetSettings(ctx)
	if err != nil {
		return domain.WalletCredential{}, domain.WalletMode{}, err
	}
	if !ok {
		return domain.WalletCredential{}, domain.WalletMode{}, errors.New("no credentials saved — run -set-creds first")
	}

	cred, err := domain.ParseCredential(settings.PrivateKey)
	if err != nil {
		return domain.WalletCredential{}, domain.WalletMode{}, err
	}

	resolver := resolve.NewWalletModeResolver(a.client)
	mode, err := resolver.Resolve(ctx, cred.Address, resolve.StoredHints{
		Funder:        settings.Funder,
		SignatureType: settings.SignatureType,
	})
	if err != nil {
		return domain.WalletCredential{}, domain.WalletMode{}, err
	}

	slog.Debug("operating as", "mode", resolve.DescribeMode(mode))
	return cred, mode, nil
}

// parseAmount convierte un flag numérico opcional; vacío = cero.
func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
