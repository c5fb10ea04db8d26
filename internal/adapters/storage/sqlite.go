package storage

// sqlite.go — persistencia local del mirror.
//
// Tres tablas:
//   - `settings`: una única fila (id=1) con las credenciales del operador.
//     Se sobreescribe entera en cada -set-creds.
//   - `tracked_traders`: una fila por wallet seguida, con el perfil público
//     que devuelve la data API (se refresca en cada ciclo del mirror).
//   - `trades`: el trade log espejado. transaction_hash es PRIMARY KEY y
//     los duplicados se ignoran, así el poller puede re-leer el feed sin
//     deduplicar en memoria.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rvilla87/polymirror/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Credenciales del operador: siempre una fila, id fijo
CREATE TABLE IF NOT EXISTS settings (
    id             INTEGER PRIMARY KEY CHECK (id = 1),
    private_key    TEXT NOT NULL,
    funder         TEXT NOT NULL DEFAULT '',
    signature_type INTEGER NOT NULL DEFAULT 0,
    updated_at     DATETIME NOT NULL
);

-- Wallets seguidas por el mirror
CREATE TABLE IF NOT EXISTS tracked_traders (
    address       TEXT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    pseudonym     TEXT NOT NULL DEFAULT '',
    bio           TEXT NOT NULL DEFAULT '',
    profile_image TEXT NOT NULL DEFAULT '',
    last_seen     INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL
);

-- Trade log espejado, una fila por transaction hash
CREATE TABLE IF NOT EXISTS trades (
    transaction_hash TEXT PRIMARY KEY,
    proxy_wallet     TEXT NOT NULL,
    condition_id     TEXT NOT NULL DEFAULT '',
    type             TEXT NOT NULL DEFAULT '',
    side             TEXT NOT NULL DEFAULT '',
    size             REAL NOT NULL DEFAULT 0,
    usdc_size        REAL NOT NULL DEFAULT 0,
    price            REAL NOT NULL DEFAULT 0,
    asset            TEXT NOT NULL DEFAULT '',
    outcome_index    INTEGER NOT NULL DEFAULT 0,
    outcome          TEXT NOT NULL DEFAULT '',
    title            TEXT NOT NULL DEFAULT '',
    slug             TEXT NOT NULL DEFAULT '',
    event_slug       TEXT NOT NULL DEFAULT '',
    icon             TEXT NOT NULL DEFAULT '',
    timestamp        INTEGER NOT NULL DEFAULT 0,
    inserted_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_wallet ON trades(proxy_wallet, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_trades_ts     ON trades(timestamp DESC);
`

// SQLiteStorage implementa ports.SettingsStore y ports.TraderStore usando
// SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica
// el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close cierra la conexión.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveSettings sobreescribe las credenciales del operador.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, set domain.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, private_key, funder, signature_type, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			private_key    = excluded.private_key,
			funder         = excluded.funder,
			signature_type = excluded.signature_type,
			updated_at     = excluded.updated_at`,
		set.PrivateKey, set.Funder, int(set.SignatureType), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveSettings: %w", err)
	}
	return nil
}

// GetSettings devuelve (settings, true) si hay credenciales guardadas.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (domain.Settings, bool, error) {
	var set domain.Settings
	var sigType int
	err := s.db.QueryRowContext(ctx,
		`SELECT private_key, funder, signature_type FROM settings WHERE id = 1`,
	).Scan(&set.PrivateKey, &set.Funder, &sigType)
	if err == sql.ErrNoRows {
		return domain.Settings{}, false, nil
	}
	if err != nil {
		return domain.Settings{}, false, fmt.Errorf("storage.GetSettings: %w", err)
	}
	set.SignatureType = domain.SignatureType(sigType)
	return set, true, nil
}

// AddTrader registra una wallet a seguir. Re-añadir una existente no es error.
func (s *SQLiteStorage) AddTrader(ctx context.Context, address string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracked_traders (address, created_at) VALUES (?, ?)
		ON CONFLICT(address) DO NOTHING`,
		address, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.AddTrader %s: %w", address, err)
	}
	return nil
}

// ListTraders devuelve todas las wallets seguidas.
func (s *SQLiteStorage) ListTraders(ctx context.Context) ([]domain.Trader, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, name, pseudonym, bio, profile_image, last_seen, created_at
		FROM tracked_traders ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("storage.ListTraders: %w", err)
	}
	defer rows.Close()

	var traders []domain.Trader
	for rows.Next() {
		var t domain.Trader
		if err := rows.Scan(&t.Address, &t.Name, &t.Pseudonym, &t.Bio, &t.ProfileImage, &t.LastSeen, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage.ListTraders: scan: %w", err)
		}
		traders = append(traders, t)
	}
	return traders, rows.Err()
}

// UpdateTraderProfile refresca el perfil público de una wallet con el último
// registro de actividad visto.
func (s *SQLiteStorage) UpdateTraderProfile(ctx context.Context, address string, sample domain.Activity) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tracked_traders SET
			name          = ?,
			pseudonym     = ?,
			bio           = ?,
			profile_image = ?,
			last_seen     = ?
		WHERE address = ?`,
		sample.Name, sample.Pseudonym, sample.Bio, sample.ProfileImage, sample.Timestamp, address,
	)
	if err != nil {
		return fmt.Errorf("storage.UpdateTraderProfile %s: %w", address, err)
	}
	return nil
}

// AddTrade inserta un trade espejado, ignorando duplicados por hash.
func (s *SQLiteStorage) AddTrade(ctx context.Context, t domain.MirroredTrade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
			(transaction_hash, proxy_wallet, condition_id, type, side, size,
			 usdc_size, price, asset, outcome_index, outcome, title, slug,
			 event_slug, icon, timestamp, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_hash) DO NOTHING`,
		t.TransactionHash, t.ProxyWallet, t.ConditionID, t.Type, t.Side, t.Size,
		t.USDCSize, t.Price, t.Asset, t.OutcomeIndex, t.Outcome, t.Title, t.Slug,
		t.EventSlug, t.Icon, t.Timestamp, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.AddTrade %s: %w", t.TransactionHash, err)
	}
	return nil
}

const tradeColumns = `transaction_hash, proxy_wallet, condition_id, type, side, size,
	usdc_size, price, asset, outcome_index, outcome, title, slug,
	event_slug, icon, timestamp, inserted_at`

// TradesForTrader devuelve los trades espejados de una wallet, más recientes primero.
func (s *SQLiteStorage) TradesForTrader(ctx context.Context, address string, limit int) ([]domain.MirroredTrade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE proxy_wallet = ? ORDER BY timestamp DESC LIMIT ?`,
		address, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.TradesForTrader %s: %w", address, err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// RecentTrades devuelve los últimos trades espejados de todas las wallets.
func (s *SQLiteStorage) RecentTrades(ctx context.Context, limit int) ([]domain.MirroredTrade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tradeColumns+` FROM trades ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentTrades: %w", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

// TraderStats agrega trades y último timestamp por wallet.
func (s *SQLiteStorage) TraderStats(ctx context.Context) (map[string]domain.TraderStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proxy_wallet, COUNT(*), MAX(timestamp)
		FROM trades GROUP BY proxy_wallet`)
	if err != nil {
		return nil, fmt.Errorf("storage.TraderStats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]domain.TraderStats)
	for rows.Next() {
		var wallet string
		var st domain.TraderStats
		if err := rows.Scan(&wallet, &st.TradesCount, &st.LastTrade); err != nil {
			return nil, fmt.Errorf("storage.TraderStats: scan: %w", err)
		}
		stats[wallet] = st
	}
	return stats, rows.Err()
}

func scanTrades(rows *sql.Rows) ([]domain.MirroredTrade, error) {
	var trades []domain.MirroredTrade
	for rows.Next() {
		var t domain.MirroredTrade
		if err := rows.Scan(
			&t.TransactionHash, &t.ProxyWallet, &t.ConditionID, &t.Type, &t.Side,
			&t.Size, &t.USDCSize, &t.Price, &t.Asset, &t.OutcomeIndex, &t.Outcome,
			&t.Title, &t.Slug, &t.EventSlug, &t.Icon, &t.Timestamp, &t.InsertedAt,
		); err != nil {
			return nil, fmt.Errorf("storage: scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
