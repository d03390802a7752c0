package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"DrawSentinel/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder caches historical prices in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite price cache opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS historical_prices (
			date       TEXT PRIMARY KEY,
			amount     TEXT NOT NULL,
			currency   TEXT NOT NULL,
			source     TEXT,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_historical_fetched ON historical_prices(fetched_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) LookupHistorical(ctx context.Context, date string) (*model.PricePoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var amount, currency string
	var source sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT amount, currency, source FROM historical_prices WHERE date = ?`, date,
	).Scan(&amount, &currency, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", date, err)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("decode amount for %s: %w", date, err)
	}
	return &model.PricePoint{
		Amount:   d,
		Currency: currency,
		Kind:     model.PriceHistorical,
		Source:   source.String,
	}, nil
}

func (r *SQLiteRecorder) RecordHistorical(ctx context.Context, date string, p *model.PricePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO historical_prices
		(date, amount, currency, source, fetched_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(date) DO UPDATE SET
			amount = excluded.amount,
			currency = excluded.currency,
			source = excluded.source,
			fetched_at = excluded.fetched_at`,
		date, p.Amount.String(), p.Currency, p.Source, time.Now().Unix(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite price cache")
	return r.db.Close()
}
