package infra

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// migration is one versioned schema change. Versions are applied in ascending
// order exactly once and recorded in schema_migrations — never the
// "try ALTER TABLE, swallow the error" pattern.
type migration struct {
	Version int
	Name    string
	SQL     []string
}

type appliedMigration struct {
	Version   int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}

func (appliedMigration) TableName() string { return "schema_migrations" }

var migrations = []migration{
	{
		Version: 1,
		Name:    "initial schema",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS products (
				upc         TEXT PRIMARY KEY,
				description TEXT NOT NULL,
				category    TEXT,
				cost        NUMERIC NOT NULL DEFAULT 0,
				price       NUMERIC NOT NULL DEFAULT 0,
				taxable     BOOLEAN NOT NULL DEFAULT 1,
				on_hand     INTEGER NOT NULL DEFAULT 0,
				active      BOOLEAN NOT NULL DEFAULT 1,
				created_at  DATETIME,
				updated_at  DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
			`CREATE TABLE IF NOT EXISTS ledger_entries (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				upc             TEXT NOT NULL REFERENCES products (upc),
				reason          VARCHAR(20) NOT NULL,
				delta           INTEGER NOT NULL,
				quantity_before INTEGER NOT NULL,
				quantity_after  INTEGER NOT NULL,
				cost            NUMERIC,
				price           NUMERIC,
				transaction_id  TEXT,
				note            TEXT,
				actor_id        TEXT,
				actor_name      TEXT,
				created_at      DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_ledger_upc_created ON ledger_entries (upc, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_ledger_reason_created ON ledger_entries (reason, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_ledger_entries_transaction_id ON ledger_entries (transaction_id)`,
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				name          TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				role          VARCHAR(20) NOT NULL,
				active        BOOLEAN NOT NULL DEFAULT 1,
				created_at    DATETIME,
				updated_at    DATETIME
			)`,
		},
	},
	{
		Version: 2,
		Name:    "till and transactions",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS till_sessions (
				id             TEXT PRIMARY KEY,
				register       INTEGER NOT NULL,
				opened_by      TEXT NOT NULL REFERENCES users (id),
				opening_float  NUMERIC NOT NULL,
				expected_cash  NUMERIC,
				counted_cash   NUMERIC,
				over_short     NUMERIC,
				over_short_pct NUMERIC,
				status         VARCHAR(20) NOT NULL DEFAULT 'open',
				notes          TEXT,
				opened_at      DATETIME,
				closed_at      DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_till_sessions_register ON till_sessions (register)`,
			`CREATE TABLE IF NOT EXISTS till_movements (
				id              TEXT PRIMARY KEY,
				till_session_id TEXT NOT NULL REFERENCES till_sessions (id),
				type            VARCHAR(20) NOT NULL,
				amount          NUMERIC NOT NULL,
				description     TEXT NOT NULL,
				reference_id    TEXT,
				created_at      DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_till_movements_till_session_id ON till_movements (till_session_id)`,
			`CREATE TABLE IF NOT EXISTS transactions (
				id              TEXT PRIMARY KEY,
				type            VARCHAR(20) NOT NULL,
				till_session_id TEXT NOT NULL REFERENCES till_sessions (id),
				cashier_id      TEXT NOT NULL REFERENCES users (id),
				subtotal        NUMERIC NOT NULL,
				tax             NUMERIC NOT NULL,
				total           NUMERIC NOT NULL,
				status          VARCHAR(20) NOT NULL DEFAULT 'completed',
				void_of         TEXT,
				note            TEXT,
				created_at      DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions (type)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_till_session_id ON transactions (till_session_id)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at)`,
			`CREATE TABLE IF NOT EXISTS transaction_items (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				transaction_id TEXT NOT NULL REFERENCES transactions (id),
				upc            TEXT NOT NULL,
				description    TEXT NOT NULL,
				quantity       INTEGER NOT NULL,
				unit_price     NUMERIC NOT NULL,
				subtotal       NUMERIC NOT NULL,
				taxable        BOOLEAN NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transaction_items_transaction_id ON transaction_items (transaction_id)`,
		},
	},
	{
		Version: 3,
		Name:    "time clock and price history",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS time_clock_entries (
				id        INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id   TEXT NOT NULL REFERENCES users (id),
				clock_in  DATETIME NOT NULL,
				clock_out DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_timeclock_user_in ON time_clock_entries (user_id, clock_in)`,
			`CREATE TABLE IF NOT EXISTS price_history (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				upc        TEXT NOT NULL REFERENCES products (upc),
				old_cost   NUMERIC,
				new_cost   NUMERIC,
				old_price  NUMERIC,
				new_price  NUMERIC,
				changed_by TEXT,
				created_at DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_price_history_upc ON price_history (upc)`,
		},
	},
}

// RunMigrations applies every pending migration in version order, each inside
// its own transaction together with its schema_migrations record.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return fmt.Errorf("schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&appliedMigration{}).Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, stmt := range m.SQL {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
				}
			}
			return tx.Create(&appliedMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return err
		}
		log.Info().Int("version", m.Version).Str("name", m.Name).Msg("migration applied")
	}
	return nil
}
