package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the MemToken store (SQLite).
var Migrations = migrate.NewGroup("memtoken")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_memtoken_events",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS memtoken_events (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL DEFAULT '',
    at         TEXT NOT NULL DEFAULT (datetime('now')),
    from_addr  TEXT NOT NULL DEFAULT '',
    to_addr    TEXT NOT NULL DEFAULT '',
    amount     TEXT NOT NULL DEFAULT '0',
    owner      TEXT NOT NULL DEFAULT '',
    spender    TEXT NOT NULL DEFAULT '',
    session_id INTEGER NOT NULL DEFAULT 0,
    voter      TEXT NOT NULL DEFAULT '',
    price      TEXT NOT NULL DEFAULT '0',
    weight     TEXT NOT NULL DEFAULT '0',
    fee_bps    INTEGER NOT NULL DEFAULT 0,
    native     TEXT NOT NULL DEFAULT '0',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_memtoken_events_kind_at ON memtoken_events (kind, at);
CREATE INDEX IF NOT EXISTS idx_memtoken_events_at ON memtoken_events (at);
CREATE INDEX IF NOT EXISTS idx_memtoken_events_session ON memtoken_events (session_id) WHERE session_id != 0;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS memtoken_events`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_memtoken_snapshots",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS memtoken_snapshots (
    id       TEXT PRIMARY KEY,
    taken_at TEXT NOT NULL DEFAULT (datetime('now')),
    state    BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memtoken_snapshots_taken_at ON memtoken_snapshots (taken_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS memtoken_snapshots`)
				return err
			},
		},
	)
}
