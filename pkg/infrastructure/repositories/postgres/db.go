// Package postgres implements the planning repositories on PostgreSQL using sqlx and go-sqlbuilder.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DB is the subset of *sqlx.DB used by the repositories
type DB interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open connects to PostgreSQL and verifies the connection
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Schema creates the planning tables when they do not exist
const Schema = `
CREATE TABLE IF NOT EXISTS bom_lines (
    line_no          BIGSERIAL PRIMARY KEY,
    parent_code      TEXT NOT NULL,
    child_code       TEXT NOT NULL,
    usage_per_parent NUMERIC,
    yield_rate       NUMERIC,
    active           BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS bom_lines_parent_idx ON bom_lines (parent_code);

CREATE TABLE IF NOT EXISTS inventory_balances (
    material_code TEXT NOT NULL,
    plant_code    TEXT NOT NULL,
    quantity      NUMERIC NOT NULL DEFAULT 0,
    reserved_qty  NUMERIC NOT NULL DEFAULT 0,
    PRIMARY KEY (material_code, plant_code)
);

CREATE TABLE IF NOT EXISTS supply_entries (
    id            BIGSERIAL PRIMARY KEY,
    kind          TEXT NOT NULL,
    material_code TEXT NOT NULL,
    plant_code    TEXT NOT NULL,
    quantity      NUMERIC NOT NULL,
    entry_date    DATE NOT NULL,
    ref           TEXT
);
CREATE INDEX IF NOT EXISTS supply_entries_lookup_idx ON supply_entries (material_code, kind, entry_date);

CREATE TABLE IF NOT EXISTS material_constraints (
    material_code  TEXT PRIMARY KEY,
    moq            NUMERIC,
    pack_size      NUMERIC,
    lead_time_days INTEGER,
    safety_stock   NUMERIC
);

CREATE TABLE IF NOT EXISTS supplier_offers (
    material_code         TEXT NOT NULL,
    supplier_code         TEXT NOT NULL,
    supplier_name         TEXT NOT NULL DEFAULT '',
    unit_price            NUMERIC NOT NULL,
    lead_time_days        INTEGER,
    moq                   NUMERIC,
    pack_size             NUMERIC,
    on_time_delivery_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
    active                BOOLEAN NOT NULL DEFAULT TRUE,
    PRIMARY KEY (material_code, supplier_code)
);

CREATE TABLE IF NOT EXISTS capacity_slots (
    plant_code       TEXT NOT NULL,
    workstation_code TEXT NOT NULL,
    slot_date        DATE NOT NULL,
    available_qty    NUMERIC NOT NULL,
    PRIMARY KEY (plant_code, workstation_code, slot_date)
);

CREATE TABLE IF NOT EXISTS planning_results (
    run_id     TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema applies Schema
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
