package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"core/internal/config"
	"core/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS lead_handoffs (
	id           BIGSERIAL PRIMARY KEY,
	session_id   TEXT        NOT NULL,
	preferences  JSONB       NOT NULL,
	criteria     JSONB       NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_lead_handoffs_session ON lead_handoffs (session_id);

CREATE TABLE IF NOT EXISTS lead_results (
	id           BIGSERIAL PRIMARY KEY,
	session_id   TEXT        NOT NULL,
	result_count INT         NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lead_feedback (
	id           BIGSERIAL PRIMARY KEY,
	session_id   TEXT        NOT NULL,
	address      TEXT        NOT NULL DEFAULT '',
	action       TEXT        NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_lead_feedback_session ON lead_feedback (session_id);
`

// LeadRepository persists the qualified-lead audit trail in PostgreSQL
type LeadRepository struct {
	db *sqlx.DB
}

// NewLeadRepository connects to PostgreSQL and ensures the lead tables exist
func NewLeadRepository(cfg *config.DatabaseConfig) (*LeadRepository, error) {
	dsn := cfg.DSN
	if !strings.Contains(dsn, "prefer_simple_protocol") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure lead schema: %w", err)
	}

	log.Printf("✅ Connected to PostgreSQL for lead persistence")
	return &LeadRepository{db: db}, nil
}

// RecordHandoff stores the full handoff snapshot as JSON
func (r *LeadRepository) RecordHandoff(ctx context.Context, payload *model.HandoffPayload) error {
	prefs, err := json.Marshal(payload.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	criteria, err := json.Marshal(payload.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO lead_handoffs (session_id, preferences, criteria, created_at) VALUES ($1, $2, $3, $4)`,
		payload.SessionID, prefs, criteria, payload.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record handoff: %w", err)
	}
	return nil
}

// RecordResults stores how many properties a search produced
func (r *LeadRepository) RecordResults(ctx context.Context, sessionID string, count int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lead_results (session_id, result_count) VALUES ($1, $2)`,
		sessionID, count)
	if err != nil {
		return fmt.Errorf("failed to record results: %w", err)
	}
	return nil
}

// RecordFeedback stores a buyer action against a shown property
func (r *LeadRepository) RecordFeedback(ctx context.Context, sessionID, address, action string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lead_feedback (session_id, address, action) VALUES ($1, $2, $3)`,
		sessionID, address, action)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// Close releases the database connection pool
func (r *LeadRepository) Close() error {
	return r.db.Close()
}
