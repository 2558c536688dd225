package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// CreateSchema creates the survey responses table and its index.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, databaseURL, table string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, Schema(table)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for table, quoting the name as an identifier
func Schema(table string) string {
	ident := pgx.Identifier{table}.Sanitize()
	index := pgx.Identifier{"idx_" + table + "_created_at"}.Sanitize()
	return strings.NewReplacer("{{table}}", ident, "{{index}}", index).Replace(schema)
}

const schema = `
CREATE TABLE IF NOT EXISTS {{table}} (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    country TEXT NOT NULL,
    satisfaction_performance TEXT NOT NULL,
    strengths_performance TEXT NOT NULL,
    improvement_recommendations_performance TEXT NOT NULL,
    faced_challenges BOOLEAN NOT NULL DEFAULT FALSE,
    main_challenge TEXT,
    support_assessment TEXT NOT NULL,
    manager_discussion_quality TEXT NOT NULL,
    received_useful_feedback BOOLEAN NOT NULL DEFAULT FALSE,
    feedback_reason TEXT,
    satisfaction_compensation TEXT NOT NULL,
    strengths_compensation TEXT NOT NULL,
    strengths_details TEXT NOT NULL,
    improvement_area_compensation TEXT NOT NULL,
    improvement_recommendations_compensation TEXT,
    workday_experience TEXT NOT NULL,
    ip_address TEXT NOT NULL DEFAULT 'unknown',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (faced_challenges OR main_challenge IS NULL),
    CHECK (received_useful_feedback OR feedback_reason IS NULL)
);

CREATE INDEX IF NOT EXISTS {{index}} ON {{table}}(created_at);

-- Only the service role writes; it bypasses row level security
ALTER TABLE {{table}} ENABLE ROW LEVEL SECURITY;
`
