package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"govdocs/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email             TEXT        NOT NULL UNIQUE,
  full_name         TEXT        NOT NULL DEFAULT '',
  password_hash     TEXT        NOT NULL,
  email_verified_at TIMESTAMPTZ,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_user_roles",
		SQL: `CREATE TABLE IF NOT EXISTS user_roles (
  user_id UUID NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  role    TEXT NOT NULL,
  PRIMARY KEY (user_id, role)
);`,
	},
	{
		Name: "create_table_departments",
		SQL: `CREATE TABLE IF NOT EXISTS departments (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name        TEXT        NOT NULL,
  code        TEXT        NOT NULL UNIQUE,
  description TEXT,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  owner_id   UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  is_secret  BOOLEAN     NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title             TEXT        NOT NULL,
  file_path         TEXT        NOT NULL UNIQUE,
  file_type         TEXT        NOT NULL,
  file_size         BIGINT      NOT NULL CHECK (file_size >= 0),
  owner_id          UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  folder_id         UUID        REFERENCES folders (id) ON DELETE SET NULL,
  department_id     UUID        REFERENCES departments (id) ON DELETE SET NULL,
  date_received     DATE,
  reference_number  TEXT,
  remarks           TEXT,
  tags              TEXT[]      NOT NULL DEFAULT '{}',
  status            TEXT        NOT NULL DEFAULT 'received'
                    CHECK (status IN ('received', 'processing', 'completed')),
  status_notes      TEXT,
  status_updated_at TIMESTAMPTZ,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_created ON documents (owner_id, created_at DESC);`,
	},
	{
		Name: "create_index_documents_folder",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_folder ON documents (folder_id);`,
	},
	{
		Name: "create_table_access_requests",
		SQL: `CREATE TABLE IF NOT EXISTS access_requests (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id      UUID        NOT NULL REFERENCES profiles (id) ON DELETE CASCADE,
  folder_id    UUID        NOT NULL REFERENCES folders (id) ON DELETE CASCADE,
  reason       TEXT        NOT NULL CHECK (length(btrim(reason)) > 0),
  status       TEXT        NOT NULL DEFAULT 'pending'
               CHECK (status IN ('pending', 'approved', 'denied')),
  requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  reviewed_at  TIMESTAMPTZ,
  reviewed_by  UUID        REFERENCES profiles (id) ON DELETE SET NULL,
  expires_at   TIMESTAMPTZ,
  CONSTRAINT access_requests_expiry_iff_approved CHECK ((status = 'approved') = (expires_at IS NOT NULL))
);`,
	},
	{
		Name: "create_index_access_requests_grant",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_access_requests_grant ON access_requests (user_id, folder_id, status);`,
	},
	{
		Name: "create_table_activity_logs",
		SQL: `CREATE TABLE IF NOT EXISTS activity_logs (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id     UUID        NOT NULL,
  action      TEXT        NOT NULL,
  entity_type TEXT        NOT NULL,
  entity_id   UUID,
  details     JSONB       NOT NULL DEFAULT '{}'::jsonb,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_activity_logs_user_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activity_logs_user_created ON activity_logs (user_id, created_at DESC);`,
	},
}

const (
	createLedgerSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	appliedSQL = `SELECT name FROM schema_migrations`
	recordSQL  = `INSERT INTO schema_migrations (name) VALUES ($1)`
)

// EnsureMigrated applies every step that is not yet recorded in schema_migrations, in order.
// Steps are idempotent, so a step that ran but was not recorded is safe to repeat.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *logging.Logger, dbHost string) error {
	log := logger.With("database")
	start := time.Now()

	log.Log(map[string]any{"event": "db_migration_check", "status": "starting", "db_host": dbHost})

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Log(map[string]any{
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": err.Error(),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return err
	}

	pending := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		pending++

		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Log(map[string]any{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		if _, err := db.ExecContext(ctx, recordSQL, step.Name); err != nil {
			return fmt.Errorf("record migration step %s: %w", step.Name, err)
		}

		log.Log(map[string]any{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	if pending == 0 {
		log.Log(map[string]any{
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema up to date, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Log(map[string]any{
		"event":       "db_migration_success",
		"status":      "success",
		"steps":       pending,
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	if _, err := db.ExecContext(ctx, createLedgerSQL); err != nil {
		return nil, fmt.Errorf("failed to create migration ledger: %w", err)
	}

	rows, err := db.QueryContext(ctx, appliedSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read migration ledger: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
