package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

// schemaVersion is bumped whenever schema.sql changes incompatibly.
// Opening a store written with a different version fails.
const schemaVersion = 1

//go:embed schema.sql
var defaultSchema string

// Initialize destructively wipes the store and rebuilds it from the
// given DDL, or from the embedded default schema when schemaSQL is
// empty.
func (d *Database) Initialize(ctx context.Context, schemaSQL string) error {
	if err := d.requireOpen(); err != nil {
		return err
	}
	if strings.TrimSpace(schemaSQL) == "" {
		schemaSQL = defaultSchema
	}

	if _, err := d.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF;"); err != nil {
		return fmt.Errorf("disabling foreign keys: %w", err)
	}
	err := rebuildSchema(ctx, d.db, schemaSQL)
	if _, ferr := d.db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); ferr != nil && err == nil {
		err = fmt.Errorf("enabling foreign keys: %w", ferr)
	}
	if err != nil {
		d.lastErr = err.Error()
		return err
	}

	d.header = nil
	d.notifyChanged()
	return nil
}

func rebuildSchema(ctx context.Context, db *sql.DB, schemaSQL string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	tables, err := listTables(ctx, tx)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table)); err != nil {
			return fmt.Errorf("dropping table %s: %w", table, err)
		}
	}

	if err := applySchema(ctx, tx, schemaSQL); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// ensureSchema applies the default schema to an empty store and rejects
// stores written with a different schema version.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("inspecting store: %w", err)
	}

	if count == 0 {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning schema transaction: %w", err)
		}
		defer tx.Rollback()

		if err := applySchema(ctx, tx, defaultSchema); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing schema transaction: %w", err)
		}
		return nil
	}

	var version int
	err = db.QueryRowContext(ctx, "SELECT version FROM schema_info LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("existing store has no schema version")
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("unsupported schema version %d, want %d", version, schemaVersion)
	}
	return nil
}

func applySchema(ctx context.Context, tx *sql.Tx, schemaSQL string) error {
	for _, stmt := range splitStatements(schemaSQL) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_info (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("ensuring schema_info: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_info"); err != nil {
		return fmt.Errorf("resetting schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_info (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

func listTables(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
	)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}
	return tables, nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
