package catalog

import (
	"context"
	"fmt"
	"strings"
)

// RunSQL executes an arbitrary statement against the store and returns
// the result rows as column-keyed maps. Statements without a result set
// return an empty slice. This is the escape hatch for queries the typed
// surface does not cover.
func (d *Database) RunSQL(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	if err := d.requireOpen(); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
			d.lastErr = err.Error()
			return nil, fmt.Errorf("running sql: %w", err)
		}
		return []map[string]any{}, nil
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		d.lastErr = err.Error()
		return nil, fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sql rows: %w", err)
	}

	return results, nil
}
