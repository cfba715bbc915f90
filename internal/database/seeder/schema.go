package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"pathexplorer/internal/database"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// Table names the columns a seeder writes to.
type Table struct {
	Name    string
	Columns []string
}

// CheckSchema looks every table up in one information_schema query and
// reports all missing columns at once, sorted as table.column.
func CheckSchema(ctx context.Context, q database.Querier, tables ...Table) error {
	if len(tables) == 0 {
		return nil
	}
	if q == nil {
		return database.ErrNilDB
	}

	names := make([]string, 0, len(tables))
	for _, t := range tables {
		if t.Name == "" {
			return fmt.Errorf("empty table name")
		}
		for _, c := range t.Columns {
			if c == "" {
				return fmt.Errorf("empty column in table %s", t.Name)
			}
		}
		names = append(names, t.Name)
	}

	rows, err := q.Query(ctx,
		`SELECT table_name, column_name
		 FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = ANY($1)`,
		names,
	)
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return err
		}
		existing[table+"."+column] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, t := range tables {
		for _, c := range t.Columns {
			if !existing[t.Name+"."+c] {
				missing = append(missing, t.Name+"."+c)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
