package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Record is a row that knows its own table, columns, and natural key.
// All types in internal/models implement it.
type Record interface {
	Table() string
	Columns() []string
	ConflictColumns() []string
	Values() []any
}

// WriteMode selects the conflict behavior of Save.
type WriteMode int

const (
	// Upsert replaces an existing row with the same natural key.
	Upsert WriteMode = iota
	// InsertIgnore keeps the existing row and skips the incoming one.
	InsertIgnore
)

// Save persists a heterogeneous batch of records in a single transaction,
// keyed by each record's natural primary key. Re-saving the same key is safe:
// with Upsert the new fields win, with InsertIgnore the old row stays.
// A failure rolls back the whole batch.
func (db *DB) Save(ctx context.Context, mode WriteMode, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	// Group rows by table, preserving first-seen order so statements run
	// deterministically.
	grouped := make(map[string][]Record)
	var order []string
	for _, r := range records {
		table := r.Table()
		if _, ok := grouped[table]; !ok {
			order = append(order, table)
		}
		grouped[table] = append(grouped[table], r)
	}

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		for _, table := range order {
			rows := dedupeRows(grouped[table])
			query, args := buildSaveQuery(rows, mode)
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("saving %d %s rows: %w", len(rows), table, err)
			}
		}
		return nil
	})
}

// dedupeRows collapses rows sharing a natural key to the last one seen.
// Postgres rejects a multi-row ON CONFLICT statement that touches the same
// row twice, and the last row matches what sequential upserts would leave.
func dedupeRows(rows []Record) []Record {
	out := make([]Record, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		key := conflictKey(row)
		if i, ok := index[key]; ok {
			out[i] = row
			continue
		}
		index[key] = len(out)
		out = append(out, row)
	}
	return out
}

// conflictKey renders the values of a record's conflict columns as a map key.
func conflictKey(r Record) string {
	keys := make(map[string]bool, len(r.ConflictColumns()))
	for _, c := range r.ConflictColumns() {
		keys[c] = true
	}
	vals := r.Values()
	var b strings.Builder
	for i, col := range r.Columns() {
		if keys[col] {
			fmt.Fprintf(&b, "%v\x00", vals[i])
		}
	}
	return b.String()
}

// buildSaveQuery renders a multi-row INSERT with the conflict clause selected
// by mode. All rows must belong to the same table.
func buildSaveQuery(rows []Record, mode WriteMode) (string, []any) {
	first := rows[0]
	cols := first.Columns()
	conflict := first.ConflictColumns()

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(first.Table())
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(cols))
	placeholders := make([]string, 0, len(cols))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		placeholders = placeholders[:0]
		base := i * len(cols)
		for j := range cols {
			placeholders = append(placeholders, fmt.Sprintf("$%d", base+j+1))
		}
		b.WriteString("(" + strings.Join(placeholders, ",") + ")")
		args = append(args, row.Values()...)
	}

	b.WriteString(" ON CONFLICT (")
	b.WriteString(strings.Join(conflict, ", "))
	b.WriteString(")")

	updates := updateColumns(cols, conflict)
	if mode == InsertIgnore || len(updates) == 0 {
		b.WriteString(" DO NOTHING")
	} else {
		b.WriteString(" DO UPDATE SET ")
		for i, col := range updates {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col + " = EXCLUDED." + col)
		}
	}

	return b.String(), args
}

// updateColumns returns the non-key columns, the ones an upsert overwrites.
func updateColumns(cols, conflict []string) []string {
	keys := make(map[string]bool, len(conflict))
	for _, c := range conflict {
		keys[c] = true
	}
	var out []string
	for _, c := range cols {
		if !keys[c] {
			out = append(out, c)
		}
	}
	return out
}
