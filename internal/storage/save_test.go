package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/homepulse/internal/models"
)

func stressRecords(n int) []Record {
	base := time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Stress{Tstamp: base.Add(time.Duration(i) * 3 * time.Minute), StressLevel: 20 + i})
	}
	return out
}

// TestBuildSaveQueryUpsert verifies the multi-row upsert: one statement,
// numbered placeholders, and EXCLUDED assignments for every non-key column.
func TestBuildSaveQueryUpsert(t *testing.T) {
	query, args := buildSaveQuery(stressRecords(2), Upsert)

	if !strings.HasPrefix(query, "INSERT INTO stress (tstamp, stress_level) VALUES ") {
		t.Errorf("query prefix wrong: %s", query)
	}
	if !strings.Contains(query, "($1,$2),($3,$4)") {
		t.Errorf("placeholders wrong: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (tstamp) DO UPDATE SET stress_level = EXCLUDED.stress_level") {
		t.Errorf("conflict clause wrong: %s", query)
	}
	if strings.Contains(query, "tstamp = EXCLUDED.tstamp") {
		t.Errorf("key column must not be updated: %s", query)
	}
	if len(args) != 4 {
		t.Errorf("args = %d, want 4", len(args))
	}
	if args[1] != 20 || args[3] != 21 {
		t.Errorf("arg order wrong: %v", args)
	}
}

// TestBuildSaveQueryInsertIgnore verifies that InsertIgnore renders DO NOTHING
// so existing rows survive a re-sync untouched.
func TestBuildSaveQueryInsertIgnore(t *testing.T) {
	query, _ := buildSaveQuery(stressRecords(1), InsertIgnore)

	if !strings.HasSuffix(query, "ON CONFLICT (tstamp) DO NOTHING") {
		t.Errorf("expected DO NOTHING suffix: %s", query)
	}
}

// TestBuildSaveQueryWideRow verifies placeholder numbering continues correctly
// across rows for a wide table.
func TestBuildSaveQueryWideRow(t *testing.T) {
	d1 := models.SleepDaily{CalendarDate: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)}
	d2 := models.SleepDaily{CalendarDate: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)}
	query, args := buildSaveQuery([]Record{d1, d2}, Upsert)

	cols := len(d1.Columns())
	if len(args) != 2*cols {
		t.Errorf("args = %d, want %d", len(args), 2*cols)
	}
	// Second row starts numbering after the first.
	if !strings.Contains(query, "($30,") {
		t.Errorf("second row should start at $%d: %s", cols+1, query)
	}
}

// TestUpdateColumns verifies key columns are excluded from the update set.
func TestUpdateColumns(t *testing.T) {
	got := updateColumns([]string{"a", "b", "c"}, []string{"a"})
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("updateColumns = %v, want [b c]", got)
	}
	if got := updateColumns([]string{"a"}, []string{"a"}); len(got) != 0 {
		t.Errorf("all-key table should have no updates, got %v", got)
	}
}

// TestDedupeRows verifies that rows repeating a natural key collapse to the
// last one, in original position. A multi-row ON CONFLICT statement must not
// touch the same row twice.
func TestDedupeRows(t *testing.T) {
	ts := time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)
	rows := dedupeRows([]Record{
		models.Stress{Tstamp: ts, StressLevel: 20},
		models.Stress{Tstamp: ts.Add(3 * time.Minute), StressLevel: 30},
		models.Stress{Tstamp: ts, StressLevel: 25},
	})

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	first, ok := rows[0].(models.Stress)
	if !ok || !first.Tstamp.Equal(ts) {
		t.Fatalf("first row = %v, want tstamp %v", rows[0], ts)
	}
	if first.StressLevel != 25 {
		t.Errorf("duplicate key kept level %d, want the later 25", first.StressLevel)
	}
	if second := rows[1].(models.Stress); second.StressLevel != 30 {
		t.Errorf("distinct key dropped: %v", second)
	}
}

// TestConflictKeyDistinguishesRows verifies the key covers only conflict
// columns so value changes alone never split a key.
func TestConflictKeyDistinguishesRows(t *testing.T) {
	ts := time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)
	a := models.Stress{Tstamp: ts, StressLevel: 20}
	b := models.Stress{Tstamp: ts, StressLevel: 90}
	c := models.Stress{Tstamp: ts.Add(time.Second), StressLevel: 20}

	if conflictKey(a) != conflictKey(b) {
		t.Error("same tstamp produced different keys")
	}
	if conflictKey(a) == conflictKey(c) {
		t.Error("different tstamps produced the same key")
	}
}

// TestSaveGrouping verifies the table grouping helper behavior indirectly:
// heterogeneous records produce one query per table in first-seen order.
func TestSaveGrouping(t *testing.T) {
	records := []Record{
		models.Stress{Tstamp: time.Now(), StressLevel: 10},
		models.StressDaily{CalendarDate: time.Now()},
		models.Stress{Tstamp: time.Now().Add(time.Minute), StressLevel: 12},
	}

	grouped := make(map[string][]Record)
	var order []string
	for _, r := range records {
		table := r.Table()
		if _, ok := grouped[table]; !ok {
			order = append(order, table)
		}
		grouped[table] = append(grouped[table], r)
	}

	if len(order) != 2 || order[0] != "stress" || order[1] != "stress_daily" {
		t.Errorf("order = %v", order)
	}
	if len(grouped["stress"]) != 2 {
		t.Errorf("stress rows = %d, want 2", len(grouped["stress"]))
	}
}
