package syncstate

import (
	"testing"
	"time"
)

func testDay() time.Time {
	return time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
}

// TestMarkAndCheck verifies the basic resume cycle: unseen, marked, seen.
func TestMarkAndCheck(t *testing.T) {
	state, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer state.Close()

	done, err := state.IsSynced("sleep", testDay())
	if err != nil {
		t.Fatalf("IsSynced: %v", err)
	}
	if done {
		t.Error("fresh state reports synced")
	}

	if err := state.MarkSynced("sleep", testDay(), 420); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	done, err = state.IsSynced("sleep", testDay())
	if err != nil {
		t.Fatalf("IsSynced: %v", err)
	}
	if !done {
		t.Error("marked day not reported as synced")
	}

	// Same day, different metric: independent.
	done, err = state.IsSynced("stress", testDay())
	if err != nil {
		t.Fatalf("IsSynced: %v", err)
	}
	if done {
		t.Error("other metric reported as synced")
	}
}

// TestRemark verifies that re-marking a pair replaces rather than errors,
// covering the forced re-sync path.
func TestRemark(t *testing.T) {
	state, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer state.Close()

	if err := state.MarkSynced("steps", testDay(), 10); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := state.MarkSynced("steps", testDay(), 96); err != nil {
		t.Fatalf("re-mark: %v", err)
	}
}

// TestClear verifies that clearing a metric forgets its days but leaves
// other metrics alone.
func TestClear(t *testing.T) {
	state, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer state.Close()

	if err := state.MarkSynced("floors", testDay(), 5); err != nil {
		t.Fatal(err)
	}
	if err := state.MarkSynced("sleep", testDay(), 300); err != nil {
		t.Fatal(err)
	}

	if err := state.Clear("floors"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if done, _ := state.IsSynced("floors", testDay()); done {
		t.Error("cleared metric still reported as synced")
	}
	if done, _ := state.IsSynced("sleep", testDay()); !done {
		t.Error("clear removed state for another metric")
	}
}

// TestReopen verifies state survives closing and reopening the database,
// which is the whole point of persisting it.
func TestReopen(t *testing.T) {
	dir := t.TempDir()

	state, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := state.MarkSynced("heart_rate", testDay(), 700); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}

	state, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer state.Close()

	done, err := state.IsSynced("heart_rate", testDay())
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("state lost across reopen")
	}
}
