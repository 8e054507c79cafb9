package storage_test

import (
	"testing"

	"github.com/hd220/spikenet/storage"
)

func TestNewHistoryLoggerInMemory(t *testing.T) {
	hl, err := storage.NewHistoryLogger(":memory:")
	if err != nil {
		t.Fatalf("NewHistoryLogger(:memory:): %v", err)
	}
	defer hl.Close()

	rows, err := hl.DBForTest().Query("SELECT name FROM sqlite_master WHERE type='table'")
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	defer rows.Close()

	found := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan table name: %v", err)
		}
		found[name] = true
	}
	for _, want := range []string{"EpochHistory", "CheckpointEvents"} {
		if !found[want] {
			t.Errorf("expected table %q to exist, tables found: %v", want, found)
		}
	}
}

func TestLogEpochInsertsRow(t *testing.T) {
	hl, err := storage.NewHistoryLogger(":memory:")
	if err != nil {
		t.Fatalf("NewHistoryLogger: %v", err)
	}
	defer hl.Close()

	if err := hl.LogEpoch(0, 0.75, 0.3, false); err != nil {
		t.Fatalf("LogEpoch: %v", err)
	}
	if err := hl.LogEpoch(1, 0.80, 0.4, true); err != nil {
		t.Fatalf("LogEpoch: %v", err)
	}

	var count int
	if err := hl.DBForTest().QueryRow("SELECT COUNT(*) FROM EpochHistory").Scan(&count); err != nil {
		t.Fatalf("count EpochHistory rows: %v", err)
	}
	if count != 2 {
		t.Errorf("EpochHistory row count = %d, want 2", count)
	}
}

func TestLogCheckpointEventInsertsRow(t *testing.T) {
	hl, err := storage.NewHistoryLogger(":memory:")
	if err != nil {
		t.Fatalf("NewHistoryLogger: %v", err)
	}
	defer hl.Close()

	if err := hl.LogCheckpointEvent(4, "accuracy", 0.2); err != nil {
		t.Fatalf("LogCheckpointEvent: %v", err)
	}

	var metric string
	if err := hl.DBForTest().QueryRow("SELECT Metric FROM CheckpointEvents WHERE Epoch = 4").Scan(&metric); err != nil {
		t.Fatalf("query CheckpointEvents: %v", err)
	}
	if metric != "accuracy" {
		t.Errorf("Metric = %q, want %q", metric, "accuracy")
	}
}
