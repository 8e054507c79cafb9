package storage

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryLogger records per-epoch training history (accuracy, margin,
// checkpoint-revert events) to a SQLite database, one row per epoch.
type HistoryLogger struct {
	db *sql.DB
}

// NewHistoryLogger opens (recreating) a SQLite database at dataSourceName
// and ensures its schema exists.
func NewHistoryLogger(dataSourceName string) (*HistoryLogger, error) {
	_ = os.Remove(dataSourceName)

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", dataSourceName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database %s: %w", dataSourceName, err)
	}

	hl := &HistoryLogger{db: db}
	if err := hl.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables in %s: %w", dataSourceName, err)
	}
	return hl, nil
}

func (hl *HistoryLogger) createTables() error {
	epochHistorySQL := `
	CREATE TABLE IF NOT EXISTS EpochHistory (
		EpochID   INTEGER PRIMARY KEY AUTOINCREMENT,
		Epoch     INTEGER NOT NULL,
		Timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		Accuracy  REAL NOT NULL,
		Margin    REAL NOT NULL,
		Reverted  INTEGER NOT NULL
	);`
	if _, err := hl.db.Exec(epochHistorySQL); err != nil {
		return fmt.Errorf("create EpochHistory table: %w", err)
	}

	checkpointEventsSQL := `
	CREATE TABLE IF NOT EXISTS CheckpointEvents (
		EventID   INTEGER PRIMARY KEY AUTOINCREMENT,
		Epoch     INTEGER NOT NULL,
		Timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		Metric    TEXT NOT NULL,
		Drop      REAL NOT NULL
	);`
	if _, err := hl.db.Exec(checkpointEventsSQL); err != nil {
		return fmt.Errorf("create CheckpointEvents table: %w", err)
	}
	return nil
}

// DBForTest exposes the underlying *sql.DB for test assertions.
func (hl *HistoryLogger) DBForTest() *sql.DB {
	return hl.db
}

// LogEpoch records one epoch's accuracy/margin/revert outcome.
func (hl *HistoryLogger) LogEpoch(epoch int, accuracy, margin float64, reverted bool) error {
	if hl.db == nil {
		return fmt.Errorf("history logger not initialized")
	}
	tx, err := hl.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	revertedInt := 0
	if reverted {
		revertedInt = 1
	}
	if _, err := tx.Exec(`INSERT INTO EpochHistory (Epoch, Timestamp, Accuracy, Margin, Reverted)
		VALUES (?, ?, ?, ?, ?)`, epoch, time.Now(), accuracy, margin, revertedInt); err != nil {
		return fmt.Errorf("insert EpochHistory row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LogCheckpointEvent records a checkpoint-revert trigger (spec §4.6 step 3).
func (hl *HistoryLogger) LogCheckpointEvent(epoch int, metric string, drop float64) error {
	if hl.db == nil {
		return fmt.Errorf("history logger not initialized")
	}
	_, err := hl.db.Exec(`INSERT INTO CheckpointEvents (Epoch, Timestamp, Metric, Drop)
		VALUES (?, ?, ?, ?)`, epoch, time.Now(), metric, drop)
	if err != nil {
		return fmt.Errorf("insert CheckpointEvents row: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (hl *HistoryLogger) Close() error {
	if hl.db != nil {
		return hl.db.Close()
	}
	return nil
}
