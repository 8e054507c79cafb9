package storage

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// ExportLogData connects to the SQLite database at dbPath, reads tableName,
// and exports it in format to outputPath (os.Stdout if empty). Only "csv"
// is currently supported; valid tableNames are "EpochHistory" and
// "CheckpointEvents" (the tables created by HistoryLogger), matching the
// logutil CLI mode (spec §6).
func ExportLogData(dbPath, tableName, format, outputPath string) error {
	if format != "csv" {
		return fmt.Errorf("unsupported format %q, only \"csv\" is currently supported", format)
	}

	db, err := sql.Open("sqlite3", dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open sqlite database %s: %w", dbPath, err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping sqlite database %s: %w", dbPath, err)
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file %s: %w", outputPath, err)
		}
		defer file.Close()
		out = file
	}
	writer := csv.NewWriter(out)
	defer writer.Flush()

	switch tableName {
	case "EpochHistory":
		return exportEpochHistory(db, writer)
	case "CheckpointEvents":
		return exportCheckpointEvents(db, writer)
	default:
		return fmt.Errorf("unsupported table %q: supported tables are \"EpochHistory\", \"CheckpointEvents\"", tableName)
	}
}

func exportEpochHistory(db *sql.DB, writer *csv.Writer) error {
	headers := []string{"EpochID", "Epoch", "Timestamp", "Accuracy", "Margin", "Reverted"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write CSV headers for EpochHistory: %w", err)
	}

	rows, err := db.Query("SELECT EpochID, Epoch, Timestamp, Accuracy, Margin, Reverted FROM EpochHistory ORDER BY EpochID")
	if err != nil {
		return fmt.Errorf("query EpochHistory: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var epochID, epoch, reverted sql.NullInt64
		var timestamp sql.NullString
		var accuracy, margin sql.NullFloat64
		if err := rows.Scan(&epochID, &epoch, &timestamp, &accuracy, &margin, &reverted); err != nil {
			return fmt.Errorf("scan EpochHistory row: %w", err)
		}
		record := []string{
			intToString(epochID), intToString(epoch), nullStringToString(timestamp),
			floatToString(accuracy), floatToString(margin), intToString(reverted),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record for EpochHistory: %w", err)
		}
	}
	return rows.Err()
}

func exportCheckpointEvents(db *sql.DB, writer *csv.Writer) error {
	headers := []string{"EventID", "Epoch", "Timestamp", "Metric", "Drop"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write CSV headers for CheckpointEvents: %w", err)
	}

	rows, err := db.Query("SELECT EventID, Epoch, Timestamp, Metric, Drop FROM CheckpointEvents ORDER BY EventID")
	if err != nil {
		return fmt.Errorf("query CheckpointEvents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, epoch sql.NullInt64
		var timestamp, metric sql.NullString
		var drop sql.NullFloat64
		if err := rows.Scan(&eventID, &epoch, &timestamp, &metric, &drop); err != nil {
			return fmt.Errorf("scan CheckpointEvents row: %w", err)
		}
		record := []string{
			intToString(eventID), intToString(epoch), nullStringToString(timestamp),
			nullStringToString(metric), floatToString(drop),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record for CheckpointEvents: %w", err)
		}
	}
	return rows.Err()
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func intToString(ni sql.NullInt64) string {
	if ni.Valid {
		return fmt.Sprintf("%d", ni.Int64)
	}
	return ""
}

func floatToString(nf sql.NullFloat64) string {
	if nf.Valid {
		return fmt.Sprintf("%g", nf.Float64)
	}
	return ""
}
