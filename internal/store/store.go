// Package store handles SQLite persistence of analysis runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/hublog/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			checked_at TEXT NOT NULL,
			logfile TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_lines INTEGER NOT NULL,
			passed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_sensor_stats (
			run_id INTEGER NOT NULL,
			sensor TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			min_value REAL NOT NULL,
			max_value REAL NOT NULL,
			mean_value REAL NOT NULL,
			std_value REAL NOT NULL,
			alert_count INTEGER NOT NULL,
			PRIMARY KEY (run_id, sensor)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_checked_at ON runs(checked_at);`,
		`CREATE INDEX IF NOT EXISTS idx_run_sensor_stats_sensor ON run_sensor_stats(sensor);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed analysis run and its per-sensor summary
// rows.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord, rows []model.SummaryRow) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (checked_at, logfile, duration_ms, total_lines, passed)
		 VALUES (?, ?, ?, ?, ?)`,
		run.CheckedAt.Format(time.RFC3339Nano),
		run.LogFile,
		run.DurationMs,
		run.TotalLines,
		boolToInt(run.Passed),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(rows) > 0 {
		// Assign the outer err so the deferred rollback fires on
		// prepare and exec failures.
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO run_sensor_stats (run_id, sensor, sample_count, min_value, max_value, mean_value, std_value, alert_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, row := range rows {
			std := 0.0
			if row.HasStd {
				std = row.Std
			}
			if _, err = stmt.ExecContext(ctx, id, string(row.Sensor), row.Count, row.Min, row.Max, row.Mean, std, row.AlertCount); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns runs matching the filter, oldest first.
func (s *Store) ListRuns(ctx context.Context, filter model.HistoryFilter) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.LogFile != "" {
		clauses = append(clauses, "logfile = ?")
		args = append(args, filter.LogFile)
	}
	query := fmt.Sprintf(`SELECT id, checked_at, logfile, duration_ms, total_lines, passed
		FROM runs
		WHERE %s
		ORDER BY checked_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var checkedAt string
		var passed int
		if err := rows.Scan(&run.RunID, &checkedAt, &run.LogFile, &run.DurationMs, &run.TotalLines, &passed); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, checkedAt)
		if err != nil {
			return nil, err
		}
		run.CheckedAt = parsed
		run.Passed = passed != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(runs) > filter.Last {
		runs = runs[len(runs)-filter.Last:]
	}
	return runs, nil
}

// ListSensorStatsForRuns returns the per-sensor summary rows of the
// given runs keyed by run id.
func (s *Store) ListSensorStatsForRuns(ctx context.Context, runIDs []int64) (map[int64][]model.RunSensorStats, error) {
	if len(runIDs) == 0 {
		return map[int64][]model.RunSensorStats{}, nil
	}
	placeholders := make([]string, len(runIDs))
	args := make([]any, len(runIDs))
	for i, id := range runIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT run_id, sensor, sample_count, min_value, max_value, mean_value, std_value, alert_count
		FROM run_sensor_stats
		WHERE run_id IN (%s)
		ORDER BY run_id ASC, sensor ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64][]model.RunSensorStats{}
	for rows.Next() {
		var stats model.RunSensorStats
		var sensor string
		if err := rows.Scan(&stats.RunID, &sensor, &stats.SampleCount, &stats.Min, &stats.Max, &stats.Mean, &stats.Std, &stats.AlertCount); err != nil {
			return nil, err
		}
		stats.Sensor = model.SensorType(sensor)
		result[stats.RunID] = append(result[stats.RunID], stats)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SensorMeanTrend returns the mean value of one sensor across the given
// runs, in run order. Runs without the sensor are skipped.
func (s *Store) SensorMeanTrend(ctx context.Context, runIDs []int64, sensor model.SensorType) ([]float64, error) {
	statsByRun, err := s.ListSensorStatsForRuns(ctx, runIDs)
	if err != nil {
		return nil, err
	}
	var values []float64
	for _, id := range runIDs {
		for _, stats := range statsByRun[id] {
			if stats.Sensor == sensor {
				values = append(values, stats.Mean)
			}
		}
	}
	return values, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
