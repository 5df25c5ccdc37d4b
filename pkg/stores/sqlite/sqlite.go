package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db   *sql.DB
	path string
}

func (s *SQLite) Init(c *config.Config) error {
	s.path = c.History.Path
	if s.path == "" {
		return fmt.Errorf("sqlite history path not set")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir history dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", s.path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db

	return s.migrate()
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS container_metrics (
		ts DATETIME NOT NULL,
		container_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		health TEXT NOT NULL,
		cpu_pct REAL,
		mem_resident_mib REAL,
		mem_pct REAL,
		net_in_kbps REAL,
		net_out_kbps REAL,
		pids INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_container_metrics_ts ON container_metrics(ts);`)
	return err
}

func (s *SQLite) Save(ctx context.Context, ts time.Time, records []container.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO container_metrics
		(ts, container_id, name, status, health, cpu_pct, mem_resident_mib, mem_pct, net_in_kbps, net_out_kbps, pids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx, ts, rec.Identifier, rec.DisplayName, rec.Status, rec.Health,
			nullMetric(rec.CPUPercent), nullMetric(rec.MemoryResidentMiB), nullMetric(rec.MemoryPercent),
			nullMetric(rec.NetworkInKbps), nullMetric(rec.NetworkOutKbps), nullCount(rec.PIDCount))
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) Prune(ctx context.Context, olderThan time.Time) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM container_metrics WHERE ts < ?`, olderThan)
	return err
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullMetric(m container.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Known}
}

func nullCount(c container.Count) sql.NullInt64 {
	return sql.NullInt64{Int64: c.Value, Valid: c.Known}
}
