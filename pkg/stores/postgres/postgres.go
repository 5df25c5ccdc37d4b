package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	_ "github.com/lib/pq"
)

type Postgres struct {
	host       string
	port       int
	user       string
	password   string
	dbname     string
	connection *sql.DB
}

func (p *Postgres) Init(c *config.Config) error {
	p.host = c.History.Postgres.Host
	p.port = c.History.Postgres.Port
	p.user = c.History.Postgres.User
	p.password = c.History.Postgres.Password
	p.dbname = c.History.Postgres.DBName

	if err := checkMissingVars(p); err != nil {
		return err
	}

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", p.host, p.port, p.user, p.dbname)
	if p.password != "" {
		psqlInfo = fmt.Sprintf("%s password=%s", psqlInfo, p.password)
	}

	connection, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return err
	}
	p.connection = connection
	// Skipping a "defer connection.close()" call since the connection should die with the agent

	if err := p.connection.Ping(); err != nil {
		return err
	}

	return p.createTableIfNonexistent()
}

func (p *Postgres) createTableIfNonexistent() error {
	sqlStatement := `CREATE TABLE IF NOT EXISTS container_metrics (
		ts timestamptz NOT NULL,
		container_id text NOT NULL,
		name text NOT NULL,
		status text NOT NULL,
		health text NOT NULL,
		cpu_pct double precision,
		mem_resident_mib double precision,
		mem_pct double precision,
		net_in_kbps double precision,
		net_out_kbps double precision,
		pids bigint
	);`
	_, err := p.connection.Exec(sqlStatement)
	return err
}

func (p *Postgres) Save(ctx context.Context, ts time.Time, records []container.Record) error {
	sqlStatement := `INSERT INTO container_metrics
		(ts, container_id, name, status, health, cpu_pct, mem_resident_mib, mem_pct, net_in_kbps, net_out_kbps, pids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, rec := range records {
		_, err := p.connection.ExecContext(ctx, sqlStatement,
			ts, rec.Identifier, rec.DisplayName, rec.Status, rec.Health,
			nullMetric(rec.CPUPercent), nullMetric(rec.MemoryResidentMiB), nullMetric(rec.MemoryPercent),
			nullMetric(rec.NetworkInKbps), nullMetric(rec.NetworkOutKbps), nullCount(rec.PIDCount))
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) Prune(ctx context.Context, olderThan time.Time) error {
	_, err := p.connection.ExecContext(ctx, `DELETE FROM container_metrics WHERE ts < $1`, olderThan)
	return err
}

func (p *Postgres) Close() error {
	if p.connection == nil {
		return nil
	}
	return p.connection.Close()
}

func checkMissingVars(p *Postgres) error {
	if p.host == "" {
		return fmt.Errorf("Postgres host not set")
	}

	if p.port == 0 {
		return fmt.Errorf("Postgres port not set")
	}

	if p.user == "" {
		return fmt.Errorf("Postgres user not set")
	}

	if p.dbname == "" {
		return fmt.Errorf("Postgres dbname not set")
	}

	return nil
}

func nullMetric(m container.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Known}
}

func nullCount(c container.Count) sql.NullInt64 {
	return sql.NullInt64{Int64: c.Value, Valid: c.Known}
}
