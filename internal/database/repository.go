package database

import (
	"context"
	"fmt"
	"time"

	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/report"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            BIGSERIAL PRIMARY KEY,
	kind          TEXT        NOT NULL,
	status        TEXT        NOT NULL,
	raw_count     INTEGER     NOT NULL DEFAULT 0,
	record_count  INTEGER     NOT NULL DEFAULT 0,
	failed_boards TEXT[]      NOT NULL DEFAULT '{}',
	started_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS job_records (
	id                BIGSERIAL PRIMARY KEY,
	run_id            BIGINT  NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position          INTEGER NOT NULL,
	title             TEXT    NOT NULL,
	vertical          TEXT    NOT NULL,
	state             TEXT    NOT NULL,
	platform          TEXT    NOT NULL,
	posting_date      TEXT    NOT NULL,
	contract_duration TEXT    NOT NULL,
	company           TEXT    NOT NULL,
	location          TEXT    NOT NULL,
	description       TEXT    NOT NULL,
	url               TEXT    NOT NULL,
	synthetic         BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS job_records_run_id_idx ON job_records (run_id);
`

const insertRecord = `
	INSERT INTO job_records (run_id, position, title, vertical, state, platform, posting_date,
		contract_duration, company, location, description, url, synthetic)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// transaction-mode poolers cannot keep prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// EnsureSchema creates the tables on first use.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *Repository) Name() string { return "postgres" }

// Publish stores the run and its records in one transaction.
func (r *Repository) Publish(ctx context.Context, rep *report.Report) error {
	_, err := r.SaveRun(ctx, rep)
	return err
}

// SaveRun inserts the run row and batches every record behind it.
func (r *Repository) SaveRun(ctx context.Context, rep *report.Report) (*models.Run, error) {
	run := RunFromReport(rep)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO runs (kind, status, raw_count, record_count, failed_boards, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text`
	if err := tx.QueryRow(ctx, query, run.Kind, string(run.Status), run.RawCount, run.RecordCount,
		nonNil(run.FailedBoards), run.StartedAt, run.FinishedAt).Scan(&run.ID); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	batch := &pgx.Batch{}
	for i, rec := range rep.Records {
		batch.Queue(insertRecord, run.ID, i, rec.Title, rec.Vertical, rec.State, string(rec.Platform),
			rec.PostingDate, rec.ContractDuration, rec.Company, rec.Location, rec.Description, rec.URL, rec.Synthetic)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("failed to save records: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return &run, nil
}

// RecentRuns returns the newest runs first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]models.Run, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, kind, status, raw_count, record_count, failed_boards, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Run, error) {
		var run models.Run
		err := row.Scan(&run.ID, &run.Kind, &run.Status, &run.RawCount, &run.RecordCount,
			&run.FailedBoards, &run.StartedAt, &run.FinishedAt)
		return run, err
	})
}

// RunFromReport maps a finished report onto its persisted row.
func RunFromReport(rep *report.Report) models.Run {
	status := models.RunCompleted
	if rep.Empty() {
		status = models.RunEmpty
	}
	return models.Run{
		Kind:         rep.Kind,
		Status:       status,
		RawCount:     rep.RawCount,
		RecordCount:  len(rep.Records),
		FailedBoards: rep.FailedBoards(),
		StartedAt:    rep.StartedAt,
		FinishedAt:   rep.GeneratedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
