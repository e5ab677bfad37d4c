package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/worksheetz/internal/validate"
)

const runsTable = "validation_runs"

// timeLayout is fixed-width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var runColumns = []string{
	"id", "run_id", "created_at", "subject", "grade", "task_count",
	"valid", "error_count", "warning_count", "issues_json",
}

// storedIssues is the issues_json payload.
type storedIssues struct {
	Errors   []validate.Issue `json:"errors"`
	Warnings []validate.Issue `json:"warnings"`
}

// runRepo implements RunRepo with ent's SQL builder over database/sql.
type runRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *runRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func (r *runRepo) Append(ctx context.Context, rec RunRecord) (*Run, error) {
	if rec.Result == nil {
		return nil, errors.New("append run: nil result")
	}

	payload := storedIssues{Errors: rec.Result.Errors, Warnings: rec.Result.Warnings}
	if payload.Errors == nil {
		payload.Errors = []validate.Issue{}
	}
	if payload.Warnings == nil {
		payload.Warnings = []validate.Issue{}
	}
	issues, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal issues: %w", err)
	}

	run := &Run{
		RunID:        uuid.NewString(),
		CreatedAt:    r.clock(),
		Subject:      rec.Subject,
		Grade:        rec.Grade,
		TaskCount:    rec.TaskCount,
		Valid:        rec.Result.Valid,
		ErrorCount:   len(payload.Errors),
		WarningCount: len(payload.Warnings),
		Errors:       payload.Errors,
		Warnings:     payload.Warnings,
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(runsTable).
		Columns(runColumns[1:]...).
		Values(
			run.RunID,
			run.CreatedAt.Format(timeLayout),
			string(run.Subject),
			run.Grade,
			run.TaskCount,
			boolToInt(run.Valid),
			run.ErrorCount,
			run.WarningCount,
			string(issues),
		).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	if run.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

func (r *runRepo) List(ctx context.Context, opts QueryOpts) ([]Run, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(runColumns...).
		From(entsql.Table(runsTable)).
		OrderBy(entsql.Desc("id"))

	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel = sel.Where(entsql.GT("id", opts.After))
	}
	if opts.Before > 0 {
		sel = sel.Where(entsql.LT("id", opts.Before))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("created_at", opts.From.UTC().Format(timeLayout)))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE("created_at", opts.To.UTC().Format(timeLayout)))
	}
	if opts.Subject != "" {
		sel = sel.Where(entsql.EQ("subject", string(opts.Subject)))
	}
	if opts.InvalidOnly {
		sel = sel.Where(entsql.EQ("valid", 0))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return runs, nil
}

func (r *runRepo) Get(ctx context.Context, runID string) (*Run, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(runColumns...).
		From(entsql.Table(runsTable)).
		Where(entsql.EQ("run_id", runID)).
		Query()

	run, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *runRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune runs: keep must not be negative, got %d", keep)
	}

	// Find the ID threshold: the newest run that falls outside keep.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table(runsTable)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil // fewer than keep runs exist
	}
	if err != nil {
		return 0, fmt.Errorf("query runs for prune: %w", err)
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(runsTable).
		Where(entsql.LTE("id", threshold)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		subject   string
		createdAt string
		valid     int
		issues    string
	)
	err := row.Scan(
		&run.ID, &run.RunID, &createdAt, &subject, &run.Grade, &run.TaskCount,
		&valid, &run.ErrorCount, &run.WarningCount, &issues,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at of run %s: %w", run.RunID, err)
	}
	var payload storedIssues
	if err := json.Unmarshal([]byte(issues), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal issues of run %s: %w", run.RunID, err)
	}
	run.Subject = validate.Subject(subject)
	run.Valid = valid != 0
	run.Errors = nonNil(payload.Errors)
	run.Warnings = nonNil(payload.Warnings)
	return &run, nil
}

func nonNil(issues []validate.Issue) []validate.Issue {
	if issues == nil {
		return []validate.Issue{}
	}
	return issues
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
