package store

import (
	"context"
	"time"

	"github.com/abhisek/worksheetz/internal/validate"
)

// QueryOpts configures run queries with filtering and pagination.
type QueryOpts struct {
	Limit       int              // max results (0 = unlimited)
	After       int64            // id > After
	Before      int64            // id < Before
	From        time.Time        // created_at >= From
	To          time.Time        // created_at <= To
	Subject     validate.Subject // exact match when set
	InvalidOnly bool
}

// RunRecord is the input for recording one validation run.
type RunRecord struct {
	Subject   validate.Subject
	Grade     int
	TaskCount int
	Result    *validate.Result
}

// Run is a recorded validation verdict. Task content is never stored.
type Run struct {
	ID           int64
	RunID        string
	CreatedAt    time.Time
	Subject      validate.Subject
	Grade        int
	TaskCount    int
	Valid        bool
	ErrorCount   int
	WarningCount int
	Errors       []validate.Issue
	Warnings     []validate.Issue
}

// Result rebuilds the verdict as it was returned by the engine.
func (r *Run) Result() *validate.Result {
	return &validate.Result{Valid: r.Valid, Errors: r.Errors, Warnings: r.Warnings}
}

// RunRepo provides append and query access to the validation run log.
type RunRepo interface {
	// Append records a run and returns it with its assigned identifiers.
	Append(ctx context.Context, rec RunRecord) (*Run, error)

	// List returns runs newest first.
	List(ctx context.Context, opts QueryOpts) ([]Run, error)

	// Get returns the run with the given run ID, or nil if none exists.
	Get(ctx context.Context, runID string) (*Run, error)

	// Prune deletes all but the N most recent runs and reports how many
	// were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}
