package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `
	id, algorithm_id, quality, status, plan_action,
	output_name, output_path, error_message,
	created_at, started_at, finished_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.AlgorithmID, &j.Quality, &j.Status, &j.PlanAction,
		&j.OutputName, &j.OutputPath, &j.ErrorMessage,
		&j.CreatedAt, &j.StartedAt, &j.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetJob retrieves a job by id, or (nil, nil) when absent
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM render_jobs WHERE id = $1`, jobID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// GetOutstandingJob retrieves the PENDING or RUNNING job for one
// (algorithm, quality) key, or (nil, nil) when there is none
func (db *DB) GetOutstandingJob(ctx context.Context, algorithmID int64, quality string) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+`
		 FROM render_jobs
		 WHERE algorithm_id = $1 AND quality = $2
		   AND status IN ('PENDING', 'RUNNING')`,
		algorithmID, quality,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get outstanding job: %w", err)
	}
	return j, nil
}

// CreateJobIfAbsent inserts a PENDING job for (algorithm, quality) unless
// an outstanding one already exists, in which case the existing job is
// returned unchanged. The partial unique index on outstanding jobs makes
// the check-then-insert atomic against concurrent submissions: whichever
// insert wins the race is the job every caller converges on. The bool
// result reports whether this call created the job.
func (db *DB) CreateJobIfAbsent(ctx context.Context, algorithmID int64, quality string) (*Job, bool, error) {
	// The outstanding job can reach a terminal state between the failed
	// insert and the lookup, so retry the pair a bounded number of times.
	for attempt := 0; attempt < 3; attempt++ {
		j, err := scanJob(db.pool.QueryRow(ctx,
			`INSERT INTO render_jobs (algorithm_id, quality)
			 VALUES ($1, $2)
			 ON CONFLICT (algorithm_id, quality) WHERE status IN ('PENDING', 'RUNNING')
			 DO NOTHING
			 RETURNING `+jobColumns,
			algorithmID, quality,
		))
		if err == nil {
			return j, true, nil
		}
		if err != pgx.ErrNoRows {
			return nil, false, fmt.Errorf("failed to create job: %w", err)
		}

		existing, err := db.GetOutstandingJob(ctx, algorithmID, quality)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	return nil, false, fmt.Errorf("failed to create job for algorithm %d quality %s: submission race did not settle", algorithmID, quality)
}

// ClaimNextPendingJob atomically transitions the oldest PENDING job to
// RUNNING and returns it, or (nil, nil) when the queue is empty. The
// claim commits before the caller starts rendering; the store is never
// held open across render execution. SKIP LOCKED keeps a second worker,
// should one ever be started, from claiming the same job.
func (db *DB) ClaimNextPendingJob(ctx context.Context) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`UPDATE render_jobs
		 SET status = 'RUNNING', started_at = NOW()
		 WHERE id = (
			SELECT id FROM render_jobs
			WHERE status = 'PENDING'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+jobColumns,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}
	return j, nil
}

// MarkJobDone records a successful render outcome
func (db *DB) MarkJobDone(ctx context.Context, jobID uuid.UUID, planAction, outputName, outputPath string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE render_jobs
		 SET status = 'DONE',
			 plan_action = $2,
			 output_name = $3,
			 output_path = $4,
			 error_message = NULL,
			 finished_at = NOW()
		 WHERE id = $1 AND status = 'RUNNING'`,
		jobID, planAction, outputName, outputPath,
	)
	if err != nil {
		return fmt.Errorf("failed to mark job done: %w", err)
	}
	return nil
}

// MarkJobFailed records a failed render outcome
func (db *DB) MarkJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE render_jobs
		 SET status = 'FAILED',
			 error_message = $2,
			 finished_at = NOW()
		 WHERE id = $1 AND status = 'RUNNING'`,
		jobID, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// FailOrphanedJobs reconciles RUNNING jobs whose worker died: anything
// RUNNING longer than the liveness threshold is transitioned to FAILED so
// the (algorithm, quality) key is free for resubmission. Returns the
// number of jobs reconciled.
func (db *DB) FailOrphanedJobs(ctx context.Context, threshold time.Duration) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE render_jobs
		 SET status = 'FAILED',
			 error_message = 'orphaned: worker exceeded liveness threshold',
			 finished_at = NOW()
		 WHERE status = 'RUNNING'
		   AND started_at < NOW() - $1::interval`,
		fmt.Sprintf("%f seconds", threshold.Seconds()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile orphaned jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListRecentJobs retrieves the most recent jobs for an algorithm, newest
// first
func (db *DB) ListRecentJobs(ctx context.Context, algorithmID int64, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM render_jobs
		 WHERE algorithm_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		algorithmID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}
