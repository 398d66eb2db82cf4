// Package queue implements the render-job lifecycle: submission with
// cache short-circuiting and deduplication, and the worker loop that
// claims and executes jobs.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Simonerrror/rubik-motion-lab/internal/db"
	"github.com/Simonerrror/rubik-motion-lab/internal/render"
)

// Store is the slice of the database the queue needs. *db.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	GetAlgorithm(ctx context.Context, algorithmID int64) (*db.Algorithm, error)
	GetArtifact(ctx context.Context, algorithmID int64, quality string) (*db.Artifact, error)
	UpsertArtifact(ctx context.Context, input db.ArtifactInput) (bool, error)
	ActiveAlgorithmID(ctx context.Context, caseID int64) (int64, error)

	GetJob(ctx context.Context, jobID uuid.UUID) (*db.Job, error)
	GetOutstandingJob(ctx context.Context, algorithmID int64, quality string) (*db.Job, error)
	CreateJobIfAbsent(ctx context.Context, algorithmID int64, quality string) (*db.Job, bool, error)
	ClaimNextPendingJob(ctx context.Context) (*db.Job, error)
	MarkJobDone(ctx context.Context, jobID uuid.UUID, planAction, outputName, outputPath string) error
	MarkJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) error
	FailOrphanedJobs(ctx context.Context, threshold time.Duration) (int64, error)
	ListRecentJobs(ctx context.Context, algorithmID int64, limit int) ([]db.Job, error)
}

// Submission actions.
const (
	ActionCached        = "cached"
	ActionQueued        = "queued"
	ActionAlreadyQueued = "already_queued"
)

// Submission is the outcome of an enqueue call.
type Submission struct {
	Action   string         `json:"action"`
	Quality  render.Quality `json:"quality"`
	Artifact *db.Artifact   `json:"artifact,omitempty"` // set when Action is cached
	Job      *db.Job        `json:"job,omitempty"`      // set otherwise
}

// KeyStatus reports the render state of one (algorithm, quality) pair.
type KeyStatus struct {
	Quality  render.Quality `json:"quality"`
	Cached   bool           `json:"cached"`
	Artifact *db.Artifact   `json:"artifact,omitempty"`
	Job      *db.Job        `json:"job,omitempty"` // outstanding job, else the most recent one
}

// Service handles render submissions and status lookups.
type Service struct {
	Store           Store
	Cache           *render.Cache
	Logger          *zap.Logger
	OrphanThreshold time.Duration
}

// Enqueue submits a render for (algorithm, quality). A cache hit
// short-circuits without creating a job; otherwise the call converges on
// the single outstanding job for the key. Orphaned RUNNING jobs are
// reconciled first so a crashed worker never blocks resubmission.
func (s *Service) Enqueue(ctx context.Context, algorithmID int64, qualityInput string) (*Submission, error) {
	quality, err := render.ParseQuality(qualityInput)
	if err != nil {
		return nil, err
	}

	if err := s.reconcileOrphans(ctx); err != nil {
		return nil, err
	}

	res, err := s.Cache.Resolve(ctx, algorithmID, quality)
	if err != nil {
		return nil, err
	}
	if res.Hit {
		return &Submission{Action: ActionCached, Quality: quality, Artifact: res.Artifact}, nil
	}

	// High tiers are expensive; require a current draft clip so formula
	// mistakes surface on the cheap render.
	if quality == render.QualityHigh || quality == render.QualityFinal {
		draft, err := s.Cache.Resolve(ctx, algorithmID, render.QualityDraft)
		if err != nil {
			return nil, err
		}
		if !draft.Hit {
			return nil, &DraftRequiredError{AlgorithmID: algorithmID, Quality: quality}
		}
	}

	job, created, err := s.Store.CreateJobIfAbsent(ctx, algorithmID, quality.String())
	if err != nil {
		return nil, err
	}

	action := ActionAlreadyQueued
	if created {
		action = ActionQueued
	}
	s.Logger.Info("render submission",
		zap.Int64("algorithm_id", algorithmID),
		zap.String("quality", quality.String()),
		zap.String("action", action),
		zap.String("job_id", job.ID.String()),
	)
	return &Submission{Action: action, Quality: quality, Job: job}, nil
}

// EnqueueForCase submits a render for the case's active algorithm.
func (s *Service) EnqueueForCase(ctx context.Context, caseID int64, qualityInput string) (*Submission, error) {
	algorithmID, err := s.Store.ActiveAlgorithmID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if algorithmID == 0 {
		return nil, &NoAlgorithmError{CaseID: caseID}
	}
	return s.Enqueue(ctx, algorithmID, qualityInput)
}

// Status retrieves one job by id.
func (s *Service) Status(ctx context.Context, jobID uuid.UUID) (*db.Job, error) {
	job, err := s.Store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &JobNotFoundError{JobID: jobID}
	}
	return job, nil
}

// StatusForKey reports cache and job state for one (algorithm, quality)
// pair: the outstanding job when one exists, else the most recent job.
func (s *Service) StatusForKey(ctx context.Context, algorithmID int64, qualityInput string) (*KeyStatus, error) {
	quality, err := render.ParseQuality(qualityInput)
	if err != nil {
		return nil, err
	}

	res, err := s.Cache.Resolve(ctx, algorithmID, quality)
	if err != nil {
		return nil, err
	}

	status := &KeyStatus{Quality: quality, Cached: res.Hit, Artifact: res.Artifact}

	job, err := s.Store.GetOutstandingJob(ctx, algorithmID, quality.String())
	if err != nil {
		return nil, err
	}
	if job == nil {
		recent, err := s.Store.ListRecentJobs(ctx, algorithmID, 50)
		if err != nil {
			return nil, err
		}
		for i := range recent {
			if recent[i].Quality == quality.String() {
				job = &recent[i]
				break
			}
		}
	}
	status.Job = job
	return status, nil
}

// Overview reports every quality tier for one algorithm together with
// its recent job history.
type Overview struct {
	AlgorithmID int64       `json:"algorithm_id"`
	Keys        []KeyStatus `json:"keys"`
	RecentJobs  []db.Job    `json:"recent_jobs"`
}

// StatusForAlgorithm builds the per-quality overview for one algorithm.
func (s *Service) StatusForAlgorithm(ctx context.Context, algorithmID int64) (*Overview, error) {
	overview := &Overview{AlgorithmID: algorithmID}
	for _, quality := range render.Qualities {
		status, err := s.StatusForKey(ctx, algorithmID, quality.String())
		if err != nil {
			return nil, err
		}
		overview.Keys = append(overview.Keys, *status)
	}

	recent, err := s.Store.ListRecentJobs(ctx, algorithmID, 20)
	if err != nil {
		return nil, err
	}
	overview.RecentJobs = recent
	return overview, nil
}

// StatusForCase builds the overview for the case's active algorithm.
func (s *Service) StatusForCase(ctx context.Context, caseID int64) (*Overview, error) {
	algorithmID, err := s.Store.ActiveAlgorithmID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if algorithmID == 0 {
		return nil, &NoAlgorithmError{CaseID: caseID}
	}
	return s.StatusForAlgorithm(ctx, algorithmID)
}

func (s *Service) reconcileOrphans(ctx context.Context) error {
	n, err := s.Store.FailOrphanedJobs(ctx, s.OrphanThreshold)
	if err != nil {
		return err
	}
	if n > 0 {
		s.Logger.Warn("reconciled orphaned jobs", zap.Int64("count", n))
	}
	return nil
}
