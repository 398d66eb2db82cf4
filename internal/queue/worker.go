package queue

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Simonerrror/rubik-motion-lab/internal/db"
	"github.com/Simonerrror/rubik-motion-lab/internal/render"
)

// Plan actions recorded on finished jobs.
const (
	PlanRender = "render"
	PlanCached = "cached"
)

// Worker claims pending jobs one at a time and executes them. Renders
// run with no open store transaction; only the claim and the terminal
// update touch the store.
type Worker struct {
	Store           Store
	Cache           *render.Cache
	Renderer        render.Renderer
	Logger          *zap.Logger
	PollInterval    time.Duration
	RenderTimeout   time.Duration
	OrphanThreshold time.Duration
}

// Run polls for jobs until the context is cancelled. Job failures are
// recorded on the job row and never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	n, err := w.Store.FailOrphanedJobs(ctx, w.OrphanThreshold)
	if err != nil {
		return err
	}
	if n > 0 {
		w.Logger.Warn("reconciled orphaned jobs at startup", zap.Int64("count", n))
	}

	w.Logger.Info("worker started", zap.Duration("poll_interval", w.PollInterval))
	for {
		processed, err := w.RunOnce(ctx)
		if err != nil {
			return err
		}
		if processed {
			continue
		}
		select {
		case <-ctx.Done():
			w.Logger.Info("worker stopping")
			return ctx.Err()
		case <-time.After(w.PollInterval):
		}
	}
}

// RunOnce claims and executes at most one job. Returns false when the
// queue was empty. The error return is reserved for store failures;
// render failures are recorded on the job.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.Store.ClaimNextPendingJob(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	w.process(ctx, job)
	return true, nil
}

// process re-resolves the cache at claim time: the formula may have
// changed, the clip may have appeared, or the algorithm may be gone
// since submission.
func (w *Worker) process(ctx context.Context, job *db.Job) {
	logger := w.Logger.With(
		zap.String("job_id", job.ID.String()),
		zap.Int64("algorithm_id", job.AlgorithmID),
		zap.String("quality", job.Quality),
	)

	quality := render.Quality(job.Quality)
	res, err := w.Cache.Resolve(ctx, job.AlgorithmID, quality)
	if err != nil {
		logger.Warn("job unprocessable", zap.Error(err))
		w.fail(ctx, logger, job, err.Error())
		return
	}

	if res.Hit {
		logger.Info("clip already current, skipping render")
		w.finish(ctx, logger, job, PlanCached, res.Artifact.OutputName, res.Artifact.OutputPath)
		return
	}

	renderCtx := ctx
	if w.RenderTimeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, w.RenderTimeout)
		defer cancel()
	}

	result, err := w.Renderer.Render(renderCtx, render.Request{
		Group:       res.Algorithm.Group,
		OutputName:  render.Slug(res.Algorithm.Name),
		FormulaNorm: res.FormulaNorm,
		Quality:     quality,
	})
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		w.fail(ctx, logger, job, err.Error())
		return
	}

	written, err := w.Store.UpsertArtifact(ctx, db.ArtifactInput{
		AlgorithmID: job.AlgorithmID,
		Quality:     job.Quality,
		OutputName:  result.OutputName,
		OutputPath:  result.OutputPath,
		FormulaNorm: res.FormulaNorm,
	})
	if err != nil {
		w.fail(ctx, logger, job, "failed to record artifact: "+err.Error())
		return
	}
	if !written {
		// The algorithm was deleted mid-render; the job row is gone with
		// it and the clip is an orphan on disk.
		logger.Warn("algorithm deleted during render, discarding artifact")
		return
	}

	w.finish(ctx, logger, job, PlanRender, result.OutputName, result.OutputPath)
}

func (w *Worker) finish(ctx context.Context, logger *zap.Logger, job *db.Job, planAction, outputName, outputPath string) {
	if err := w.Store.MarkJobDone(ctx, job.ID, planAction, outputName, outputPath); err != nil {
		logger.Error("failed to mark job done", zap.Error(err))
		return
	}
	logger.Info("job done",
		zap.String("plan_action", planAction),
		zap.String("output_path", outputPath),
	)
}

func (w *Worker) fail(ctx context.Context, logger *zap.Logger, job *db.Job, message string) {
	if err := w.Store.MarkJobFailed(ctx, job.ID, message); err != nil {
		logger.Error("failed to mark job failed", zap.Error(err))
	}
}
