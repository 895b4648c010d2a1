package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"cutroom/internal/config"
	"cutroom/internal/logging"
	"cutroom/internal/preset"
	"cutroom/internal/render"
	"cutroom/internal/services"
	"cutroom/internal/timeline"
)

// Engine drains pending export jobs through a bounded worker pool. One
// engine owns a store at a time; Process refuses to run concurrently with
// itself.
type Engine struct {
	store  *Store
	runner Runner
	cfg    *config.Config
	logger *slog.Logger

	running atomic.Bool

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

// NewEngine constructs an engine with initialized dependencies.
func NewEngine(cfg *config.Config, store *Store, runner Runner, logger *slog.Logger) (*Engine, error) {
	if cfg == nil || store == nil || runner == nil {
		return nil, errors.New("engine requires config, store, and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:   store,
		runner:  runner,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "batch"),
		cancels: make(map[int64]context.CancelFunc),
	}, nil
}

// EnqueueRequest describes a new export job.
type EnqueueRequest struct {
	Timeline   *timeline.Timeline
	Preset     preset.Preset
	InputPath  string
	OutputPath string
}

// Enqueue validates the timeline against the preset, compiles the plan,
// and persists a pending job. Validation errors block the enqueue;
// warnings are logged and the job proceeds.
func (e *Engine) Enqueue(ctx context.Context, req EnqueueRequest) (*Job, error) {
	if req.Timeline == nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "enqueue", "timeline is required", nil)
	}

	result := preset.Validate(req.Timeline, req.Preset)
	if err := result.Err(); err != nil {
		return nil, err
	}
	for _, warning := range result.Warnings {
		e.logger.Warn("preset validation warning",
			logging.String(logging.FieldPreset, req.Preset.Name),
			logging.String("warning", warning))
	}

	plan, err := render.Compile(req.Timeline, req.Preset, req.InputPath, req.OutputPath)
	if err != nil {
		return nil, err
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	job, err := e.store.Add(ctx, &Job{
		TimelineName: req.Timeline.Name,
		PresetName:   req.Preset.Name,
		InputPath:    req.InputPath,
		OutputPath:   req.OutputPath,
		PlanJSON:     string(planJSON),
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("job enqueued",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldPreset, job.PresetName),
		logging.String("output", job.OutputPath))
	return job, nil
}

// Summary reports the outcome of a Process run.
type Summary struct {
	Completed int
	Failed    int
	Cancelled int
}

// Total returns the number of jobs the run touched.
func (s Summary) Total() int {
	return s.Completed + s.Failed + s.Cancelled
}

// Process drains pending jobs until the queue is empty or the context is
// cancelled. At most Export.MaxConcurrent jobs run at once; the default
// of one preserves strict submission order. Calling Process while a drain
// is already running is a guarded no-op.
func (e *Engine) Process(ctx context.Context) (Summary, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Summary{}, nil
	}
	defer e.running.Store(false)

	limit := e.cfg.Export.MaxConcurrent
	if limit < 1 {
		limit = 1
	}

	var (
		mu      sync.Mutex
		summary Summary
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < limit; i++ {
		group.Go(func() error {
			for {
				if groupCtx.Err() != nil {
					return nil
				}
				// Claiming inside the worker keeps the number of
				// processing rows bounded by the number of busy workers.
				mu.Lock()
				job, err := e.claimNext(groupCtx)
				mu.Unlock()
				if err != nil {
					return err
				}
				if job == nil {
					return nil
				}
				status, runErr := e.runJob(groupCtx, job)
				mu.Lock()
				switch status {
				case StatusCompleted:
					summary.Completed++
				case StatusCancelled:
					summary.Cancelled++
				default:
					summary.Failed++
				}
				mu.Unlock()
				if runErr != nil {
					return runErr
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// claimNext atomically moves the oldest pending job to processing. Callers
// serialize claims, so no two workers claim one job.
func (e *Engine) claimNext(ctx context.Context) (*Job, error) {
	job, err := e.store.NextPending(ctx)
	if err != nil || job == nil {
		return nil, err
	}
	now := time.Now().UTC()
	job.Status = StatusProcessing
	job.StartedAt = &now
	job.SetProgress(0, "Starting export")
	if err := e.store.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// runJob executes one claimed job and persists its terminal state. The
// returned error reports a lost terminal write, not an export failure;
// export failures land in the job record.
func (e *Engine) runJob(ctx context.Context, job *Job) (Status, error) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.registerCancel(job.ID, cancel)
	defer e.unregisterCancel(job.ID)

	logger := e.logger.With(logging.Int64(logging.FieldJobID, job.ID))
	logger.Info("export started",
		logging.String(logging.FieldPreset, job.PresetName),
		logging.String("output", job.OutputPath))

	var plan render.Plan
	if err := json.Unmarshal([]byte(job.PlanJSON), &plan); err != nil {
		job.SetFailed(fmt.Sprintf("decode plan: %v", err))
		return job.Status, e.persistTerminal(job, logger)
	}

	persistEvery := time.Duration(e.cfg.FFmpeg.ProgressPersistInterval) * time.Second
	if persistEvery <= 0 {
		persistEvery = 3 * time.Second
	}
	var lastPersist time.Time

	err := e.runner.Run(jobCtx, plan, func(update ProgressUpdate) {
		job.SetProgress(update.Percent, update.Message)
		if time.Since(lastPersist) < persistEvery {
			return
		}
		lastPersist = time.Now()
		if err := e.store.UpdateProgress(context.Background(), job.ID, job.ProgressPercent, job.ProgressMessage); err != nil {
			logger.Warn("persist progress", logging.Error(err))
		}
	})

	switch {
	case err == nil:
		job.SetCompleted()
	case errors.Is(err, context.Canceled) || errors.Is(jobCtx.Err(), context.Canceled):
		job.SetCancelled()
	default:
		job.SetFailed(err.Error())
	}
	return job.Status, e.persistTerminal(job, logger)
}

// persistTerminal writes a job's final state. Terminal writes use a fresh
// context so cancellation of the job cannot lose its own record, and a
// transient write failure is retried before it surfaces.
func (e *Engine) persistTerminal(job *Job, logger *slog.Logger) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
		if err = e.store.Update(context.Background(), job); err == nil {
			break
		}
	}
	if err != nil {
		logger.Error("persist job state", logging.Error(err))
		return fmt.Errorf("persist job %d terminal state: %w", job.ID, err)
	}
	switch job.Status {
	case StatusCompleted:
		logger.Info("export completed", logging.String("output", job.OutputPath))
	case StatusCancelled:
		logger.Info("export cancelled")
	default:
		logger.Error("export failed", logging.String("error", job.ErrorMessage))
	}
	return nil
}

// Cancel stops a job. A processing job has its encoder killed and lands
// in cancelled once the worker observes the cancellation; a pending job
// is cancelled directly in the store. Terminal jobs are left untouched.
func (e *Engine) Cancel(ctx context.Context, id int64) error {
	e.mu.Lock()
	cancel, inFlight := e.cancels[id]
	e.mu.Unlock()
	if inFlight {
		cancel()
		return nil
	}

	job, err := e.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return services.Wrap(services.ErrNotFound, "batch", "cancel", fmt.Sprintf("job %d not found", id), nil)
	}
	if job.Status.IsTerminal() {
		return nil
	}
	job.SetCancelled()
	return e.store.Update(ctx, job)
}

func (e *Engine) registerCancel(id int64, cancel context.CancelFunc) {
	e.mu.Lock()
	e.cancels[id] = cancel
	e.mu.Unlock()
}

func (e *Engine) unregisterCancel(id int64) {
	e.mu.Lock()
	delete(e.cancels, id)
	e.mu.Unlock()
}
