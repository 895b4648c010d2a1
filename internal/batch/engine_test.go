package batch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cutroom/internal/batch"
	"cutroom/internal/config"
	"cutroom/internal/preset"
	"cutroom/internal/render"
	"cutroom/internal/testsupport"
	"cutroom/internal/timeline"
)

type fakeRunner struct {
	mu       sync.Mutex
	order    []string
	errFor   map[string]error
	started  chan string
	release  chan struct{}
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	t           testing.TB
	writeOutput bool
}

func (r *fakeRunner) Run(ctx context.Context, plan render.Plan, progress func(batch.ProgressUpdate)) error {
	current := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		max := r.maxSeen.Load()
		if current <= max || r.maxSeen.CompareAndSwap(max, current) {
			break
		}
	}

	r.mu.Lock()
	r.order = append(r.order, plan.OutputPath)
	r.mu.Unlock()

	if r.started != nil {
		r.started <- plan.OutputPath
	}
	if r.release != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.release:
		}
	}
	if err := r.errFor[plan.OutputPath]; err != nil {
		return err
	}
	if progress != nil {
		progress(batch.ProgressUpdate{Percent: 50, Message: "Encoding"})
		progress(batch.ProgressUpdate{Percent: 100, Message: "Finishing"})
	}
	if r.writeOutput {
		testsupport.WriteFile(r.t, plan.OutputPath, 128)
	}
	return nil
}

func newEngine(t *testing.T, cfg *config.Config, store *batch.Store, runner batch.Runner) *batch.Engine {
	t.Helper()
	engine, err := batch.NewEngine(cfg, store, runner, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestProcessDrainsInSubmissionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{t: t}
	engine := newEngine(t, cfg, store, runner)

	ctx := context.Background()
	want := []string{"first.mp4", "second.mp4", "third.mp4"}
	for _, output := range want {
		testsupport.NewJob(t, store, "youtube", output)
	}

	summary, err := engine.Process(ctx)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Completed != 3 || summary.Failed != 0 || summary.Cancelled != 0 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	if len(runner.order) != len(want) {
		t.Fatalf("ran %d jobs, want %d", len(runner.order), len(want))
	}
	for i, output := range want {
		if runner.order[i] != output {
			t.Fatalf("run order = %v, want %v", runner.order, want)
		}
	}
	if max := runner.maxSeen.Load(); max != 1 {
		t.Fatalf("observed %d concurrent jobs under default limit, want 1", max)
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, job := range jobs {
		if job.Status != batch.StatusCompleted {
			t.Errorf("job %d status = %q, want completed", job.ID, job.Status)
		}
		if job.ProgressPercent != 100 {
			t.Errorf("job %d progress = %v, want 100", job.ID, job.ProgressPercent)
		}
		if job.CompletedAt == nil {
			t.Errorf("job %d missing completion timestamp", job.ID)
		}
	}
}

func TestProcessRecordsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{
		t:      t,
		errFor: map[string]error{"bad.mp4": errors.New("encoder exploded")},
	}
	engine := newEngine(t, cfg, store, runner)

	ctx := context.Background()
	good := testsupport.NewJob(t, store, "youtube", "good.mp4")
	bad := testsupport.NewJob(t, store, "youtube", "bad.mp4")

	summary, err := engine.Process(ctx)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Completed != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	fetched, err := store.GetByID(ctx, bad.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != batch.StatusFailed {
		t.Fatalf("failed job status = %q", fetched.Status)
	}
	if fetched.ErrorMessage != "encoder exploded" {
		t.Fatalf("error message = %q", fetched.ErrorMessage)
	}

	fetchedGood, err := store.GetByID(ctx, good.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetchedGood.Status != batch.StatusCompleted {
		t.Fatalf("good job status = %q, want completed", fetchedGood.Status)
	}
}

func TestProcessWritesOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{t: t, writeOutput: true}
	engine := newEngine(t, cfg, store, runner)

	output := cfg.Paths.OutputDir + "/export.mp4"
	testsupport.NewJob(t, store, "youtube", output)

	if _, err := engine.Process(context.Background()); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestProcessReentryIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{
		t:       t,
		started: make(chan string, 1),
		release: make(chan struct{}),
	}
	engine := newEngine(t, cfg, store, runner)

	testsupport.NewJob(t, store, "youtube", "slow.mp4")

	done := make(chan error, 1)
	go func() {
		_, err := engine.Process(context.Background())
		done <- err
	}()

	waitStart(t, runner.started)
	summary, err := engine.Process(context.Background())
	if err != nil {
		t.Errorf("re-entrant Process must be a guarded no-op, got %v", err)
	}
	if summary.Total() != 0 {
		t.Errorf("re-entrant Process touched jobs: %#v", summary)
	}
	close(runner.release)

	if err := <-done; err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}

func TestProcessClaimsOneJobPerWorkerSlot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{
		t:       t,
		started: make(chan string, 2),
		release: make(chan struct{}),
	}
	engine := newEngine(t, cfg, store, runner)

	ctx := context.Background()
	testsupport.NewJob(t, store, "youtube", "a.mp4")
	testsupport.NewJob(t, store, "youtube", "b.mp4")

	done := make(chan error, 1)
	go func() {
		_, err := engine.Process(ctx)
		done <- err
	}()

	// With the single default worker busy on the first job, the second
	// must still read as pending to any status poller.
	waitStart(t, runner.started)
	processing, err := store.List(ctx, batch.StatusProcessing)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(processing) != 1 {
		t.Fatalf("%d jobs in processing with one worker, want 1", len(processing))
	}
	pending, err := store.List(ctx, batch.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("%d jobs still pending, want 1", len(pending))
	}

	close(runner.release)
	if err := <-done; err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}

func TestProcessConcurrentWorkersPersistTerminalState(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxConcurrent(4))
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{t: t}
	engine := newEngine(t, cfg, store, runner)

	ctx := context.Background()
	const jobs = 8
	for i := 0; i < jobs; i++ {
		testsupport.NewJob(t, store, "youtube", fmt.Sprintf("out-%d.mp4", i))
	}

	summary, err := engine.Process(ctx)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Completed != jobs {
		t.Fatalf("completed %d jobs, want %d: %#v", summary.Completed, jobs, summary)
	}
	if max := runner.maxSeen.Load(); max > 4 {
		t.Fatalf("observed %d concurrent jobs, limit is 4", max)
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, job := range stored {
		if job.Status != batch.StatusCompleted {
			t.Errorf("job %d status = %q, want completed", job.ID, job.Status)
		}
		if job.ProgressPercent != 100 {
			t.Errorf("job %d progress = %v, want 100", job.ID, job.ProgressPercent)
		}
	}
}

func TestCancelProcessingJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := &fakeRunner{
		t:       t,
		started: make(chan string, 1),
		release: make(chan struct{}),
	}
	engine := newEngine(t, cfg, store, runner)

	ctx := context.Background()
	job := testsupport.NewJob(t, store, "youtube", "cancel-me.mp4")

	done := make(chan error, 1)
	go func() {
		_, err := engine.Process(ctx)
		done <- err
	}()

	waitStart(t, runner.started)
	if err := engine.Cancel(ctx, job.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != batch.StatusCancelled {
		t.Fatalf("cancelled job status = %q", fetched.Status)
	}
}

func TestCancelPendingJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := newEngine(t, cfg, store, &fakeRunner{t: t})

	ctx := context.Background()
	job := testsupport.NewJob(t, store, "youtube", "never-ran.mp4")

	if err := engine.Cancel(ctx, job.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	fetched, err := store.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != batch.StatusCancelled {
		t.Fatalf("pending job status = %q, want cancelled", fetched.Status)
	}

	// A drain afterwards must skip the cancelled job.
	summary, err := engine.Process(ctx)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if summary.Total() != 0 {
		t.Fatalf("cancelled job was processed: %#v", summary)
	}
}

func TestCancelMissingJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := newEngine(t, cfg, store, &fakeRunner{t: t})

	if err := engine.Cancel(context.Background(), 404); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestEnqueueCompilesAndValidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	engine := newEngine(t, cfg, store, &fakeRunner{t: t})

	ctx := context.Background()
	tl := timeline.NewTimeline("promo", timeline.Settings{Width: 1920, Height: 1080, FrameRate: 30})
	track := timeline.Track{
		ID: "v1", Kind: timeline.KindVideo, Enabled: true, Volume: 1, Opacity: 1,
		Clips: []timeline.Clip{
			{ID: "c1", SourceStart: 0, SourceEnd: 10, TimelineStart: 0, Duration: 10, Enabled: true, Volume: 1, Opacity: 1},
		},
	}
	if err := tl.AddTrack(track); err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	tl.RecomputeDuration()

	p, ok := preset.NewCatalog().Lookup("youtube")
	if !ok {
		t.Fatal("builtin youtube preset missing")
	}

	job, err := engine.Enqueue(ctx, batch.EnqueueRequest{
		Timeline:   tl,
		Preset:     p,
		InputPath:  "in.mov",
		OutputPath: "out.mp4",
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if job.Status != batch.StatusPending {
		t.Fatalf("job status = %q, want pending", job.Status)
	}
	if job.TimelineName != "promo" || job.PresetName != "youtube" {
		t.Fatalf("job metadata wrong: %#v", job)
	}
	if job.PlanJSON == "" {
		t.Fatal("plan not compiled into job")
	}

	// A timeline longer than the preset's duration cap must not enqueue.
	long := timeline.NewTimeline("too long", timeline.Settings{Width: 1080, Height: 1920, FrameRate: 30})
	longTrack := track
	longTrack.ID = "v2"
	longTrack.Clips = []timeline.Clip{
		{ID: "c2", SourceStart: 0, SourceEnd: 300, TimelineStart: 0, Duration: 300, Enabled: true, Volume: 1, Opacity: 1},
	}
	if err := long.AddTrack(longTrack); err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	long.RecomputeDuration()

	shorts, ok := preset.NewCatalog().Lookup("youtube-shorts")
	if !ok {
		t.Fatal("builtin youtube-shorts preset missing")
	}
	if _, err := engine.Enqueue(ctx, batch.EnqueueRequest{
		Timeline:   long,
		Preset:     shorts,
		InputPath:  "in.mov",
		OutputPath: "short.mp4",
	}); err == nil {
		t.Fatal("expected duration validation to block enqueue")
	}
}

func waitStart(t *testing.T, started <-chan string) {
	t.Helper()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}
}
