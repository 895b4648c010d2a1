package testsupport

import (
	"context"
	"testing"

	"cutroom/internal/batch"
	"cutroom/internal/config"
)

// MustOpenStore opens a batch.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *batch.Store {
	t.Helper()

	store, err := batch.Open(cfg)
	if err != nil {
		t.Fatalf("batch.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob inserts a pending export job for tests using the provided store.
func NewJob(t testing.TB, store *batch.Store, presetName, outputPath string) *batch.Job {
	t.Helper()

	job, err := store.Add(context.Background(), &batch.Job{
		TimelineName: "Test Timeline",
		PresetName:   presetName,
		InputPath:    "input.mov",
		OutputPath:   outputPath,
		PlanJSON:     `{"args":["-i","input.mov","-y","` + outputPath + `"],"inputPath":"input.mov","outputPath":"` + outputPath + `","durationSeconds":10}`,
	})
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return job
}
