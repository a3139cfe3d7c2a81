package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/convo-eval/internal/domain/model"
)

func TestJobRegistry_Create_SetsInitialState(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})

	job := reg.Create(CreateJobParams{
		Params:             model.JobParams{LookbackDays: 7},
		TotalConversations: 3,
		TotalMetrics:       4,
	})

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, model.JobStatusStarted, job.Status)
	assert.Equal(t, 3, job.TotalConversations)
	assert.Equal(t, 4, job.TotalMetrics)
	assert.Equal(t, 12, job.TotalEvaluations)
	assert.Equal(t, model.Progress{Total: 12}, job.Progress)
	assert.Nil(t, job.EndTime)
	assert.False(t, job.StartTime.IsZero())
}

func TestJobRegistry_Get_ReturnsSnapshot(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	got, ok := reg.Get(job.ID)
	require.True(t, ok)

	// Mutating the snapshot must not leak into registry state.
	got.Status = model.JobStatusFailed
	got.Progress.Completed = 99

	again, ok := reg.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, model.JobStatusStarted, again.Status)
	assert.Equal(t, 0, again.Progress.Completed)
}

func TestJobRegistry_Get_UnknownID(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})

	_, ok := reg.Get("nope")
	assert.False(t, ok)
}

func TestJobRegistry_SetStatus_StampsEndTimeOnTerminal(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	reg.SetStatus(job.ID, model.JobStatusRunning)
	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusRunning, got.Status)
	assert.Nil(t, got.EndTime)

	reg.SetStatus(job.ID, model.JobStatusCompleted)
	got, _ = reg.Get(job.ID)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	require.NotNil(t, got.EndTime)
}

func TestJobRegistry_SetStatus_TerminalIsSink(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	require.True(t, reg.Stop(job.ID))

	// No transition out of a terminal state, not even to another terminal one.
	reg.SetStatus(job.ID, model.JobStatusRunning)
	reg.SetStatus(job.ID, model.JobStatusCompleted)

	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusStopped, got.Status)
}

func TestJobRegistry_AddProgress_FinalizesCompleted(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 2, TotalMetrics: 2})
	reg.SetStatus(job.ID, model.JobStatusRunning)

	reg.AddProgress(job.ID, 3, 0)
	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusRunning, got.Status)

	reg.AddProgress(job.ID, 1, 0)
	got, _ = reg.Get(job.ID)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, model.Progress{Total: 4, Completed: 4, Failed: 0}, got.Progress)
	require.NotNil(t, got.EndTime)
}

func TestJobRegistry_AddProgress_FinalizesCompletedWithErrors(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 3})
	reg.SetStatus(job.ID, model.JobStatusRunning)

	reg.AddProgress(job.ID, 2, 1)

	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusCompletedWithErrors, got.Status)
	assert.Equal(t, model.Progress{Total: 3, Completed: 2, Failed: 1}, got.Progress)
}

func TestJobRegistry_AddProgress_ChunkingEquivalence(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})

	chunked := reg.Create(CreateJobParams{TotalConversations: 2, TotalMetrics: 3})
	oneShot := reg.Create(CreateJobParams{TotalConversations: 2, TotalMetrics: 3})

	reg.AddProgress(chunked.ID, 2, 0)
	reg.AddProgress(chunked.ID, 1, 1)
	reg.AddProgress(chunked.ID, 1, 1)

	reg.AddProgress(oneShot.ID, 4, 2)

	a, _ := reg.Get(chunked.ID)
	b, _ := reg.Get(oneShot.ID)
	assert.Equal(t, b.Status, a.Status)
	assert.Equal(t, b.Progress, a.Progress)
}

func TestJobRegistry_AddProgress_NeverResurrectsStoppedJob(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 2})
	reg.SetStatus(job.ID, model.JobStatusRunning)
	require.True(t, reg.Stop(job.ID))

	// Late worker batches still accumulate counters but must not flip status.
	reg.AddProgress(job.ID, 2, 0)

	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusStopped, got.Status)
	assert.Equal(t, 2, got.Progress.Completed)
}

func TestJobRegistry_AddProgress_ConcurrentFinalizeOnce(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	const workers = 100
	job := reg.Create(CreateJobParams{TotalConversations: workers, TotalMetrics: 1})
	reg.SetStatus(job.ID, model.JobStatusRunning)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.AddProgress(job.ID, 1, 0)
		}()
	}
	wg.Wait()

	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, workers, got.Progress.Completed)
	require.NotNil(t, got.EndTime)
}

func TestJobRegistry_Fail_RecordsMessage(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	reg.Fail(job.ID, "warehouse unavailable")

	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusFailed, got.Status)
	assert.Equal(t, "warehouse unavailable", got.Error)
	require.NotNil(t, got.EndTime)
}

func TestJobRegistry_Fail_IgnoredOnTerminal(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})
	job := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	reg.SetStatus(job.ID, model.JobStatusCompleted)

	reg.Fail(job.ID, "too late")

	got, _ := reg.Get(job.ID)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Empty(t, got.Error)
}

func TestJobRegistry_Stop_OnlyFromActiveStates(t *testing.T) {
	reg := NewJobRegistry(JobRegistryOptions{})

	started := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	assert.True(t, reg.Stop(started.ID))

	running := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	reg.SetStatus(running.ID, model.JobStatusRunning)
	assert.True(t, reg.Stop(running.ID))

	completed := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	reg.SetStatus(completed.ID, model.JobStatusCompleted)
	assert.False(t, reg.Stop(completed.ID))

	assert.False(t, reg.Stop("unknown-id"))
}

func TestJobRegistry_List_NewestFirstAndSinceFilter(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	reg := NewJobRegistry(JobRegistryOptions{Now: func() time.Time {
		now := clock
		clock = clock.Add(time.Hour)
		return now
	}})

	first := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	second := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})
	third := reg.Create(CreateJobParams{TotalConversations: 1, TotalMetrics: 1})

	all := reg.List(nil)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)

	cutoff := base.Add(time.Hour)
	filtered := reg.List(&cutoff)
	require.Len(t, filtered, 2)
	assert.Equal(t, third.ID, filtered[0].ID)
	assert.Equal(t, second.ID, filtered[1].ID)

	future := base.Add(48 * time.Hour)
	assert.Empty(t, reg.List(&future))
}
