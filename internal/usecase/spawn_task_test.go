package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/loom/internal/domain"
	"github.com/runoshun/loom/internal/testutil"
)

func TestSpawnTask_AssignsAndDelivers(t *testing.T) {
	o := newOrchestrator()
	task := pendingTask("t-1")
	task.Description = "details"
	o.seedGoal("g-1", task)
	o.store.Doc.Goal("g-1").Worktree = &domain.Worktree{Path: "/tmp/wt", BranchName: "goal/test"}

	out, err := o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.SessionKey, "loom-1-"), out.SessionKey)
	assert.Equal(t, out.SessionKey, task.SessionKey)
	assert.Equal(t, domain.TaskInProgress, task.Status)

	require.Len(t, o.transport.Delivered, 1)
	got := o.transport.Delivered[0]
	assert.Equal(t, "work on t-1", got.Text)
	assert.Equal(t, "details", got.Description)
	assert.Equal(t, "/tmp/wt", got.WorkDir)
	assert.Contains(t, got.Directive, "Autonomy: plan.")
	assert.Contains(t, got.PlanRef, "goal g-1")

	binding, ok := o.store.Doc.SessionIndex[out.SessionKey]
	require.True(t, ok)
	assert.Equal(t, "g-1", binding.GoalID)
}

func TestSpawnTask_SecondSpawnFails(t *testing.T) {
	o := newOrchestrator()
	o.seedGoal("g-1", pendingTask("t-1"))
	ctx := context.Background()

	first, err := o.spawn.Execute(ctx, SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	require.NoError(t, err)

	_, err = o.spawn.Execute(ctx, SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)
	assert.Contains(t, err.Error(), first.SessionKey)
	assert.Len(t, o.transport.Delivered, 1, "failed spawn must not deliver")
}

func TestSpawnTask_DeliveryFailureRollsBack(t *testing.T) {
	o := newOrchestrator()
	o.seedGoal("g-1", pendingTask("t-1"))
	o.transport.DeliverErr = errors.New("session unreachable")

	_, err := o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	require.Error(t, err)

	task := o.store.Doc.Goal("g-1").Task("t-1")
	assert.False(t, task.IsAssigned(), "failed spawn leaves the task unassigned")
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.Empty(t, o.store.Doc.SessionIndex)

	// And the task is spawnable again once delivery recovers.
	o.transport.DeliverErr = nil
	_, err = o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	assert.NoError(t, err)
}

func TestSpawnTask_AutonomyResolution(t *testing.T) {
	o := newOrchestrator()
	o.seedGoal("g-1", pendingTask("t-1"))
	o.store.Doc.Strand("strand-1").AutonomyMode = string(domain.AutonomySupervised)
	o.store.Doc.Goal("g-1").AutonomyMode = string(domain.AutonomyStep)

	// Goal mode wins over strand mode.
	out, err := o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	require.NoError(t, err)
	assert.Contains(t, out.Assignment.Directive, "Autonomy: step.")

	// Task mode wins over both.
	task := pendingTask("t-2")
	task.AutonomyMode = string(domain.AutonomyFull)
	goal := o.store.Doc.Goal("g-1")
	goal.Tasks = append(goal.Tasks, task)

	out, err = o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-2"})
	require.NoError(t, err)
	assert.Contains(t, out.Assignment.Directive, "Autonomy: full.")
}

func TestSpawnTask_DoneTaskRejected(t *testing.T) {
	o := newOrchestrator()
	o.seedGoal("g-1", pendingTask("t-1"))
	ctx := context.Background()

	// A task can complete without ever being spawned; spawning it after
	// that must be rejected, not hand out finished work.
	_, err := o.complete.Execute(ctx, CompleteTaskInput{GoalID: "g-1", TaskID: "t-1", Summary: "done early"})
	require.NoError(t, err)

	_, err = o.spawn.Execute(ctx, SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	assert.ErrorIs(t, err, domain.ErrTaskAlreadyDone)
	assert.Empty(t, o.transport.Delivered, "done task must not be delivered")

	task := o.store.Doc.Goal("g-1").Task("t-1")
	assert.True(t, task.Done)
	assert.Equal(t, domain.TaskDone, task.Status)
	assert.Empty(t, task.SessionKey)
	assert.Equal(t, domain.GoalDone, o.store.Doc.Goal("g-1").Status)
}

func TestSpawnTask_ConfiguredDefaultMode(t *testing.T) {
	store := testutil.NewMockStore()
	transport := &testutil.MockTransport{}
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	spawn := NewSpawnTask(store, transport, clock, nil, "full")

	store.Doc.Strands = append(store.Doc.Strands, &domain.Strand{ID: "strand-1", Name: "test"})
	store.Doc.Goals = append(store.Doc.Goals, &domain.Goal{
		ID:       "g-1",
		StrandID: "strand-1",
		Status:   domain.GoalActive,
		Tasks:    []*domain.Task{pendingTask("t-1"), pendingTask("t-2")},
	})

	// No overrides anywhere: the configured default applies.
	out, err := spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-1"})
	require.NoError(t, err)
	assert.Contains(t, out.Assignment.Directive, "Autonomy: full.")

	// A strand override still wins over the configured default.
	store.Doc.Strand("strand-1").AutonomyMode = string(domain.AutonomySupervised)
	out, err = spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-2"})
	require.NoError(t, err)
	assert.Contains(t, out.Assignment.Directive, "Autonomy: supervised.")
}

func TestSpawnTask_NotFound(t *testing.T) {
	o := newOrchestrator()
	o.seedGoal("g-1", pendingTask("t-1"))

	_, err := o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-x", TaskID: "t-1"})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)

	_, err = o.spawn.Execute(context.Background(), SpawnTaskInput{GoalID: "g-1", TaskID: "t-x"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
