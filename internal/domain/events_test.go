package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kennelbook.io/kennelbook/internal/pkg/logger"
)

func TestDispatcher_DeliversToAllHandlers(t *testing.T) {
	_ = logger.Init("error", "console")

	d := NewDispatcher()
	var calls []string
	d.Register(ChangeCycleStarted, func(ctx context.Context, c Change) error {
		calls = append(calls, "first:"+c.CycleID)
		return nil
	})
	d.Register(ChangeCycleStarted, func(ctx context.Context, c Change) error {
		calls = append(calls, "second:"+c.CycleID)
		return nil
	})

	err := d.Dispatch(context.Background(), Change{
		Type:       ChangeCycleStarted,
		CycleID:    "c1",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"first:c1", "second:c1"}, calls)
}

func TestDispatcher_BestEffortOnHandlerError(t *testing.T) {
	_ = logger.Init("error", "console")

	d := NewDispatcher()
	var secondRan bool
	d.Register(ChangeEventRecorded, func(ctx context.Context, c Change) error {
		return errors.New("boom")
	})
	d.Register(ChangeEventRecorded, func(ctx context.Context, c Change) error {
		secondRan = true
		return nil
	})

	err := d.Dispatch(context.Background(), Change{Type: ChangeEventRecorded})
	require.Error(t, err)
	require.True(t, secondRan)
}

func TestDispatcher_NoHandlersIsNoop(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Dispatch(context.Background(), Change{Type: ChangeCycleEnded}))
}
