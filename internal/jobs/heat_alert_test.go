package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/notification"
	"kennelbook.io/kennelbook/internal/pkg/logger"
	"kennelbook.io/kennelbook/internal/repository"
	"kennelbook.io/kennelbook/internal/service"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "console")
	m.Run()
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// scanStore stubs the storage surface the scan worker touches.
type scanStore struct {
	service.Storage
	active        []repository.ActiveCycle
	events        map[string][]cycle.Event
	alreadySent   map[string]bool
	sinceByCycle  map[string]time.Time
	listEventsErr error
}

func (s *scanStore) ListActiveCycles(ctx context.Context) ([]repository.ActiveCycle, error) {
	return s.active, nil
}

func (s *scanStore) ListCycleEvents(ctx context.Context, cycleID string) ([]cycle.Event, error) {
	if s.listEventsErr != nil {
		return nil, s.listEventsErr
	}
	return s.events[cycleID], nil
}

func (s *scanStore) HasNotificationSince(ctx context.Context, typ, resourceID string, since time.Time) (bool, error) {
	if s.sinceByCycle != nil {
		s.sinceByCycle[resourceID] = since
	}
	return s.alreadySent[resourceID], nil
}

type recordingSender struct {
	sent []notification.Params
}

func (r *recordingSender) Send(ctx context.Context, p notification.Params) error {
	r.sent = append(r.sent, p)
	return nil
}

func activeCycle(id, dogName string, start time.Time) repository.ActiveCycle {
	return repository.ActiveCycle{
		Record:  &cycle.Record{ID: id, DogID: "dog-" + id, StartDate: start},
		DogName: dogName,
	}
}

func TestHeatAlertWorker_AlertsInWindow(t *testing.T) {
	store := &scanStore{
		active: []repository.ActiveCycle{
			// Day 11 of the cycle: inside the fallback window.
			activeCycle("cyc-fertile", "Luna", date(2024, 1, 1)),
			// Day 3: proestrus, not yet fertile.
			activeCycle("cyc-early", "Maya", date(2024, 1, 9)),
		},
		alreadySent: map[string]bool{},
	}
	sender := &recordingSender{}

	w := NewHeatAlertWorker(store, sender)
	w.now = func() time.Time { return date(2024, 1, 11) }

	require.NoError(t, w.Work(context.Background(), nil))
	require.Len(t, sender.sent, 1)
	require.Equal(t, notification.TypeFertileWindow, sender.sent[0].Type)
	require.Equal(t, "cyc-fertile", sender.sent[0].ResourceID)
	require.Contains(t, sender.sent[0].Title, "Luna")
	require.Contains(t, sender.sent[0].Message, "2024-01-10")
	require.Contains(t, sender.sent[0].Message, "2024-01-15")
}

func TestHeatAlertWorker_LabDataWindow(t *testing.T) {
	v := 4.2
	store := &scanStore{
		active: []repository.ActiveCycle{
			activeCycle("cyc-1", "Luna", date(2024, 1, 1)),
		},
		events: map[string][]cycle.Event{
			"cyc-1": {{
				ID: "ev-1", CycleID: "cyc-1",
				Date: date(2024, 1, 12), Kind: cycle.KindProgesteroneTest,
				ProgesteroneValue: &v,
			}},
		},
		alreadySent:  map[string]bool{},
		sinceByCycle: map[string]time.Time{},
	}
	sender := &recordingSender{}

	w := NewHeatAlertWorker(store, sender)
	w.now = func() time.Time { return date(2024, 1, 13) }

	require.NoError(t, w.Work(context.Background(), nil))
	require.Len(t, sender.sent, 1)
	require.Contains(t, sender.sent[0].Message, "2024-01-12")
	require.Contains(t, sender.sent[0].Message, "2024-01-15")
	// Dedup window opens at the lab-derived window start.
	require.Equal(t, date(2024, 1, 12), store.sinceByCycle["cyc-1"])
}

func TestHeatAlertWorker_Dedup(t *testing.T) {
	store := &scanStore{
		active: []repository.ActiveCycle{
			activeCycle("cyc-1", "Luna", date(2024, 1, 1)),
		},
		alreadySent: map[string]bool{"cyc-1": true},
	}
	sender := &recordingSender{}

	w := NewHeatAlertWorker(store, sender)
	w.now = func() time.Time { return date(2024, 1, 11) }

	require.NoError(t, w.Work(context.Background(), nil))
	require.Empty(t, sender.sent)
}

type cleanupStore struct {
	service.Storage
	cutoff  time.Time
	deleted int64
}

func (s *cleanupStore) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, nil
}

func TestNotificationCleanupWorker(t *testing.T) {
	store := &cleanupStore{deleted: 3}
	w := NewNotificationCleanupWorker(store, 30*24*time.Hour)
	w.now = func() time.Time { return date(2024, 6, 1) }

	require.NoError(t, w.Work(context.Background(), nil))
	require.Equal(t, date(2024, 5, 2), store.cutoff)
}

func TestNotificationCleanupWorker_DefaultRetention(t *testing.T) {
	w := NewNotificationCleanupWorker(&cleanupStore{}, 0)
	require.Equal(t, DefaultNotificationRetention, w.retention)
}
