package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/pkg/logger"
	"kennelbook.io/kennelbook/internal/service"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "console")
	m.Run()
}

type recordingSender struct {
	sent []Params
}

func (r *recordingSender) Send(ctx context.Context, p Params) error {
	r.sent = append(r.sent, p)
	return nil
}

func TestTriggers_OnDispatch(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := domain.NewDispatcher()
	NewTriggers(sender).Register(dispatcher)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, domain.Change{
		Type:    domain.ChangeBreedingRecorded,
		CycleID: "cyc-1",
		DogID:   "dog-1",
		DogName: "Luna",
		Detail:  "Champion Ash (Natural)",
	})
	require.NoError(t, err)

	err = dispatcher.Dispatch(ctx, domain.Change{
		Type:    domain.ChangeProgesteroneResult,
		CycleID: "cyc-1",
		DogID:   "dog-1",
		DogName: "Luna",
		Detail:  "6.1 ng/mL - Optimal breeding",
	})
	require.NoError(t, err)

	// Event types without a trigger stay silent.
	err = dispatcher.Dispatch(ctx, domain.Change{
		Type:    domain.ChangeEventRecorded,
		CycleID: "cyc-1",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)

	require.Equal(t, TypeBreedingRecorded, sender.sent[0].Type)
	require.Equal(t, "Breeding recorded for Luna", sender.sent[0].Title)
	require.Contains(t, sender.sent[0].Message, "Champion Ash")
	require.Equal(t, "cycle", sender.sent[0].ResourceType)
	require.Equal(t, "cyc-1", sender.sent[0].ResourceID)

	require.Equal(t, TypeProgesteroneResult, sender.sent[1].Type)
	require.Contains(t, sender.sent[1].Message, "6.1 ng/mL")
}

func TestTriggers_FallbackDogLabel(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := domain.NewDispatcher()
	NewTriggers(sender).Register(dispatcher)

	err := dispatcher.Dispatch(context.Background(), domain.Change{
		Type:    domain.ChangeBreedingRecorded,
		CycleID: "cyc-1",
		DogID:   "dog-1",
	})
	require.NoError(t, err)
	require.Contains(t, sender.sent[0].Title, "dog dog-1")
}

// stubStorage implements only the method InboxSender uses.
type stubStorage struct {
	service.Storage
	inserted []*domain.Notification
}

func (s *stubStorage) InsertNotification(ctx context.Context, n *domain.Notification) error {
	s.inserted = append(s.inserted, n)
	return nil
}

func TestInboxSender(t *testing.T) {
	store := &stubStorage{}
	sender := NewInboxSender(store)
	ctx := context.Background()

	err := sender.Send(ctx, Params{Type: TypeFertileWindow, Title: "t"})
	require.Error(t, err) // message required

	err = sender.Send(ctx, Params{
		Type:         TypeFertileWindow,
		Title:        "Luna is in her fertile window",
		Message:      "Optimal breeding window is open",
		ResourceType: "cycle",
		ResourceID:   "cyc-1",
	})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.NotEmpty(t, store.inserted[0].ID)
	require.Equal(t, TypeFertileWindow, store.inserted[0].Type)
	require.False(t, store.inserted[0].Read)
}
