package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/domain"
	apperrors "kennelbook.io/kennelbook/internal/pkg/errors"
	"kennelbook.io/kennelbook/internal/pkg/logger"
)

// CycleService owns the heat cycle lifecycle. Every mutation follows the
// same shape: lock the cycle row, apply the change, recompute the full
// derived snapshot from the event log, and persist it in the same
// transaction. Committed mutations are announced on the dispatcher.
type CycleService struct {
	store      Storage
	dispatcher *domain.Dispatcher
	now        func() time.Time
}

// NewCycleService creates a CycleService.
func NewCycleService(store Storage, dispatcher *domain.Dispatcher) *CycleService {
	return &CycleService{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func cycleNotFound(id string) *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeCycleNotFound, "cycle not found").
		WithParams(map[string]interface{}{"cycle_id": id})
}

func cycleClosed(id string) *apperrors.AppError {
	return apperrors.Conflict(apperrors.CodeCycleClosed,
		"cycle is closed; its record is frozen").
		WithParams(map[string]interface{}{"cycle_id": id})
}

// StartCycle opens a new heat cycle for a female. At most one cycle per dog
// can be active; the check runs inside the transaction and a partial unique
// index backs it up.
func (s *CycleService) StartCycle(ctx context.Context, dogID string, startDate time.Time, notes string) (*cycle.Record, error) {
	dog, err := s.store.GetDog(ctx, dogID)
	if err != nil {
		return nil, mapNotFound(err, dogNotFound(dogID))
	}
	if dog.Sex != domain.SexFemale {
		return nil, apperrors.ErrDogNotFemale(dogID)
	}
	if startDate.IsZero() {
		return nil, apperrors.ErrCycleDatesInvalid("start date is required")
	}

	rec := &cycle.Record{
		ID:        uuid.NewString(),
		DogID:     dogID,
		StartDate: cycle.DateOnly(startDate),
		Notes:     notes,
	}
	rec.Derived = cycle.Recompute(*rec, nil, s.now())

	err = s.store.WithTx(ctx, func(tx Storage) error {
		active, err := tx.FindActiveCycle(ctx, dogID)
		if err == nil {
			return apperrors.ErrCycleAlreadyActive(dogID, active.ID)
		}
		if mapped := mapNotFound(err, nil); mapped != nil {
			return mapped
		}
		return tx.CreateCycle(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("cycle started",
		zap.String("cycle_id", rec.ID),
		zap.String("dog_id", dogID),
		zap.String("start_date", cycle.FormatDate(rec.StartDate)),
	)
	s.announce(ctx, domain.Change{
		Type:    domain.ChangeCycleStarted,
		CycleID: rec.ID,
		DogID:   dogID,
		DogName: dog.Name,
	})
	return rec, nil
}

// EventInput is the payload for recording one cycle event.
type EventInput struct {
	Date              time.Time
	TimeOfDay         string
	Kind              cycle.EventKind
	ProgesteroneValue *float64
	ProgesteroneUnit  string
	VetClinic         string
	SireID            string
	SireName          string
	Notes             string
}

// AddEvent appends an event to an active cycle's log and recomputes the
// derived snapshot from the full log.
func (s *CycleService) AddEvent(ctx context.Context, cycleID string, in EventInput) (*cycle.Event, *cycle.Record, error) {
	if !in.Kind.Valid() {
		return nil, nil, apperrors.BadRequest(apperrors.CodeInvalidEventKind,
			fmt.Sprintf("unknown event kind %q", in.Kind))
	}
	if in.Date.IsZero() {
		return nil, nil, apperrors.BadRequest(apperrors.CodeValidationFailed,
			"event date is required")
	}

	ev := &cycle.Event{
		ID:                uuid.NewString(),
		CycleID:           cycleID,
		Date:              cycle.DateOnly(in.Date),
		TimeOfDay:         in.TimeOfDay,
		Kind:              in.Kind,
		ProgesteroneValue: in.ProgesteroneValue,
		ProgesteroneUnit:  in.ProgesteroneUnit,
		VetClinic:         in.VetClinic,
		SireID:            in.SireID,
		SireName:          in.SireName,
		Notes:             in.Notes,
	}

	var rec *cycle.Record
	err := s.store.WithTx(ctx, func(tx Storage) error {
		var err error
		rec, err = tx.GetCycleForUpdate(ctx, cycleID)
		if err != nil {
			return mapNotFound(err, cycleNotFound(cycleID))
		}
		if !rec.Active() {
			return cycleClosed(cycleID)
		}
		if err := tx.InsertCycleEvent(ctx, ev); err != nil {
			return err
		}
		events, err := tx.ListCycleEvents(ctx, cycleID)
		if err != nil {
			return err
		}
		rec.Derived = cycle.Recompute(*rec, events, s.now())
		return tx.UpdateCycleDerived(ctx, rec)
	})
	if err != nil {
		return nil, nil, err
	}

	s.announceEvent(ctx, rec, ev)
	return ev, rec, nil
}

// RemoveEvent deletes an event from an active cycle's log and recomputes the
// derived snapshot without it.
func (s *CycleService) RemoveEvent(ctx context.Context, cycleID, eventID string) (*cycle.Record, error) {
	var rec *cycle.Record
	err := s.store.WithTx(ctx, func(tx Storage) error {
		var err error
		rec, err = tx.GetCycleForUpdate(ctx, cycleID)
		if err != nil {
			return mapNotFound(err, cycleNotFound(cycleID))
		}
		if !rec.Active() {
			return cycleClosed(cycleID)
		}
		if err := tx.DeleteCycleEvent(ctx, cycleID, eventID); err != nil {
			return mapNotFound(err,
				apperrors.NotFound(apperrors.CodeCycleEventNotFound, "event not found"))
		}
		events, err := tx.ListCycleEvents(ctx, cycleID)
		if err != nil {
			return err
		}
		rec.Derived = cycle.Recompute(*rec, events, s.now())
		return tx.UpdateCycleDerived(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, domain.Change{
		Type:    domain.ChangeEventRemoved,
		CycleID: cycleID,
		DogID:   rec.DogID,
		EventID: eventID,
	})
	return rec, nil
}

// EndCycle closes an active cycle. The derived snapshot computed here is
// final: closed cycles are anestrus with a fixed length and are never
// recomputed again.
func (s *CycleService) EndCycle(ctx context.Context, cycleID string, endDate time.Time) (*cycle.Record, error) {
	if endDate.IsZero() {
		return nil, apperrors.ErrCycleDatesInvalid("end date is required")
	}

	var rec *cycle.Record
	err := s.store.WithTx(ctx, func(tx Storage) error {
		var err error
		rec, err = tx.GetCycleForUpdate(ctx, cycleID)
		if err != nil {
			return mapNotFound(err, cycleNotFound(cycleID))
		}
		if !rec.Active() {
			return cycleClosed(cycleID)
		}
		end := cycle.DateOnly(endDate)
		if end.Before(cycle.DateOnly(rec.StartDate)) {
			return apperrors.ErrCycleDatesInvalid("end date cannot be before start date")
		}
		rec.EndDate = &end
		events, err := tx.ListCycleEvents(ctx, cycleID)
		if err != nil {
			return err
		}
		rec.Derived = cycle.Recompute(*rec, events, s.now())
		return tx.UpdateCycleDerived(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("cycle ended",
		zap.String("cycle_id", cycleID),
		zap.String("dog_id", rec.DogID),
		zap.Intp("length_days", rec.Derived.CycleLengthDays),
	)
	s.announce(ctx, domain.Change{
		Type:    domain.ChangeCycleEnded,
		CycleID: cycleID,
		DogID:   rec.DogID,
	})
	return rec, nil
}

// UpdateNotes replaces a cycle's free-text notes. Allowed on closed cycles;
// notes are not derived state.
func (s *CycleService) UpdateNotes(ctx context.Context, cycleID, notes string) (*cycle.Record, error) {
	var rec *cycle.Record
	err := s.store.WithTx(ctx, func(tx Storage) error {
		var err error
		rec, err = tx.GetCycleForUpdate(ctx, cycleID)
		if err != nil {
			return mapNotFound(err, cycleNotFound(cycleID))
		}
		rec.Notes = notes
		return tx.UpdateCycleDerived(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CycleDetail is the full read-side view of one cycle.
type CycleDetail struct {
	Record   *cycle.Record       `json:"record"`
	Timeline []cycle.TimelineRow `json:"timeline"`
}

// GetCycle returns a cycle with its chronological timeline. Active cycles
// re-derive phase and window liveness against the current time; closed
// cycles serve their frozen snapshot.
func (s *CycleService) GetCycle(ctx context.Context, cycleID string) (*CycleDetail, error) {
	rec, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, mapNotFound(err, cycleNotFound(cycleID))
	}
	events, err := s.store.ListCycleEvents(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if rec.Active() {
		rec.Derived = cycle.Recompute(*rec, events, s.now())
	}
	return &CycleDetail{
		Record:   rec,
		Timeline: cycle.TimelineRows(events),
	}, nil
}

// ListByDog returns a dog's cycles newest first, with active cycles
// re-derived against the current time.
func (s *CycleService) ListByDog(ctx context.Context, dogID string) ([]*cycle.Record, error) {
	if _, err := s.store.GetDog(ctx, dogID); err != nil {
		return nil, mapNotFound(err, dogNotFound(dogID))
	}
	recs, err := s.store.ListCyclesByDog(ctx, dogID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if !rec.Active() {
			continue
		}
		events, err := s.store.ListCycleEvents(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Derived = cycle.Recompute(*rec, events, s.now())
	}
	return recs, nil
}

// DeleteCycle removes a cycle and its event log.
func (s *CycleService) DeleteCycle(ctx context.Context, cycleID string) error {
	return mapNotFound(s.store.DeleteCycle(ctx, cycleID), cycleNotFound(cycleID))
}

// announce dispatches a committed change. Handler failures are logged by
// the dispatcher; mutations never fail because a reaction did.
func (s *CycleService) announce(ctx context.Context, change domain.Change) {
	if s.dispatcher == nil {
		return
	}
	change.OccurredAt = s.now()
	_ = s.dispatcher.Dispatch(ctx, change)
}

// announceEvent emits EVENT_RECORDED plus the specific breeding or assay
// change when the event warrants one.
func (s *CycleService) announceEvent(ctx context.Context, rec *cycle.Record, ev *cycle.Event) {
	dogName := ""
	if dog, err := s.store.GetDog(ctx, rec.DogID); err == nil {
		dogName = dog.Name
	}

	base := domain.Change{
		CycleID: rec.ID,
		DogID:   rec.DogID,
		DogName: dogName,
		EventID: ev.ID,
	}

	recorded := base
	recorded.Type = domain.ChangeEventRecorded
	recorded.Detail = ev.Kind.Label()
	s.announce(ctx, recorded)

	if ev.Kind.IsBreeding() {
		bred := base
		bred.Type = domain.ChangeBreedingRecorded
		bred.Detail = breedingDetail(ev)
		s.announce(ctx, bred)
	}
	if ev.HasProgesteroneValue() {
		assay := base
		assay.Type = domain.ChangeProgesteroneResult
		assay.Detail = assayDetail(ev)
		s.announce(ctx, assay)
	}
}

func breedingDetail(ev *cycle.Event) string {
	if ev.SireName != "" {
		return fmt.Sprintf("%s (%s)", ev.SireName, ev.Kind.BreedingMethod())
	}
	return ev.Kind.BreedingMethod()
}

func assayDetail(ev *cycle.Event) string {
	unit := ev.ProgesteroneUnit
	if unit == "" {
		unit = "ng/mL"
	}
	detail := fmt.Sprintf("%g %s", *ev.ProgesteroneValue, unit)
	if band, ok := cycle.InterpretProgesterone(*ev.ProgesteroneValue); ok {
		detail += " - " + band.Stage
	}
	return detail
}
