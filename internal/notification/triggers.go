package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/pkg/logger"
)

// Triggers reacts to committed cycle mutations with inbox notifications.
// Two trigger points fire synchronously after the mutation:
//  1. BREEDING_RECORDED — a breeding act was logged on a cycle
//  2. PROGESTERONE_RESULT — a numeric assay result was logged
//
// The third inbox type, FERTILE_WINDOW, comes from the periodic scan job,
// not from a mutation.
type Triggers struct {
	sender Sender
}

// NewTriggers creates the trigger set.
func NewTriggers(sender Sender) *Triggers {
	return &Triggers{sender: sender}
}

// Register wires the triggers into the dispatcher.
func (t *Triggers) Register(d *domain.Dispatcher) {
	d.Register(domain.ChangeBreedingRecorded, t.onBreedingRecorded)
	d.Register(domain.ChangeProgesteroneResult, t.onProgesteroneResult)
}

func (t *Triggers) onBreedingRecorded(ctx context.Context, change domain.Change) error {
	msg := fmt.Sprintf("A breeding was recorded for %s", dogLabel(change))
	if change.Detail != "" {
		msg += ": " + change.Detail
	}

	err := t.sender.Send(ctx, Params{
		Type:         TypeBreedingRecorded,
		Title:        fmt.Sprintf("Breeding recorded for %s", dogLabel(change)),
		Message:      msg,
		ResourceType: "cycle",
		ResourceID:   change.CycleID,
	})
	if err != nil {
		logger.Error("failed to send BREEDING_RECORDED notification",
			zap.String("cycle_id", change.CycleID),
			zap.Error(err),
		)
	}
	return err
}

func (t *Triggers) onProgesteroneResult(ctx context.Context, change domain.Change) error {
	msg := fmt.Sprintf("New progesterone result for %s", dogLabel(change))
	if change.Detail != "" {
		msg += ": " + change.Detail
	}

	err := t.sender.Send(ctx, Params{
		Type:         TypeProgesteroneResult,
		Title:        fmt.Sprintf("Progesterone result for %s", dogLabel(change)),
		Message:      msg,
		ResourceType: "cycle",
		ResourceID:   change.CycleID,
	})
	if err != nil {
		logger.Error("failed to send PROGESTERONE_RESULT notification",
			zap.String("cycle_id", change.CycleID),
			zap.Error(err),
		)
	}
	return err
}

func dogLabel(change domain.Change) string {
	if change.DogName != "" {
		return change.DogName
	}
	return "dog " + change.DogID
}
