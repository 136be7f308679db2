// Package jobs defines River Queue job types for background processing.
//
// Two periodic jobs run in Kennelbook: the fertile-window scan and inbox
// cleanup. Both are idempotent; re-running a missed period is harmless.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/notification"
	"kennelbook.io/kennelbook/internal/pkg/logger"
	"kennelbook.io/kennelbook/internal/repository"
	"kennelbook.io/kennelbook/internal/service"
)

// HeatAlertArgs is the periodic scan that notifies the operator about every
// active cycle currently inside its fertile window.
type HeatAlertArgs struct{}

// Kind returns the job kind identifier for the fertile-window scan.
func (HeatAlertArgs) Kind() string { return "heat_alert" }

// InsertOpts deduplicates scans enqueued within the same hour.
func (HeatAlertArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByPeriod: time.Hour,
			ByQueue:  true,
			ByArgs:   true,
		},
	}
}

// HeatAlertWorker evaluates every active cycle's fertile window from its
// event log and sends at most one FERTILE_WINDOW notification per cycle per
// window.
type HeatAlertWorker struct {
	river.WorkerDefaults[HeatAlertArgs]
	store  service.Storage
	sender notification.Sender
	now    func() time.Time
}

// NewHeatAlertWorker creates the scan worker.
func NewHeatAlertWorker(store service.Storage, sender notification.Sender) *HeatAlertWorker {
	return &HeatAlertWorker{
		store:  store,
		sender: sender,
		now:    time.Now,
	}
}

// Work scans active cycles. A failing cycle is logged and skipped; the scan
// always covers the rest.
func (w *HeatAlertWorker) Work(ctx context.Context, _ *river.Job[HeatAlertArgs]) error {
	if w == nil || w.store == nil {
		return fmt.Errorf("heat alert worker is not initialized")
	}

	active, err := w.store.ListActiveCycles(ctx)
	if err != nil {
		return fmt.Errorf("list active cycles: %w", err)
	}

	now := w.now()
	var alerted, failed int
	for _, ac := range active {
		ok, err := w.alertIfFertile(ctx, ac, now)
		if err != nil {
			failed++
			logger.Warn("fertile window alert failed",
				zap.String("cycle_id", ac.Record.ID),
				zap.Error(err),
			)
			continue
		}
		if ok {
			alerted++
		}
	}

	logger.Info("fertile window scan completed",
		zap.Int("active_cycles", len(active)),
		zap.Int("alerted", alerted),
		zap.Int("failed", failed),
	)
	return nil
}

func (w *HeatAlertWorker) alertIfFertile(ctx context.Context, ac repository.ActiveCycle, now time.Time) (bool, error) {
	rec := ac.Record
	events, err := w.store.ListCycleEvents(ctx, rec.ID)
	if err != nil {
		return false, fmt.Errorf("list events: %w", err)
	}
	if !cycle.InFertileWindow(*rec, events, now) {
		return false, nil
	}

	p := cycle.PredictFertility(*rec, events, now)
	windowStart := cycle.DateOnly(rec.StartDate)
	if p.OptimalBreedingStart != nil {
		windowStart = *p.OptimalBreedingStart
	}

	// One alert per cycle per window: skip if one exists since the window
	// opened.
	already, err := w.store.HasNotificationSince(ctx,
		notification.TypeFertileWindow, rec.ID, windowStart)
	if err != nil {
		return false, fmt.Errorf("check existing alert: %w", err)
	}
	if already {
		return false, nil
	}

	msg := fmt.Sprintf("%s is in her fertile window", ac.DogName)
	if p.OptimalBreedingStart != nil && p.OptimalBreedingEnd != nil {
		msg = fmt.Sprintf("%s: optimal breeding %s through %s", msg,
			cycle.FormatDate(*p.OptimalBreedingStart),
			cycle.FormatDate(*p.OptimalBreedingEnd))
	}

	err = w.sender.Send(ctx, notification.Params{
		Type:         notification.TypeFertileWindow,
		Title:        fmt.Sprintf("%s is in her fertile window", ac.DogName),
		Message:      msg,
		ResourceType: "cycle",
		ResourceID:   rec.ID,
	})
	if err != nil {
		return false, fmt.Errorf("send alert: %w", err)
	}
	return true, nil
}
