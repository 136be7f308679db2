package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/pkg/logger"
	"kennelbook.io/kennelbook/internal/pkg/worker"
)

// ExportService renders cycle records as CSV. Single-cycle exports are one
// query; full-history exports fan out event loading across the export pool.
type ExportService struct {
	store Storage
	pools *worker.Pools
	now   func() time.Time
}

// NewExportService creates an ExportService. pools may be nil, in which case
// history exports load sequentially.
func NewExportService(store Storage, pools *worker.Pools) *ExportService {
	return &ExportService{store: store, pools: pools, now: time.Now}
}

// Export is a rendered CSV document plus its suggested filename.
type Export struct {
	Filename string
	CSV      string
}

// ExportCycle renders one cycle as a single-row CSV.
func (s *ExportService) ExportCycle(ctx context.Context, cycleID string) (*Export, error) {
	rec, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, mapNotFound(err, cycleNotFound(cycleID))
	}
	dog, err := s.store.GetDog(ctx, rec.DogID)
	if err != nil {
		return nil, mapNotFound(err, dogNotFound(rec.DogID))
	}
	events, err := s.store.ListCycleEvents(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if rec.Active() {
		rec.Derived = cycle.Recompute(*rec, events, s.now())
	}

	matrix := cycle.ExportRows(dog.Name, []cycle.Record{*rec},
		map[string][]cycle.Event{rec.ID: events})
	text, err := cycle.EncodeCSV(matrix)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename: fmt.Sprintf("%s-cycle-%s.csv", slugify(dog.Name), cycle.FormatDate(rec.StartDate)),
		CSV:      text,
	}, nil
}

// ExportDogHistory renders every cycle of one dog as a CSV, one row per
// cycle. Closed cycles carry their frozen derived values.
func (s *ExportService) ExportDogHistory(ctx context.Context, dogID string) (*Export, error) {
	dog, err := s.store.GetDog(ctx, dogID)
	if err != nil {
		return nil, mapNotFound(err, dogNotFound(dogID))
	}
	recs, err := s.store.ListCyclesByDog(ctx, dogID)
	if err != nil {
		return nil, err
	}

	eventsByCycle, err := s.loadEvents(ctx, recs)
	if err != nil {
		return nil, err
	}

	values := make([]cycle.Record, 0, len(recs))
	for _, r := range recs {
		v := *r
		if v.Active() {
			v.Derived = cycle.Recompute(v, eventsByCycle[v.ID], s.now())
		}
		values = append(values, v)
	}
	matrix := cycle.ExportRows(dog.Name, values, eventsByCycle)
	text, err := cycle.EncodeCSV(matrix)
	if err != nil {
		return nil, err
	}

	logger.Debug("exported cycle history",
		zap.String("dog_id", dogID),
		zap.Int("cycles", len(recs)),
	)
	return &Export{
		Filename: fmt.Sprintf("%s-cycle-history.csv", slugify(dog.Name)),
		CSV:      text,
	}, nil
}

// loadEvents fetches each cycle's event log, in parallel when the export
// pool is available.
func (s *ExportService) loadEvents(ctx context.Context, recs []*cycle.Record) (map[string][]cycle.Event, error) {
	eventsByCycle := make(map[string][]cycle.Event, len(recs))

	if s.pools == nil {
		for _, r := range recs {
			events, err := s.store.ListCycleEvents(ctx, r.ID)
			if err != nil {
				return nil, err
			}
			eventsByCycle[r.ID] = events
		}
		return eventsByCycle, nil
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	done := make(chan struct{}, len(recs))
	submitted := 0
	for _, r := range recs {
		cycleID := r.ID
		err := s.pools.Export.Submit(ctx, func(ctx context.Context) {
			defer func() { done <- struct{}{} }()
			events, err := s.store.ListCycleEvents(ctx, cycleID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			eventsByCycle[cycleID] = events
		})
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			continue
		}
		submitted++
	}
	for i := 0; i < submitted; i++ {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return eventsByCycle, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	if s == "" {
		return "dog"
	}
	return s
}
