package repository

import (
	"context"
	"fmt"
	"time"

	"kennelbook.io/kennelbook/internal/cycle"
)

const cycleColumns = `id, dog_id, start_date, end_date, notes,
	standing_heat_start, standing_heat_end, ovulation_date,
	optimal_breeding_start, optimal_breeding_end, expected_due_date,
	next_heat_estimate, current_phase, cycle_length_days, is_bred`

func scanCycle(row interface{ Scan(dest ...any) error }) (*cycle.Record, error) {
	var r cycle.Record
	err := row.Scan(
		&r.ID, &r.DogID, &r.StartDate, &r.EndDate, &r.Notes,
		&r.Derived.StandingHeatStart, &r.Derived.StandingHeatEnd,
		&r.Derived.OvulationDate, &r.Derived.OptimalBreedingStart,
		&r.Derived.OptimalBreedingEnd, &r.Derived.ExpectedDueDate,
		&r.Derived.NextHeatEstimate, &r.Derived.CurrentPhase,
		&r.Derived.CycleLengthDays, &r.Derived.IsBred,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// CreateCycle inserts a new heat cycle with its initial derived snapshot.
func (s *Store) CreateCycle(ctx context.Context, r *cycle.Record) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(ctx, `
		INSERT INTO heat_cycles (id, dog_id, start_date, end_date, notes,
			standing_heat_start, standing_heat_end, ovulation_date,
			optimal_breeding_start, optimal_breeding_end, expected_due_date,
			next_heat_estimate, current_phase, cycle_length_days, is_bred,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		r.ID, r.DogID, r.StartDate, r.EndDate, r.Notes,
		r.Derived.StandingHeatStart, r.Derived.StandingHeatEnd,
		r.Derived.OvulationDate, r.Derived.OptimalBreedingStart,
		r.Derived.OptimalBreedingEnd, r.Derived.ExpectedDueDate,
		r.Derived.NextHeatEstimate, r.Derived.CurrentPhase,
		r.Derived.CycleLengthDays, r.Derived.IsBred, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

// GetCycle fetches one cycle by id.
func (s *Store) GetCycle(ctx context.Context, id string) (*cycle.Record, error) {
	row := s.db.QueryRow(ctx, `SELECT `+cycleColumns+` FROM heat_cycles WHERE id = $1`, id)
	return scanCycle(row)
}

// GetCycleForUpdate fetches one cycle and locks its row until the enclosing
// transaction ends. Mutations lock first so the derived snapshot is never
// computed from a half-applied event log.
func (s *Store) GetCycleForUpdate(ctx context.Context, id string) (*cycle.Record, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+cycleColumns+` FROM heat_cycles WHERE id = $1 FOR UPDATE`, id)
	return scanCycle(row)
}

// ListCyclesByDog returns a dog's cycles newest first.
func (s *Store) ListCyclesByDog(ctx context.Context, dogID string) ([]*cycle.Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+cycleColumns+` FROM heat_cycles
		WHERE dog_id = $1 ORDER BY start_date DESC`, dogID)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()

	var recs []*cycle.Record
	for rows.Next() {
		r, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// FindActiveCycle returns the dog's open cycle, or ErrNotFound when none is
// open. At most one can exist per dog.
func (s *Store) FindActiveCycle(ctx context.Context, dogID string) (*cycle.Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+cycleColumns+` FROM heat_cycles
		WHERE dog_id = $1 AND end_date IS NULL`, dogID)
	return scanCycle(row)
}

// ActiveCycle pairs an open cycle with its dog's display name, for scans
// that alert on every active cycle at once.
type ActiveCycle struct {
	Record  *cycle.Record
	DogName string
}

// ListActiveCycles returns every open cycle joined with its dog's name.
func (s *Store) ListActiveCycles(ctx context.Context) ([]ActiveCycle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.dog_id, c.start_date, c.end_date, c.notes,
			c.standing_heat_start, c.standing_heat_end, c.ovulation_date,
			c.optimal_breeding_start, c.optimal_breeding_end, c.expected_due_date,
			c.next_heat_estimate, c.current_phase, c.cycle_length_days, c.is_bred,
			d.name
		FROM heat_cycles c
		JOIN dogs d ON d.id = c.dog_id
		WHERE c.end_date IS NULL
		ORDER BY c.start_date`)
	if err != nil {
		return nil, fmt.Errorf("list active cycles: %w", err)
	}
	defer rows.Close()

	var out []ActiveCycle
	for rows.Next() {
		var r cycle.Record
		var name string
		err := rows.Scan(
			&r.ID, &r.DogID, &r.StartDate, &r.EndDate, &r.Notes,
			&r.Derived.StandingHeatStart, &r.Derived.StandingHeatEnd,
			&r.Derived.OvulationDate, &r.Derived.OptimalBreedingStart,
			&r.Derived.OptimalBreedingEnd, &r.Derived.ExpectedDueDate,
			&r.Derived.NextHeatEstimate, &r.Derived.CurrentPhase,
			&r.Derived.CycleLengthDays, &r.Derived.IsBred,
			&name,
		)
		if err != nil {
			return nil, fmt.Errorf("scan active cycle: %w", err)
		}
		out = append(out, ActiveCycle{Record: &r, DogName: name})
	}
	return out, rows.Err()
}

// UpdateCycleDerived overwrites the whole derived snapshot and bounds of a
// cycle. The caller holds the row lock from GetCycleForUpdate.
func (s *Store) UpdateCycleDerived(ctx context.Context, r *cycle.Record) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE heat_cycles SET
			end_date=$2, notes=$3,
			standing_heat_start=$4, standing_heat_end=$5, ovulation_date=$6,
			optimal_breeding_start=$7, optimal_breeding_end=$8,
			expected_due_date=$9, next_heat_estimate=$10, current_phase=$11,
			cycle_length_days=$12, is_bred=$13, updated_at=$14
		WHERE id = $1`,
		r.ID, r.EndDate, r.Notes,
		r.Derived.StandingHeatStart, r.Derived.StandingHeatEnd,
		r.Derived.OvulationDate, r.Derived.OptimalBreedingStart,
		r.Derived.OptimalBreedingEnd, r.Derived.ExpectedDueDate,
		r.Derived.NextHeatEstimate, r.Derived.CurrentPhase,
		r.Derived.CycleLengthDays, r.Derived.IsBred, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCycle removes a cycle; its events cascade in the schema.
func (s *Store) DeleteCycle(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM heat_cycles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const eventColumns = `id, cycle_id, event_date, time_of_day, kind,
	progesterone_value, progesterone_unit, vet_clinic, sire_id, sire_name,
	notes, seq`

func scanEvent(row interface{ Scan(dest ...any) error }) (*cycle.Event, error) {
	var ev cycle.Event
	var sireID *string
	err := row.Scan(
		&ev.ID, &ev.CycleID, &ev.Date, &ev.TimeOfDay, &ev.Kind,
		&ev.ProgesteroneValue, &ev.ProgesteroneUnit, &ev.VetClinic,
		&sireID, &ev.SireName, &ev.Notes, &ev.Seq,
	)
	if err != nil {
		return nil, notFound(err)
	}
	ev.SireID = strOrEmpty(sireID)
	return &ev, nil
}

// InsertCycleEvent appends one event to the cycle's log. The database assigns
// Seq; the value is read back into ev.
func (s *Store) InsertCycleEvent(ctx context.Context, ev *cycle.Event) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO cycle_events (id, cycle_id, event_date, time_of_day, kind,
			progesterone_value, progesterone_unit, vet_clinic, sire_id,
			sire_name, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING seq`,
		ev.ID, ev.CycleID, ev.Date, ev.TimeOfDay, ev.Kind,
		ev.ProgesteroneValue, ev.ProgesteroneUnit, ev.VetClinic,
		nullStr(ev.SireID), ev.SireName, ev.Notes, time.Now().UTC(),
	).Scan(&ev.Seq)
	if err != nil {
		return fmt.Errorf("insert cycle event: %w", err)
	}
	return nil
}

// GetCycleEvent fetches one event by id within a cycle.
func (s *Store) GetCycleEvent(ctx context.Context, cycleID, eventID string) (*cycle.Event, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+eventColumns+` FROM cycle_events
		WHERE id = $1 AND cycle_id = $2`, eventID, cycleID)
	return scanEvent(row)
}

// ListCycleEvents returns a cycle's full event log in insertion order. The
// chronological view is derived in memory, never in SQL.
func (s *Store) ListCycleEvents(ctx context.Context, cycleID string) ([]cycle.Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+eventColumns+` FROM cycle_events
		WHERE cycle_id = $1 ORDER BY seq`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("list cycle events: %w", err)
	}
	defer rows.Close()

	var events []cycle.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// DeleteCycleEvent removes one event from a cycle's log.
func (s *Store) DeleteCycleEvent(ctx context.Context, cycleID, eventID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM cycle_events WHERE id = $1 AND cycle_id = $2`, eventID, cycleID)
	if err != nil {
		return fmt.Errorf("delete cycle event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
