package cycle

import "time"

// Event is one recorded entry in a cycle's log. Events are immutable once
// recorded except for deletion; chronological order is a derived view
// (ProjectTimeline), never a stored order.
//
// Payload fields are populated per kind: Progesterone* for assay results,
// Sire*/the kind's method for breeding acts, Detail for OTHER. Everything
// except Kind and Date is optional.
type Event struct {
	ID      string `json:"id"`
	CycleID string `json:"cycle_id"`

	// Date is the day the event was observed (day granularity; required).
	Date time.Time `json:"date"`
	// TimeOfDay is informational display text such as "14:30". It breaks
	// same-day ties in the timeline but never enters window arithmetic.
	TimeOfDay string `json:"time_of_day,omitempty"`

	Kind EventKind `json:"kind"`

	// Progesterone assay payload.
	ProgesteroneValue *float64 `json:"progesterone_value,omitempty"`
	ProgesteroneUnit  string   `json:"progesterone_unit,omitempty"`
	VetClinic         string   `json:"vet_clinic,omitempty"`

	// Breeding act payload.
	SireID   string `json:"sire_id,omitempty"`
	SireName string `json:"sire_name,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Seq is the insertion sequence, the final tiebreak for same-day,
	// same-time events.
	Seq int64 `json:"seq"`
}

// HasProgesteroneValue reports whether the event carries a usable numeric
// assay result. Malformed assay events stay in the log and the timeline but
// are skipped by prediction.
func (e Event) HasProgesteroneValue() bool {
	return e.Kind == KindProgesteroneTest && e.ProgesteroneValue != nil
}

// Record is the cycle aggregate snapshot the engine computes over: identity,
// bounds, notes, and the derived fields recomputed after every mutation.
type Record struct {
	ID    string `json:"id"`
	DogID string `json:"dog_id"`

	// StartDate is day 1 of the cycle (day granularity; required).
	StartDate time.Time `json:"start_date"`
	// EndDate is nil while the cycle is active.
	EndDate *time.Time `json:"end_date,omitempty"`

	Notes string `json:"notes,omitempty"`

	Derived Derived `json:"derived"`
}

// Active reports whether the cycle is still open. Only active cycles have a
// live phase and fertile-window evaluation.
func (r Record) Active() bool { return r.EndDate == nil }

// Derived holds every field computed from the event log and reference time.
// These are never set independently; they are recomputed wholesale by
// Recompute and overwritten transactionally by the mutation boundary.
type Derived struct {
	StandingHeatStart    *time.Time `json:"standing_heat_start,omitempty"`
	StandingHeatEnd      *time.Time `json:"standing_heat_end,omitempty"`
	OvulationDate        *time.Time `json:"ovulation_date,omitempty"`
	OptimalBreedingStart *time.Time `json:"optimal_breeding_start,omitempty"`
	OptimalBreedingEnd   *time.Time `json:"optimal_breeding_end,omitempty"`
	ExpectedDueDate      *time.Time `json:"expected_due_date,omitempty"`
	NextHeatEstimate     *time.Time `json:"next_heat_estimate,omitempty"`
	CurrentPhase         Phase      `json:"current_phase"`
	CycleLengthDays      *int       `json:"cycle_length_days,omitempty"`
	IsBred               bool       `json:"is_bred"`
}

// Recompute derives every cached field from the record bounds and event log
// at the given reference time. It is the single source for derived state:
// callers persist the result as a whole, never patch individual fields.
func Recompute(rec Record, events []Event, now time.Time) Derived {
	d := Derived{
		IsBred: isBred(events),
	}

	ordered := ProjectTimeline(events)
	d.StandingHeatStart, d.StandingHeatEnd = standingHeatBounds(ordered)

	p := PredictFertility(rec, events, now)
	d.OvulationDate = p.OvulationDate
	d.OptimalBreedingStart = p.OptimalBreedingStart
	d.OptimalBreedingEnd = p.OptimalBreedingEnd
	d.ExpectedDueDate = p.ExpectedDueDate

	if rec.EndDate != nil {
		// Closed cycles are terminal: anestrus, fixed length, and the
		// advisory next-heat estimate from this cycle's start.
		d.CurrentPhase = PhaseAnestrus
		length := DaysBetween(rec.StartDate, *rec.EndDate) + 1
		d.CycleLengthDays = &length
		next := DateOnly(rec.StartDate).AddDate(0, 0, NextHeatIntervalDays)
		d.NextHeatEstimate = &next
		return d
	}

	d.CurrentPhase = ClassifyPhase(rec, events, now)
	return d
}

func isBred(events []Event) bool {
	for _, ev := range events {
		if ev.Kind.IsBreeding() {
			return true
		}
	}
	return false
}

// standingHeatBounds finds the first STANDING event and the first later
// END_RECEPTIVE or CYCLE_END event. Events must already be ordered.
func standingHeatBounds(ordered []Event) (start, end *time.Time) {
	for _, ev := range ordered {
		switch ev.Kind {
		case KindStanding:
			if start == nil {
				t := DateOnly(ev.Date)
				start = &t
			}
		case KindEndReceptive, KindCycleEnd:
			if start != nil && end == nil && !DateOnly(ev.Date).Before(*start) {
				t := DateOnly(ev.Date)
				end = &t
			}
		}
	}
	return start, end
}

// DateOnly truncates t to midnight UTC. All window arithmetic runs at day
// granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference b-a after truncation.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
