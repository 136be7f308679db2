package cycle

import "time"

// Elapsed-day heuristic bands for a typical ~21-day cycle. They apply only
// when no explicit event places the cycle: recorded fact beats estimate.
const (
	// proestrusMaxDay is the last elapsed day classified proestrus.
	proestrusMaxDay = 8
	// estrusMaxDay is the last elapsed day classified estrus; day 14
	// onward is diestrus.
	estrusMaxDay = 13
)

// ClassifyPhase returns the current phase of a cycle at the reference time.
//
// Precedence, first match wins:
//  1. closed cycle -> ANESTRUS (terminal)
//  2. a STANDING event with no later END_RECEPTIVE or CYCLE_END -> ESTRUS
//  3. elapsed-day bands: 0-8 PROESTRUS, 9-13 ESTRUS, >=14 DIESTRUS
//
// A record without a usable start date yields PhaseUnknown. The classifier
// never fails: missing data degrades to UNKNOWN, never an error.
func ClassifyPhase(rec Record, events []Event, now time.Time) Phase {
	if rec.EndDate != nil {
		return PhaseAnestrus
	}

	if inStandingHeat(events) {
		return PhaseEstrus
	}

	if rec.StartDate.IsZero() {
		return PhaseUnknown
	}

	days := DaysBetween(rec.StartDate, now)
	switch {
	case days < 0:
		// Reference time before the recorded start; nothing sensible to say.
		return PhaseUnknown
	case days <= proestrusMaxDay:
		return PhaseProestrus
	case days <= estrusMaxDay:
		return PhaseEstrus
	default:
		return PhaseDiestrus
	}
}

// ElapsedDays returns the zero-based day count since cycle start at the
// reference time, or -1 when the start date is unusable.
func ElapsedDays(rec Record, now time.Time) int {
	if rec.StartDate.IsZero() {
		return -1
	}
	days := DaysBetween(rec.StartDate, now)
	if days < 0 {
		return -1
	}
	return days
}

// inStandingHeat reports whether the log contains a STANDING event that is
// not followed (by date) by an END_RECEPTIVE or CYCLE_END event.
func inStandingHeat(events []Event) bool {
	ordered := ProjectTimeline(events)
	start, end := standingHeatBounds(ordered)
	return start != nil && end == nil
}
