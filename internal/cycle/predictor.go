package cycle

import (
	"math"
	"time"
)

// Fixed physiological constants. These are part of the engine's contract:
// exported so the UI and tests can explain a prediction instead of the
// engine inventing numbers at runtime.
const (
	// GestationDays separates ovulation from the expected whelping date.
	GestationDays = 63

	// EggsViableDays bounds the lab-derived optimal breeding window after
	// ovulation.
	EggsViableDays = 3

	// FallbackWindowStartDay / FallbackWindowEndDay bound the heuristic
	// standing-heat window (days after cycle start) used when no lab data
	// exists. Day 14 is deliberately kept inside the fertile window even
	// though the phase heuristic already calls it diestrus: ova remain
	// viable into early diestrus, so alerting stays on the safe side.
	FallbackWindowStartDay = 9
	FallbackWindowEndDay   = 14

	// NextHeatIntervalDays is the advisory interval between heat onsets
	// (~6 months).
	NextHeatIntervalDays = 182

	// ovulationBandMin/Max delimit the progesterone ovulation band in
	// ng/mL; ovulationBandMid is the interpolation target when a test
	// series jumps the band entirely.
	ovulationBandMin = 3.0
	ovulationBandMax = 5.0
	ovulationBandMid = 4.0
)

// ProgesteroneBand is one row of the assay interpretation table.
type ProgesteroneBand struct {
	// Min is inclusive, Max exclusive; Max of math.Inf(1) means unbounded.
	Min, Max float64
	Stage    string
	Guidance string
}

// ProgesteroneBands is the reference interpretation table for serum
// progesterone in ng/mL, in ascending order.
var ProgesteroneBands = []ProgesteroneBand{
	{Min: 0, Max: 1.0, Stage: "Early proestrus", Guidance: "Baseline. Retest in 2-3 days."},
	{Min: 1.0, Max: 2.0, Stage: "Late proestrus", Guidance: "LH surge imminent. Retest daily."},
	{Min: 2.0, Max: 3.0, Stage: "LH surge", Guidance: "Ovulation expected in ~48 hours."},
	{Min: 3.0, Max: 5.0, Stage: "Ovulation window", Guidance: "Ovulation occurring. Plan breeding."},
	{Min: 5.0, Max: 15.0, Stage: "Optimal breeding", Guidance: "Eggs maturing or mature. Breed now."},
	{Min: 15.0, Max: 25.0, Stage: "Late window", Guidance: "Fertility declining. Breed immediately if not yet bred."},
	{Min: 25.0, Max: math.Inf(1), Stage: "Window closed", Guidance: "Diestrus. The fertile window has passed."},
}

// InterpretProgesterone places a ng/mL value in its band. Negative values
// report false.
func InterpretProgesterone(value float64) (ProgesteroneBand, bool) {
	if value < 0 {
		return ProgesteroneBand{}, false
	}
	for _, b := range ProgesteroneBands {
		if value >= b.Min && value < b.Max {
			return b, true
		}
	}
	return ProgesteroneBand{}, false
}

// Prediction is the fertility forecast for one cycle. Nil fields mean
// "not yet known" - missing data is not an error.
type Prediction struct {
	OvulationDate        *time.Time
	OptimalBreedingStart *time.Time
	OptimalBreedingEnd   *time.Time
	ExpectedDueDate      *time.Time
}

// PredictFertility derives ovulation, the optimal breeding window, and the
// due date from the event log.
//
// Ovulation comes from the progesterone series when it crosses the
// ovulation band, else from an explicit OVULATION event, else stays
// unknown. The due date is derived from ovulation only, never from the
// start date. With no lab data at all, the window falls back to the
// heuristic standing-heat estimate [start+9d, start+14d].
func PredictFertility(rec Record, events []Event, now time.Time) Prediction {
	var p Prediction

	ovu := ovulationFromProgesterone(events)
	hasLabData := ovu != nil || hasNumericAssay(events)
	if ovu == nil {
		ovu = ovulationFromEvent(events)
	}

	if ovu != nil {
		p.OvulationDate = ovu
		start := *ovu
		end := ovu.AddDate(0, 0, EggsViableDays)
		p.OptimalBreedingStart = &start
		p.OptimalBreedingEnd = &end

		due := ovu.AddDate(0, 0, GestationDays)
		p.ExpectedDueDate = &due
		return p
	}

	// No ovulation date. Once any usable lab data exists the engine does
	// not guess a window from elapsed days; without it, fall back to the
	// heuristic estimate.
	if !hasLabData && !rec.StartDate.IsZero() {
		start := DateOnly(rec.StartDate).AddDate(0, 0, FallbackWindowStartDay)
		end := DateOnly(rec.StartDate).AddDate(0, 0, FallbackWindowEndDay)
		p.OptimalBreedingStart = &start
		p.OptimalBreedingEnd = &end
	}
	return p
}

// InFertileWindow is the alerting predicate: true iff the cycle is active
// and now falls inside the optimal breeding window, or, absent computed
// bounds, elapsed days land in the heuristic [9,14] band.
func InFertileWindow(rec Record, events []Event, now time.Time) bool {
	if rec.EndDate != nil {
		return false
	}

	p := PredictFertility(rec, events, now)
	day := DateOnly(now)
	if p.OptimalBreedingStart != nil && p.OptimalBreedingEnd != nil {
		return !day.Before(*p.OptimalBreedingStart) && !day.After(*p.OptimalBreedingEnd)
	}

	days := ElapsedDays(rec, now)
	return days >= FallbackWindowStartDay && days <= FallbackWindowEndDay
}

// ovulationFromProgesterone dates ovulation from the numeric assay series:
// the first value inside [3.0, 5.0) ng/mL, or a day-floored linear
// interpolation to 4.0 ng/mL when consecutive tests jump the band.
func ovulationFromProgesterone(events []Event) *time.Time {
	var series []Event
	for _, ev := range ProjectTimeline(events) {
		if ev.HasProgesteroneValue() {
			series = append(series, ev)
		}
	}
	if len(series) == 0 {
		return nil
	}

	for i, ev := range series {
		v := *ev.ProgesteroneValue
		if v >= ovulationBandMin && v < ovulationBandMax {
			t := DateOnly(ev.Date)
			return &t
		}
		if v >= ovulationBandMax && i > 0 {
			prev := series[i-1]
			if pv := *prev.ProgesteroneValue; pv < ovulationBandMin {
				t := interpolateCrossing(prev.Date, pv, ev.Date, v)
				return &t
			}
			// Previous test was already past the band; the crossing
			// happened before the series started recording it.
			t := DateOnly(ev.Date)
			return &t
		}
		if v >= ovulationBandMax && i == 0 {
			// First ever test already past the band; best available date.
			t := DateOnly(ev.Date)
			return &t
		}
	}
	return nil
}

// interpolateCrossing linearly interpolates between two assay points to the
// band midpoint and floors the result to day granularity.
func interpolateCrossing(t0 time.Time, v0 float64, t1 time.Time, v1 float64) time.Time {
	d0, d1 := DateOnly(t0), DateOnly(t1)
	span := d1.Sub(d0)
	if span <= 0 || v1 <= v0 {
		return d1
	}
	frac := (ovulationBandMid - v0) / (v1 - v0)
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return DateOnly(d0.Add(time.Duration(float64(span) * frac)))
}

func ovulationFromEvent(events []Event) *time.Time {
	for _, ev := range ProjectTimeline(events) {
		if ev.Kind == KindOvulation {
			t := DateOnly(ev.Date)
			return &t
		}
	}
	return nil
}

func hasNumericAssay(events []Event) bool {
	for _, ev := range events {
		if ev.HasProgesteroneValue() {
			return true
		}
	}
	return false
}
