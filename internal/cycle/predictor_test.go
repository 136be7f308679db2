package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func assayEvent(id string, day time.Time, value *float64, seq int64) Event {
	return Event{
		ID:                id,
		Date:              day,
		Kind:              KindProgesteroneTest,
		ProgesteroneValue: value,
		ProgesteroneUnit:  "ng/mL",
		Seq:               seq,
	}
}

func TestPredictFertility_FallbackWindowWithoutLabData(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}

	p := PredictFertility(rec, nil, date(2024, 1, 10))
	require.Nil(t, p.OvulationDate)
	require.Nil(t, p.ExpectedDueDate)
	require.NotNil(t, p.OptimalBreedingStart)
	require.NotNil(t, p.OptimalBreedingEnd)
	require.Equal(t, date(2024, 1, 10), *p.OptimalBreedingStart)
	require.Equal(t, date(2024, 1, 15), *p.OptimalBreedingEnd)
}

func TestPredictFertility_OvulationFromBandValue(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	events := []Event{
		assayEvent("e1", date(2024, 1, 8), fptr(1.4), 1),
		assayEvent("e2", date(2024, 1, 11), fptr(4.2), 2),
	}

	p := PredictFertility(rec, events, date(2024, 1, 12))
	require.NotNil(t, p.OvulationDate)
	require.Equal(t, date(2024, 1, 11), *p.OvulationDate)
	require.Equal(t, date(2024, 1, 11), *p.OptimalBreedingStart)
	require.Equal(t, date(2024, 1, 14), *p.OptimalBreedingEnd)
	require.Equal(t, date(2024, 3, 14), *p.ExpectedDueDate)
}

func TestPredictFertility_InterpolatesBandJump(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	// 2.0 on the 10th, 6.0 on the 12th: crossing to 4.0 lands on the 11th.
	events := []Event{
		assayEvent("e1", date(2024, 1, 10), fptr(2.0), 1),
		assayEvent("e2", date(2024, 1, 12), fptr(6.0), 2),
	}

	p := PredictFertility(rec, events, date(2024, 1, 13))
	require.NotNil(t, p.OvulationDate)
	require.Equal(t, date(2024, 1, 11), *p.OvulationDate)
}

func TestPredictFertility_ExplicitOvulationEvent(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	events := []Event{
		{ID: "e1", Date: date(2024, 1, 12), Kind: KindOvulation, Seq: 1},
	}

	p := PredictFertility(rec, events, date(2024, 1, 13))
	require.NotNil(t, p.OvulationDate)
	require.Equal(t, date(2024, 1, 12), *p.OvulationDate)

	// Due date is ovulation + 63 days exactly, never start-date derived.
	require.Equal(t, date(2024, 3, 15), *p.ExpectedDueDate)
}

func TestPredictFertility_LabDataSuppressesFallback(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	// One early baseline test: lab data exists but no ovulation yet.
	events := []Event{
		assayEvent("e1", date(2024, 1, 5), fptr(0.6), 1),
	}

	p := PredictFertility(rec, events, date(2024, 1, 10))
	require.Nil(t, p.OvulationDate)
	require.Nil(t, p.OptimalBreedingStart)
	require.Nil(t, p.OptimalBreedingEnd)
}

func TestPredictFertility_MalformedAssaySkipped(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	// Assay event without a numeric value is stored and orderable but
	// excluded from interpolation: behaves like no lab data.
	events := []Event{
		assayEvent("e1", date(2024, 1, 8), nil, 1),
	}

	p := PredictFertility(rec, events, date(2024, 1, 10))
	require.Nil(t, p.OvulationDate)
	require.Equal(t, date(2024, 1, 10), *p.OptimalBreedingStart)
	require.Equal(t, date(2024, 1, 15), *p.OptimalBreedingEnd)
}

func TestInFertileWindow_HeuristicScenario(t *testing.T) {
	// Cycle starts 2024-01-01, no events, now = day 9.
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	require.True(t, InFertileWindow(rec, nil, date(2024, 1, 10)))

	// Day 8 and day 15 sit outside the fallback window.
	require.False(t, InFertileWindow(rec, nil, date(2024, 1, 9)))
	require.False(t, InFertileWindow(rec, nil, date(2024, 1, 16)))

	// Day 14 is still inside the window even though the phase heuristic
	// already calls it diestrus.
	require.True(t, InFertileWindow(rec, nil, date(2024, 1, 15)))
}

func TestInFertileWindow_ClosedCycleAlwaysFalse(t *testing.T) {
	end := date(2024, 1, 25)
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1), EndDate: &end}
	events := []Event{
		assayEvent("e1", date(2024, 1, 11), fptr(4.2), 1),
	}
	require.False(t, InFertileWindow(rec, events, date(2024, 1, 12)))
}

func TestInFertileWindow_BandValueOnlyCountsInsideComputedWindow(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	events := []Event{
		assayEvent("e1", date(2024, 1, 11), fptr(4.2), 1),
	}

	band, ok := InterpretProgesterone(4.2)
	require.True(t, ok)
	require.Equal(t, "Ovulation window", band.Stage)

	// Window is [Jan 11, Jan 14]; inside counts, outside does not.
	require.True(t, InFertileWindow(rec, events, date(2024, 1, 12)))
	require.False(t, InFertileWindow(rec, events, date(2024, 1, 16)))
}

func TestInterpretProgesterone_Bands(t *testing.T) {
	testCases := []struct {
		value float64
		stage string
	}{
		{0.4, "Early proestrus"},
		{1.0, "Late proestrus"},
		{2.5, "LH surge"},
		{3.0, "Ovulation window"},
		{4.2, "Ovulation window"},
		{5.0, "Optimal breeding"},
		{14.9, "Optimal breeding"},
		{20.0, "Late window"},
		{25.0, "Window closed"},
		{80.0, "Window closed"},
	}
	for _, tc := range testCases {
		band, ok := InterpretProgesterone(tc.value)
		require.True(t, ok, "value %v", tc.value)
		require.Equal(t, tc.stage, band.Stage, "value %v", tc.value)
		require.NotEmpty(t, band.Guidance)
	}

	_, ok := InterpretProgesterone(-1)
	require.False(t, ok)
}

func TestRecompute_ClosedCycleScenario(t *testing.T) {
	// Cycle closed on 2024-01-25 with an ovulation event on 2024-01-12.
	end := date(2024, 1, 25)
	rec := Record{ID: "c1", DogID: "d1", StartDate: date(2024, 1, 1), EndDate: &end}
	events := []Event{
		{ID: "e1", Date: date(2024, 1, 12), Kind: KindOvulation, Seq: 1},
		{ID: "e2", Date: date(2024, 1, 13), Kind: KindBreedingNatural, SireName: "Rex", Seq: 2},
	}

	d := Recompute(rec, events, date(2024, 2, 1))
	require.Equal(t, PhaseAnestrus, d.CurrentPhase)
	require.Equal(t, date(2024, 3, 15), *d.ExpectedDueDate)
	require.True(t, d.IsBred)
	require.NotNil(t, d.CycleLengthDays)
	require.Equal(t, 25, *d.CycleLengthDays)
	require.NotNil(t, d.NextHeatEstimate)
	require.Equal(t, date(2024, 1, 1).AddDate(0, 0, NextHeatIntervalDays), *d.NextHeatEstimate)
}

func TestRecompute_IsBredMatchesBreedingEvents(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}

	d := Recompute(rec, nil, date(2024, 1, 10))
	require.False(t, d.IsBred)

	for _, kind := range []EventKind{KindBreedingNatural, KindBreedingAI, KindBreedingSurgical} {
		events := []Event{{ID: "e1", Date: date(2024, 1, 12), Kind: kind, Seq: 1}}
		d := Recompute(rec, events, date(2024, 1, 13))
		require.True(t, d.IsBred, "kind %s", kind)
	}

	// Non-breeding events never set the flag.
	events := []Event{{ID: "e1", Date: date(2024, 1, 12), Kind: KindStanding, Seq: 1}}
	require.False(t, Recompute(rec, events, date(2024, 1, 13)).IsBred)
}

func TestRecompute_StandingHeatBounds(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	events := []Event{
		{ID: "e1", Date: date(2024, 1, 10), Kind: KindStanding, Seq: 1},
		{ID: "e2", Date: date(2024, 1, 15), Kind: KindEndReceptive, Seq: 2},
	}

	d := Recompute(rec, events, date(2024, 1, 20))
	require.NotNil(t, d.StandingHeatStart)
	require.NotNil(t, d.StandingHeatEnd)
	require.Equal(t, date(2024, 1, 10), *d.StandingHeatStart)
	require.Equal(t, date(2024, 1, 15), *d.StandingHeatEnd)
}
