package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyPhase_ElapsedDayBands(t *testing.T) {
	rec := Record{ID: "c1", DogID: "d1", StartDate: date(2024, 1, 1)}

	testCases := []struct {
		name string
		now  time.Time
		want Phase
	}{
		{name: "day 0 is proestrus", now: date(2024, 1, 1), want: PhaseProestrus},
		{name: "day 8 is proestrus", now: date(2024, 1, 9), want: PhaseProestrus},
		{name: "day 9 is estrus", now: date(2024, 1, 10), want: PhaseEstrus},
		{name: "day 13 is estrus", now: date(2024, 1, 14), want: PhaseEstrus},
		{name: "day 14 is diestrus, not estrus", now: date(2024, 1, 15), want: PhaseDiestrus},
		{name: "day 30 is diestrus", now: date(2024, 1, 31), want: PhaseDiestrus},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyPhase(rec, nil, tc.now))
		})
	}
}

func TestClassifyPhase_ClosedCycleIsAnestrus(t *testing.T) {
	end := date(2024, 1, 25)
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1), EndDate: &end}

	// Event log contents are irrelevant once the cycle is closed.
	events := []Event{
		{ID: "e1", Date: date(2024, 1, 11), Kind: KindStanding},
	}
	require.Equal(t, PhaseAnestrus, ClassifyPhase(rec, events, date(2024, 1, 20)))
	require.Equal(t, PhaseAnestrus, ClassifyPhase(rec, events, date(2024, 2, 20)))
}

func TestClassifyPhase_StandingEventOverridesHeuristic(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	events := []Event{
		{ID: "e1", Date: date(2024, 1, 11), Kind: KindStanding, Seq: 1},
	}

	// Day 19: elapsed-day heuristic says diestrus, the recorded standing
	// heat says estrus. Recorded fact wins.
	require.Equal(t, PhaseEstrus, ClassifyPhase(rec, events, date(2024, 1, 20)))
}

func TestClassifyPhase_EndReceptiveClosesStandingHeat(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 1, 1)}
	events := []Event{
		{ID: "e1", Date: date(2024, 1, 11), Kind: KindStanding, Seq: 1},
		{ID: "e2", Date: date(2024, 1, 16), Kind: KindEndReceptive, Seq: 2},
	}

	// Standing heat over; back to the elapsed-day heuristic (day 19).
	require.Equal(t, PhaseDiestrus, ClassifyPhase(rec, events, date(2024, 1, 20)))
}

func TestClassifyPhase_MissingStartDateIsUnknown(t *testing.T) {
	require.Equal(t, PhaseUnknown, ClassifyPhase(Record{ID: "c1"}, nil, date(2024, 1, 10)))
}

func TestClassifyPhase_NowBeforeStartIsUnknown(t *testing.T) {
	rec := Record{ID: "c1", StartDate: date(2024, 2, 1)}
	require.Equal(t, PhaseUnknown, ClassifyPhase(rec, nil, date(2024, 1, 15)))
}

func TestElapsedDays(t *testing.T) {
	rec := Record{StartDate: date(2024, 1, 1)}
	require.Equal(t, 0, ElapsedDays(rec, date(2024, 1, 1)))
	require.Equal(t, 9, ElapsedDays(rec, date(2024, 1, 10)))
	require.Equal(t, -1, ElapsedDays(Record{}, date(2024, 1, 10)))
	require.Equal(t, -1, ElapsedDays(rec, date(2023, 12, 31)))

	// Time-of-day is ignored: late evening on day 9 is still day 9.
	require.Equal(t, 9, ElapsedDays(rec, time.Date(2024, 1, 10, 23, 45, 0, 0, time.UTC)))
}
