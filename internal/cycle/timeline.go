package cycle

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ProjectTimeline returns the events in total deterministic order:
// ascending by date, then time-of-day (events without a time sort first
// within their day), then insertion sequence as the final tiebreak. The
// input is never mutated; projection is a pure read-side view.
func ProjectTimeline(events []Event) []Event {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := DateOnly(ordered[i].Date), DateOnly(ordered[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if ordered[i].TimeOfDay != ordered[j].TimeOfDay {
			return ordered[i].TimeOfDay < ordered[j].TimeOfDay
		}
		return ordered[i].Seq < ordered[j].Seq
	})
	return ordered
}

// TimelineRow is one display line of the chronological cycle table.
type TimelineRow struct {
	EventID   string `json:"event_id"`
	Date      string `json:"date"`
	TimeOfDay string `json:"time_of_day,omitempty"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Detail    string `json:"detail,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// TimelineRows flattens the ordered event log for presentation.
func TimelineRows(events []Event) []TimelineRow {
	ordered := ProjectTimeline(events)
	rows := make([]TimelineRow, 0, len(ordered))
	for _, ev := range ordered {
		rows = append(rows, TimelineRow{
			EventID:   ev.ID,
			Date:      FormatDate(ev.Date),
			TimeOfDay: ev.TimeOfDay,
			Kind:      string(ev.Kind),
			Label:     ev.Kind.Label(),
			Detail:    eventDetail(ev),
			Notes:     ev.Notes,
		})
	}
	return rows
}

func eventDetail(ev Event) string {
	switch {
	case ev.Kind == KindProgesteroneTest:
		var parts []string
		if ev.ProgesteroneValue != nil {
			parts = append(parts, formatAssay(*ev.ProgesteroneValue, ev.ProgesteroneUnit))
			if band, ok := InterpretProgesterone(*ev.ProgesteroneValue); ok {
				parts = append(parts, band.Stage)
			}
		}
		if ev.VetClinic != "" {
			parts = append(parts, ev.VetClinic)
		}
		return strings.Join(parts, " - ")
	case ev.Kind.IsBreeding():
		var parts []string
		if ev.SireName != "" {
			parts = append(parts, ev.SireName)
		}
		parts = append(parts, ev.Kind.BreedingMethod())
		return strings.Join(parts, " - ")
	default:
		return ""
	}
}

// ExportHeader is the fixed CSV column order for cycle exports.
var ExportHeader = []string{
	"Dog Name",
	"Start Date",
	"Standing Heat Start",
	"Standing Heat End",
	"Ovulation Date",
	"Optimal Breeding Start",
	"Optimal Breeding End",
	"End Date",
	"Expected Due Date",
	"Next Heat Estimate",
	"Cycle Length (Days)",
	"Current Phase",
	"Is Bred",
	"Breeding Sire",
	"Breeding Method",
	"Breeding Date(s)",
	"Progesterone Test Dates",
	"Progesterone Values",
	"Vet Clinic",
	"Notes",
}

// ExportRow flattens one cycle plus its derived fields into a single export
// row. Unknown fields render as empty strings, never literal null text.
// Breeding and assay payloads are collapsed into de-duplicated,
// semicolon-joined strings across the event log.
func ExportRow(dogName string, rec Record, events []Event) []string {
	ordered := ProjectTimeline(events)

	var sires, methods, breedingDates []string
	var assayDates, assayValues, clinics []string
	for _, ev := range ordered {
		if ev.Kind.IsBreeding() {
			sires = appendUnique(sires, ev.SireName)
			methods = appendUnique(methods, ev.Kind.BreedingMethod())
			breedingDates = appendUnique(breedingDates, FormatDate(ev.Date))
		}
		if ev.Kind == KindProgesteroneTest {
			assayDates = appendUnique(assayDates, FormatDate(ev.Date))
			if ev.ProgesteroneValue != nil {
				assayValues = appendUnique(assayValues, formatAssay(*ev.ProgesteroneValue, ev.ProgesteroneUnit))
			}
			clinics = appendUnique(clinics, ev.VetClinic)
		}
	}

	d := rec.Derived
	return []string{
		dogName,
		FormatDate(rec.StartDate),
		formatDatePtr(d.StandingHeatStart),
		formatDatePtr(d.StandingHeatEnd),
		formatDatePtr(d.OvulationDate),
		formatDatePtr(d.OptimalBreedingStart),
		formatDatePtr(d.OptimalBreedingEnd),
		formatDatePtr(rec.EndDate),
		formatDatePtr(d.ExpectedDueDate),
		formatDatePtr(d.NextHeatEstimate),
		formatIntPtr(d.CycleLengthDays),
		d.CurrentPhase.Label(),
		formatBool(d.IsBred),
		strings.Join(sires, "; "),
		strings.Join(methods, "; "),
		strings.Join(breedingDates, "; "),
		strings.Join(assayDates, "; "),
		strings.Join(assayValues, "; "),
		strings.Join(clinics, "; "),
		rec.Notes,
	}
}

// ExportRows returns the header plus one row per cycle, in input order.
// The caller supplies cycles with Derived already populated (frozen values
// for closed cycles).
func ExportRows(dogName string, recs []Record, eventsByCycle map[string][]Event) [][]string {
	matrix := make([][]string, 0, len(recs)+1)
	matrix = append(matrix, ExportHeader)
	for _, rec := range recs {
		matrix = append(matrix, ExportRow(dogName, rec, eventsByCycle[rec.ID]))
	}
	return matrix
}

// EncodeCSV renders a string matrix as CSV text with RFC 4180 quoting:
// fields containing a comma, double quote, or newline are wrapped in double
// quotes with embedded quotes doubled.
func EncodeCSV(matrix [][]string) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	for _, row := range matrix {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return DateOnly(t).Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

func formatIntPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatAssay(value float64, unit string) string {
	if unit == "" {
		unit = "ng/mL"
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + unit
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
