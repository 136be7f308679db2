// Package cycle implements the reproductive cycle engine: phase
// classification, fertility prediction, and timeline projection for heat
// cycles of female dogs.
//
// The engine is pure computation over an in-memory snapshot of a cycle and
// its event log. It performs no I/O, holds no state, and takes the reference
// time as an explicit parameter so every derivation is reproducible.
package cycle

// EventKind identifies one entry in the closed vocabulary of recordable
// reproductive events.
type EventKind string

const (
	// Discharge / physical signs.
	KindBleedingStart  EventKind = "BLEEDING_START"
	KindBleedingHeavy  EventKind = "BLEEDING_HEAVY"
	KindBleedingLight  EventKind = "BLEEDING_LIGHT"
	KindDischargeStraw EventKind = "DISCHARGE_STRAW"
	KindVulvaSwelling  EventKind = "VULVA_SWELLING"
	KindFlagging       EventKind = "FLAGGING"
	KindStanding       EventKind = "STANDING"
	KindEndReceptive   EventKind = "END_RECEPTIVE"

	// Lab / clinical.
	KindProgesteroneTest EventKind = "PROGESTERONE_TEST"

	// Reproductive milestones.
	KindLHSurge   EventKind = "LH_SURGE"
	KindOvulation EventKind = "OVULATION"

	// Breeding acts.
	KindBreedingNatural  EventKind = "BREEDING_NATURAL"
	KindBreedingAI       EventKind = "BREEDING_AI"
	KindBreedingSurgical EventKind = "BREEDING_SURGICAL"

	// Terminal.
	KindCycleEnd EventKind = "CYCLE_END"

	// Catch-all.
	KindOther EventKind = "OTHER"
)

// Kinds lists every valid event kind in display order.
var Kinds = []EventKind{
	KindBleedingStart,
	KindBleedingHeavy,
	KindBleedingLight,
	KindDischargeStraw,
	KindVulvaSwelling,
	KindFlagging,
	KindStanding,
	KindEndReceptive,
	KindProgesteroneTest,
	KindLHSurge,
	KindOvulation,
	KindBreedingNatural,
	KindBreedingAI,
	KindBreedingSurgical,
	KindCycleEnd,
	KindOther,
}

// Valid reports whether k is part of the closed taxonomy.
func (k EventKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsBreeding reports whether k records a breeding act. A cycle counts as
// bred iff its log contains at least one such event.
func (k EventKind) IsBreeding() bool {
	switch k {
	case KindBreedingNatural, KindBreedingAI, KindBreedingSurgical:
		return true
	default:
		return false
	}
}

// Label returns a human-readable name for the kind, used by the timeline
// projection and CSV export.
func (k EventKind) Label() string {
	switch k {
	case KindBleedingStart:
		return "Bleeding started"
	case KindBleedingHeavy:
		return "Heavy bleeding"
	case KindBleedingLight:
		return "Light bleeding"
	case KindDischargeStraw:
		return "Straw-colored discharge"
	case KindVulvaSwelling:
		return "Vulva swelling"
	case KindFlagging:
		return "Flagging"
	case KindStanding:
		return "Standing heat"
	case KindEndReceptive:
		return "End of receptivity"
	case KindProgesteroneTest:
		return "Progesterone test"
	case KindLHSurge:
		return "LH surge"
	case KindOvulation:
		return "Ovulation"
	case KindBreedingNatural:
		return "Breeding (natural)"
	case KindBreedingAI:
		return "Breeding (AI)"
	case KindBreedingSurgical:
		return "Breeding (surgical AI)"
	case KindCycleEnd:
		return "Cycle ended"
	case KindOther:
		return "Other"
	default:
		return string(k)
	}
}

// BreedingMethod returns the method string recorded for breeding-act kinds,
// empty for anything else.
func (k EventKind) BreedingMethod() string {
	switch k {
	case KindBreedingNatural:
		return "Natural"
	case KindBreedingAI:
		return "AI"
	case KindBreedingSurgical:
		return "Surgical AI"
	default:
		return ""
	}
}

// Phase is one of the four physiological stages of a reproductive cycle,
// plus Unknown for cycles the classifier cannot place.
type Phase string

const (
	PhaseProestrus Phase = "PROESTRUS"
	PhaseEstrus    Phase = "ESTRUS"
	PhaseDiestrus  Phase = "DIESTRUS"
	PhaseAnestrus  Phase = "ANESTRUS"
	PhaseUnknown   Phase = "UNKNOWN"
)

// Label returns a human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseProestrus:
		return "Proestrus"
	case PhaseEstrus:
		return "Estrus"
	case PhaseDiestrus:
		return "Diestrus"
	case PhaseAnestrus:
		return "Anestrus"
	default:
		return ""
	}
}
