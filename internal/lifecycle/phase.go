// Package lifecycle derives time-dependent entity state from stored
// attributes. Phases are pure queries over (dates, now); they are never
// persisted, so stored and displayed state cannot drift.
package lifecycle

import (
	"time"

	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// Phase is the derived lifecycle stage of a sprint.
type Phase string

const (
	PhasePlanning Phase = "PLANNING"
	PhaseActive   Phase = "ACTIVE"
	PhaseDone     Phase = "DONE"
)

// PhaseOf computes the phase for the given window at the given instant.
// The window is inclusive at the start and exclusive at the end: a
// sprint is ACTIVE the moment it starts and DONE the moment its end
// date is reached.
func PhaseOf(start, end, now time.Time) Phase {
	if now.Before(start) {
		return PhasePlanning
	}
	if !now.Before(end) {
		return PhaseDone
	}
	return PhaseActive
}

// SprintPhase derives the phase of a sprint at the given instant.
func SprintPhase(s sdk.Sprint, now time.Time) Phase {
	return PhaseOf(s.StartDate.Time, s.EndDate.Time, now)
}

// ProjectPhase derives the phase of a project at the given instant,
// using the same window rule as sprints.
func ProjectPhase(p sdk.Project, now time.Time) Phase {
	return PhaseOf(p.StartDate.Time, p.EndDate.Time, now)
}
