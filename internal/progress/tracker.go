// Package progress tracks day-by-day roadmap completion. Completion
// state lives inside the roadmap's progress map (owned by the state
// coordinator) and is mirrored to durable storage per toggle.
package progress

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samvrith66/astra/internal/career"
)

// ErrNoRoadmap is returned when a toggle arrives before any roadmap
// exists.
var ErrNoRoadmap = errors.New("no roadmap loaded")

// RoadmapState is the coordinator seam: read the current roadmap, write
// back the full updated value.
type RoadmapState interface {
	Roadmap() (career.Roadmap, bool)
	SetRoadmap(career.Roadmap)
	AppendMessage(typ career.MessageType, text string) career.AgentMessage
}

// Persister mirrors individual day states to durable storage.
// Implemented by storage.Store.
type Persister interface {
	SetDayDone(dayKey string, done bool) error
}

// Tracker flips day completion and detects week-completion transitions.
type Tracker struct {
	state RoadmapState
	store Persister

	// OnWeekComplete, when set, fires exactly once per week transition
	// from incomplete to complete, on the toggle that caused it. Never
	// fired on load or re-read.
	OnWeekComplete func(weekNumber int)
}

// NewTracker creates a Tracker.
func NewTracker(state RoadmapState, store Persister) *Tracker {
	return &Tracker{state: state, store: store}
}

// Toggle flips the completion boolean for the given week/day, persists
// it, and returns the new value. A completing toggle for the week also
// records a celebratory diagnostic and fires OnWeekComplete.
func (t *Tracker) Toggle(weekNumber, day int) (bool, error) {
	roadmap, ok := t.state.Roadmap()
	if !ok {
		return false, ErrNoRoadmap
	}

	wasComplete := IsWeekComplete(roadmap, weekNumber)

	key := career.DayKey(weekNumber, day)
	newState := !roadmap.Progress[key]
	roadmap.Progress[key] = newState

	// Full-value update: the coordinator never merges on its own.
	t.state.SetRoadmap(roadmap)

	// Durable mirror is best-effort; a write failure never undoes the
	// in-memory toggle.
	if err := t.store.SetDayDone(key, newState); err != nil {
		slog.Warn("persisting day progress failed", "key", key, "error", err)
	}

	if newState && !wasComplete && IsWeekComplete(roadmap, weekNumber) {
		t.state.AppendMessage(career.MessageSuccess, fmt.Sprintf("Week %d complete — great work!", weekNumber))
		if t.OnWeekComplete != nil {
			t.OnWeekComplete(weekNumber)
		}
	}

	return newState, nil
}

// IsWeekComplete reports whether every day in the given week's day list
// is marked done. Weeks not present in the roadmap are never complete.
func IsWeekComplete(roadmap career.Roadmap, weekNumber int) bool {
	for _, w := range roadmap.Weeks {
		if w.WeekNumber != weekNumber {
			continue
		}
		if len(w.Days) == 0 {
			return false
		}
		for _, d := range w.Days {
			if !roadmap.Progress[career.DayKey(weekNumber, d.Day)] {
				return false
			}
		}
		return true
	}
	return false
}

// CompletedCount counts completed days that exist in the loaded roadmap.
// Stale keys left over from a previous roadmap are ignored.
func CompletedCount(roadmap career.Roadmap) int {
	count := 0
	for _, w := range roadmap.Weeks {
		for _, d := range w.Days {
			if roadmap.Progress[career.DayKey(w.WeekNumber, d.Day)] {
				count++
			}
		}
	}
	return count
}

// CompletedInWeek counts completed days within one week.
func CompletedInWeek(roadmap career.Roadmap, weekNumber int) int {
	count := 0
	for _, w := range roadmap.Weeks {
		if w.WeekNumber != weekNumber {
			continue
		}
		for _, d := range w.Days {
			if roadmap.Progress[career.DayKey(weekNumber, d.Day)] {
				count++
			}
		}
	}
	return count
}
