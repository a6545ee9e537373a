// Package state holds the in-memory session state — profile, selected
// role, analysis, roadmap, and the agent message trail — behind one
// coordinator. The coordinator is constructed explicitly and passed to
// whatever needs it; there is no ambient global. Durable storage is a
// write-through, best-effort mirror: memory wins on conflict within a
// session, and persistence failures never fail the in-memory update.
package state

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/storage"
)

// Store is the durable mirror the coordinator writes through to.
// Implemented by storage.Store.
type Store interface {
	SaveProfile(career.Profile) error
	LoadProfile() (career.Profile, error)
	SaveRole(career.Role) error
	LoadRole() (career.Role, error)
	SaveAnalysis(career.GapAnalysis) error
	LoadAnalysis() (career.GapAnalysis, error)
	SaveRoadmap(career.Roadmap) error
	LoadRoadmap() (career.Roadmap, error)
	LoadProgress() (map[string]bool, error)
	SaveMessage(career.AgentMessage) error
	ResetAll() error
}

// Coordinator owns the five session entities. All access goes through
// its methods; callers pass full values on update (no automatic merging).
type Coordinator struct {
	store  Store
	logger *slog.Logger

	mu       sync.RWMutex
	profile  *career.Profile
	role     *career.Role
	analysis *career.GapAnalysis
	roadmap  *career.Roadmap
	messages []career.AgentMessage
}

// New builds a Coordinator seeded from durable storage. A stored value
// that is missing or fails to decode leaves the field empty; decode
// errors are logged and swallowed, never propagated.
func New(store Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{store: store, logger: logger}

	if p, err := store.LoadProfile(); err == nil {
		c.profile = &p
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("ignoring stored profile", "error", err)
	}
	if r, err := store.LoadRole(); err == nil {
		c.role = &r
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("ignoring stored role", "error", err)
	}
	if a, err := store.LoadAnalysis(); err == nil {
		c.analysis = &a
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("ignoring stored analysis", "error", err)
	}
	if rm, err := store.LoadRoadmap(); err == nil {
		if rm.Weeks == nil {
			rm.Weeks = []career.Week{}
		}
		if rm.Progress == nil {
			rm.Progress = map[string]bool{}
		}
		c.roadmap = &rm
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("ignoring stored roadmap", "error", err)
	}

	return c
}

// Profile returns the current profile; ok is false when none is set.
func (c *Coordinator) Profile() (career.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.profile == nil {
		return career.Profile{}, false
	}
	return *c.profile, true
}

// SetProfile replaces the profile and persists it best-effort.
func (c *Coordinator) SetProfile(p career.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = &p
	if err := c.store.SaveProfile(p); err != nil {
		c.logger.Warn("persisting profile failed", "error", err)
	}
}

// Role returns the selected role; ok is false when none is set.
func (c *Coordinator) Role() (career.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.role == nil {
		return career.Role{}, false
	}
	return *c.role, true
}

// SetRole replaces the selected role and persists it best-effort.
func (c *Coordinator) SetRole(r career.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = &r
	if err := c.store.SaveRole(r); err != nil {
		c.logger.Warn("persisting role failed", "error", err)
	}
}

// Analysis returns the current gap analysis; ok is false when absent.
func (c *Coordinator) Analysis() (career.GapAnalysis, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.analysis == nil {
		return career.GapAnalysis{}, false
	}
	return *c.analysis, true
}

// SetAnalysis replaces the gap analysis (all-or-nothing, never partial)
// and persists it best-effort.
func (c *Coordinator) SetAnalysis(a career.GapAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analysis = &a
	if err := c.store.SaveAnalysis(a); err != nil {
		c.logger.Warn("persisting analysis failed", "error", err)
	}
}

// Roadmap returns a copy of the current roadmap; ok is false when absent.
// The Progress map is copied so callers cannot mutate coordinator state.
func (c *Coordinator) Roadmap() (career.Roadmap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.roadmap == nil {
		return career.Roadmap{}, false
	}
	return copyRoadmap(*c.roadmap), true
}

// SetRoadmap replaces the roadmap. Callers pass the full value with
// progress already merged; the coordinator never merges on its own.
func (c *Coordinator) SetRoadmap(r career.Roadmap) {
	if r.Weeks == nil {
		r.Weeks = []career.Week{}
	}
	if r.Progress == nil {
		r.Progress = map[string]bool{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roadmap = &r
	if err := c.store.SaveRoadmap(r); err != nil {
		c.logger.Warn("persisting roadmap failed", "error", err)
	}
}

// AppendMessage records one diagnostic trail entry. The trail is
// append-only in memory; the durable copy is a best-effort mirror kept
// for the status command.
func (c *Coordinator) AppendMessage(typ career.MessageType, text string) career.AgentMessage {
	m := career.AgentMessage{
		ID:        uuid.New().String(),
		Type:      typ,
		Message:   text,
		Timestamp: time.Now().UTC(),
	}
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()

	if err := c.store.SaveMessage(m); err != nil {
		c.logger.Warn("persisting agent message failed", "error", err)
	}
	return m
}

// Messages returns a copy of the diagnostic trail in append order.
func (c *Coordinator) Messages() []career.AgentMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]career.AgentMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Reset clears all five entities and all durable rows. Callers never
// observe a partial reset: memory and storage are cleared under the
// same lock, and a storage failure is logged, not surfaced.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = nil
	c.role = nil
	c.analysis = nil
	c.roadmap = nil
	c.messages = nil
	if err := c.store.ResetAll(); err != nil {
		c.logger.Warn("clearing durable state failed", "error", err)
	}
}

func copyRoadmap(r career.Roadmap) career.Roadmap {
	cp := r
	cp.Weeks = make([]career.Week, len(r.Weeks))
	copy(cp.Weeks, r.Weeks)
	cp.Progress = make(map[string]bool, len(r.Progress))
	for k, v := range r.Progress {
		cp.Progress[k] = v
	}
	return cp
}
