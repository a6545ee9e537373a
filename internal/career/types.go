// Package career defines the canonical data model shared by the
// profile sources, analysis pipelines, progress tracking, and the API
// surfaces.
package career

import (
	"fmt"
	"time"
)

// ProfileSource identifies where a profile's skill data came from.
type ProfileSource string

const (
	SourceGitHub ProfileSource = "github"
	SourceResume ProfileSource = "resume"
	SourceManual ProfileSource = "manual"
	SourceDemo   ProfileSource = "demo"
)

// SkillSet groups the skills extracted for a user or required by a role.
type SkillSet struct {
	Technical       []string `json:"technical"`
	NonTechnical    []string `json:"nonTechnical"`
	Certifications  []string `json:"certifications,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
}

// Profile is the user's skill profile, created once per session from one
// of the external sources and owned by the state coordinator.
type Profile struct {
	Source  ProfileSource `json:"source"`
	RawText string        `json:"rawText,omitempty"`
	Skills  SkillSet      `json:"skills"`
}

// Role is one entry of the fixed role catalog.
type Role struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      SkillSet `json:"skills"`
}

// ExperienceLevel buckets returned by the gap analysis.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Strength is a skill the user already holds at a useful level.
type Strength struct {
	Skill string `json:"skill"`
	Level string `json:"level"`
}

// CriticalGap is a must-fill skill gap for the target role.
type CriticalGap struct {
	Skill         string `json:"skill"`
	Priority      string `json:"priority"`
	Reason        string `json:"reason"`
	EstimatedDays int    `json:"estimatedDays"`
}

// NiceToHaveGap is an optional skill gap.
type NiceToHaveGap struct {
	Skill  string `json:"skill"`
	Reason string `json:"reason"`
}

// GapAnalysis is the model's (or the fallback catalog's) assessment of a
// profile against a role. ReadinessScore is always within [0,100] and
// CriticalGaps/NiceToHaveGaps are disjoint by skill name after
// normalization.
type GapAnalysis struct {
	ReadinessScore  int             `json:"readinessScore"`
	Strengths       []Strength      `json:"strengths"`
	CriticalGaps    []CriticalGap   `json:"criticalGaps"`
	NiceToHaveGaps  []NiceToHaveGap `json:"niceToHaveGaps"`
	ExperienceLevel string          `json:"experienceLevel"`
	Summary         string          `json:"summary"`

	// Present in model output but optional: zero when omitted.
	WeeklyHoursNeeded      int `json:"weeklyHoursNeeded,omitempty"`
	EstimatedMonthsToReady int `json:"estimatedMonthsToReady,omitempty"`
}

// Resource is a single learning resource attached to a roadmap day.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
}

// Day is one day of the study roadmap.
type Day struct {
	Day              int      `json:"day"`
	Focus            string   `json:"focus"`
	Resource         Resource `json:"resource"`
	Project          string   `json:"project,omitempty"`
	Checkpoint       string   `json:"checkpoint,omitempty"`
	EstimatedMinutes int      `json:"estimatedMinutes,omitempty"`
}

// Week groups seven (or more, in the fallback template) roadmap days
// under a theme.
type Week struct {
	WeekNumber int    `json:"weekNumber"`
	Theme      string `json:"theme"`
	Days       []Day  `json:"days"`
}

// Roadmap is the 30-day study plan. Weeks is never nil. Progress maps
// day keys (see DayKey) to completion; it survives regeneration by being
// merged, never replaced.
type Roadmap struct {
	Weeks    []Week          `json:"weeks"`
	Progress map[string]bool `json:"progress"`
}

// DayKey builds the composite progress key for a week/day pair,
// e.g. DayKey(1, 3) == "w1d3".
func DayKey(week, day int) string {
	return fmt.Sprintf("w%dd%d", week, day)
}

// MessageType classifies an agent diagnostic message.
type MessageType string

const (
	MessageScan     MessageType = "SCAN"
	MessageProcess  MessageType = "PROCESS"
	MessageAnalyze  MessageType = "ANALYZE"
	MessageGenerate MessageType = "GENERATE"
	MessageError    MessageType = "ERROR"
	MessageWarning  MessageType = "WARNING"
	MessageSuccess  MessageType = "SUCCESS"
)

// AgentMessage is one entry of the append-only diagnostic trail. It is
// not business data; the presentation layer consumes it read-only.
type AgentMessage struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}
