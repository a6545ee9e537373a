// Package pipeline orchestrates the model-backed analysis flows:
// prompt construction, the model call, response extraction, and the
// timeout race against the fallback catalog. Pipelines never fail past
// their own boundary — every failure path resolves to a renderable
// value, because the caller must always have data to show.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/catalog"
	"github.com/samvrith66/astra/internal/extract"
	"github.com/samvrith66/astra/internal/prompt"
)

const defaultAnalysisTimeout = 15 * time.Second

// Caller is the model seam. Implemented by gemini.Client.
type Caller interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder receives diagnostic trail entries. Implemented by
// state.Coordinator.
type Recorder interface {
	AppendMessage(typ career.MessageType, text string) career.AgentMessage
}

// GapAnalyzer runs the gap-analysis pipeline.
type GapAnalyzer struct {
	model    Caller
	recorder Recorder
	timeout  time.Duration
	group    singleflight.Group
}

// NewGapAnalyzer creates a GapAnalyzer. timeout <= 0 selects the default
// 15-second budget.
func NewGapAnalyzer(model Caller, recorder Recorder, timeout time.Duration) *GapAnalyzer {
	if timeout <= 0 {
		timeout = defaultAnalysisTimeout
	}
	return &GapAnalyzer{model: model, recorder: recorder, timeout: timeout}
}

type gapOutcome struct {
	analysis career.GapAnalysis
	fallback bool
}

// Run analyzes profile against role. The returned bool reports whether
// the fallback catalog was substituted; callers must surface that to the
// user. Run never returns an error: on any model failure or timeout the
// deterministic fallback is committed and the model call's eventual late
// result, if any, is discarded. Concurrent calls for the same role share
// one execution.
func (g *GapAnalyzer) Run(ctx context.Context, profile career.Profile, role career.Role) (career.GapAnalysis, bool) {
	v, _, _ := g.group.Do(role.ID, func() (any, error) {
		return g.run(ctx, profile, role), nil
	})
	out := v.(gapOutcome)
	return out.analysis, out.fallback
}

func (g *GapAnalyzer) run(ctx context.Context, profile career.Profile, role career.Role) gapOutcome {
	g.recorder.AppendMessage(career.MessageAnalyze, fmt.Sprintf("Starting analysis for %s...", role.Title))

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		analysis career.GapAnalysis
		err      error
	}

	// Buffered so the losing branch's late send never blocks; the value
	// is simply discarded once the race has settled.
	ch := make(chan result, 1)
	go func() {
		raw, err := g.model.Generate(callCtx, prompt.BuildGapPrompt(profile, role))
		if err != nil {
			ch <- result{err: err}
			return
		}
		var payload gapPayload
		if err := extract.Decode(raw, &payload); err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{analysis: payload.normalize()}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			slog.Warn("gap analysis failed, using fallback", "role", role.ID, "error", res.err)
			g.recorder.AppendMessage(career.MessageError, "AI analysis failed — showing estimated results")
			return gapOutcome{analysis: catalog.FallbackGapAnalysis(), fallback: true}
		}
		g.recorder.AppendMessage(career.MessageAnalyze, fmt.Sprintf("Analysis complete. Readiness: %d%%", res.analysis.ReadinessScore))
		return gapOutcome{analysis: res.analysis}
	case <-callCtx.Done():
		slog.Warn("gap analysis timed out, using fallback", "role", role.ID, "timeout", g.timeout)
		g.recorder.AppendMessage(career.MessageError, "AI analysis failed — showing estimated results")
		return gapOutcome{analysis: catalog.FallbackGapAnalysis(), fallback: true}
	}
}

// gapPayload is the decode shape for the model's gap-analysis JSON.
// Pointer fields distinguish "absent" from a genuine zero so defaulting
// rules can apply.
type gapPayload struct {
	ReadinessScore         *int                   `json:"readinessScore"`
	Strengths              []career.Strength      `json:"strengths"`
	CriticalGaps           []career.CriticalGap   `json:"criticalGaps"`
	NiceToHaveGaps         []career.NiceToHaveGap `json:"niceToHaveGaps"`
	ExperienceLevel        string                 `json:"experienceLevel"`
	Summary                string                 `json:"summary"`
	WeeklyHoursNeeded      int                    `json:"weeklyHoursNeeded"`
	EstimatedMonthsToReady int                    `json:"estimatedMonthsToReady"`
}

// normalize applies the defaulting rules: clamp the score to [0,100]
// (absent → 50), coerce nil slices to empty, default the experience
// level, and drop nice-to-have entries duplicated in the critical list
// so the two gap sets stay disjoint by skill name.
func (p gapPayload) normalize() career.GapAnalysis {
	score := 50
	if p.ReadinessScore != nil {
		score = *p.ReadinessScore
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	strengths := p.Strengths
	if strengths == nil {
		strengths = []career.Strength{}
	}
	critical := p.CriticalGaps
	if critical == nil {
		critical = []career.CriticalGap{}
	}

	criticalSkills := make(map[string]struct{}, len(critical))
	for _, g := range critical {
		criticalSkills[strings.ToLower(g.Skill)] = struct{}{}
	}
	nice := make([]career.NiceToHaveGap, 0, len(p.NiceToHaveGaps))
	for _, g := range p.NiceToHaveGaps {
		if _, dup := criticalSkills[strings.ToLower(g.Skill)]; dup {
			continue
		}
		nice = append(nice, g)
	}

	level := p.ExperienceLevel
	switch level {
	case career.LevelBeginner, career.LevelIntermediate, career.LevelAdvanced:
	default:
		level = career.LevelIntermediate
	}

	return career.GapAnalysis{
		ReadinessScore:         score,
		Strengths:              strengths,
		CriticalGaps:           critical,
		NiceToHaveGaps:         nice,
		ExperienceLevel:        level,
		Summary:                p.Summary,
		WeeklyHoursNeeded:      p.WeeklyHoursNeeded,
		EstimatedMonthsToReady: p.EstimatedMonthsToReady,
	}
}
