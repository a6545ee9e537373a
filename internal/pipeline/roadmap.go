package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/catalog"
	"github.com/samvrith66/astra/internal/extract"
	"github.com/samvrith66/astra/internal/prompt"
)

const defaultRoadmapTimeout = 20 * time.Second

// ProgressSource supplies previously persisted day completion so a
// regenerated roadmap never resets recorded progress. Implemented by
// storage.Store.
type ProgressSource interface {
	LoadProgress() (map[string]bool, error)
}

// RoadmapPlanner runs the roadmap-generation pipeline.
type RoadmapPlanner struct {
	model    Caller
	recorder Recorder
	progress ProgressSource
	timeout  time.Duration
	group    singleflight.Group
}

// NewRoadmapPlanner creates a RoadmapPlanner. timeout <= 0 selects the
// default 20-second budget.
func NewRoadmapPlanner(model Caller, recorder Recorder, progress ProgressSource, timeout time.Duration) *RoadmapPlanner {
	if timeout <= 0 {
		timeout = defaultRoadmapTimeout
	}
	return &RoadmapPlanner{model: model, recorder: recorder, progress: progress, timeout: timeout}
}

type roadmapOutcome struct {
	roadmap  career.Roadmap
	fallback bool
}

// roadmapPayload is the decode shape for the model's roadmap JSON.
type roadmapPayload struct {
	Weeks []career.Week `json:"weeks"`
}

// Run generates a 30-day roadmap for the role and its critical gaps,
// overlaying previously persisted progress onto the result. The returned
// bool reports fallback substitution. Run never returns an error, Weeks
// is never nil, and a model response arriving after the timeout is
// discarded. Concurrent calls for the same role share one execution.
func (p *RoadmapPlanner) Run(ctx context.Context, role career.Role, criticalGaps []string, experienceLevel string) (career.Roadmap, bool) {
	v, _, _ := p.group.Do(role.ID, func() (any, error) {
		return p.run(ctx, role, criticalGaps, experienceLevel), nil
	})
	out := v.(roadmapOutcome)
	return out.roadmap, out.fallback
}

func (p *RoadmapPlanner) run(ctx context.Context, role career.Role, criticalGaps []string, experienceLevel string) roadmapOutcome {
	p.recorder.AppendMessage(career.MessageGenerate, "Designing 30-day protocol...")

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		weeks []career.Week
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		raw, err := p.model.Generate(callCtx, prompt.BuildRoadmapPrompt(role, criticalGaps, experienceLevel))
		if err != nil {
			ch <- result{err: err}
			return
		}
		var payload roadmapPayload
		if err := extract.Decode(raw, &payload); err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{weeks: payload.Weeks}
	}()

	var roadmap career.Roadmap
	var fromFallback bool
	select {
	case res := <-ch:
		if res.err != nil {
			slog.Warn("roadmap generation failed, using template", "role", role.ID, "error", res.err)
			roadmap = catalog.FallbackRoadmap()
			fromFallback = true
		} else {
			roadmap = career.Roadmap{Weeks: res.weeks}
			if roadmap.Weeks == nil {
				roadmap.Weeks = []career.Week{}
			}
		}
	case <-callCtx.Done():
		slog.Warn("roadmap generation timed out, using template", "role", role.ID, "timeout", p.timeout)
		roadmap = catalog.FallbackRoadmap()
		fromFallback = true
	}

	roadmap.Progress = p.mergedProgress()

	if fromFallback {
		p.recorder.AppendMessage(career.MessageError, "Roadmap generation failed — using built-in template")
	} else {
		p.recorder.AppendMessage(career.MessageGenerate, "Roadmap ready.")
	}
	return roadmapOutcome{roadmap: roadmap, fallback: fromFallback}
}

// mergedProgress reads the persisted completion map. Regeneration must
// never erase what the user already checked off, so the stored map is
// carried over wholesale; keys for days absent from the new roadmap are
// tolerated and ignored at aggregation time.
func (p *RoadmapPlanner) mergedProgress() map[string]bool {
	stored, err := p.progress.LoadProgress()
	if err != nil {
		slog.Warn("loading persisted progress failed, starting empty", "error", err)
		return map[string]bool{}
	}
	if stored == nil {
		return map[string]bool{}
	}
	return stored
}

// replanPayload is the decode shape for a replan response.
type replanPayload struct {
	Adjusted bool          `json:"adjusted"`
	Weeks    []career.Week `json:"weeks"`
}

// Replan asks the model whether the remaining weeks should change after
// weekNumber was completed. On any failure, or when the model answers
// {"adjusted": false}, the remaining weeks are returned unchanged and
// the bool is false.
func (p *RoadmapPlanner) Replan(ctx context.Context, weekNumber int, completedTopics []string, remaining []career.Week) ([]career.Week, bool) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.model.Generate(callCtx, prompt.BuildReplanPrompt(weekNumber, completedTopics, remaining))
	if err != nil {
		slog.Warn("replan failed, keeping current plan", "week", weekNumber, "error", err)
		return remaining, false
	}

	var payload replanPayload
	if err := extract.Decode(raw, &payload); err != nil {
		slog.Warn("replan response malformed, keeping current plan", "week", weekNumber, "error", err)
		return remaining, false
	}
	if !payload.Adjusted || len(payload.Weeks) == 0 {
		return remaining, false
	}

	p.recorder.AppendMessage(career.MessageGenerate, fmt.Sprintf("Adjusted plan for weeks %d-4.", weekNumber+1))
	return payload.Weeks, true
}
