// Package api exposes the career-navigation flows over two surfaces: a
// JSON REST API (chi) and an MCP tool server (stdio). Both are thin
// layers over the pipelines and the state coordinator.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/catalog"
	"github.com/samvrith66/astra/internal/github"
	"github.com/samvrith66/astra/internal/resume"
	"github.com/samvrith66/astra/internal/state"
)

const maxRequestBodySize = 1 << 20 // 1MB

// GitHubFetcher is the profile-scan seam. Implemented by github.Client.
type GitHubFetcher interface {
	Fetch(ctx context.Context, username string) (github.RawProfile, error)
}

// SkillSource turns raw profile material into a skill set. Implemented
// by pipeline.SkillExtractor.
type SkillSource interface {
	FromResume(ctx context.Context, text string) career.SkillSet
	FromGitHub(ctx context.Context, gh github.RawProfile) career.SkillSet
}

// Analyzer runs the gap analysis. Implemented by pipeline.GapAnalyzer.
type Analyzer interface {
	Run(ctx context.Context, profile career.Profile, role career.Role) (career.GapAnalysis, bool)
}

// Planner generates and adjusts roadmaps. Implemented by
// pipeline.RoadmapPlanner.
type Planner interface {
	Run(ctx context.Context, role career.Role, criticalGaps []string, experienceLevel string) (career.Roadmap, bool)
	Replan(ctx context.Context, weekNumber int, completedTopics []string, remaining []career.Week) ([]career.Week, bool)
}

// Toggler flips day completion. Implemented by progress.Tracker.
type Toggler interface {
	Toggle(weekNumber, day int) (bool, error)
}

// Deps carries everything the HTTP and MCP surfaces need.
type Deps struct {
	State   *state.Coordinator
	GitHub  GitHubFetcher
	Skills  SkillSource
	Gaps    Analyzer
	Planner Planner
	Tracker Toggler
}

// NewHandler returns the REST API handler.
func NewHandler(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/roles", handleRoles)
	r.Get("/state", handleState(d))
	r.Get("/messages", handleMessages(d))
	r.Post("/profile/github", handleGitHubProfile(d))
	r.Post("/profile/resume", handleResumeProfile(d))
	r.Post("/profile/manual", handleManualProfile(d))
	r.Post("/role", handleSelectRole(d))
	r.Post("/analyze", handleAnalyze(d))
	r.Post("/roadmap", handleRoadmap(d))
	r.Post("/roadmap/replan", handleReplan(d))
	r.Post("/progress/toggle", handleToggle(d))
	r.Post("/reset", handleReset(d))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"roles": catalog.Roles()})
}

func handleState(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{}
		if p, ok := d.State.Profile(); ok {
			resp["profile"] = p
		}
		if role, ok := d.State.Role(); ok {
			resp["role"] = role
		}
		if a, ok := d.State.Analysis(); ok {
			resp["analysis"] = a
		}
		if rm, ok := d.State.Roadmap(); ok {
			resp["roadmap"] = rm
		}
		writeJSON(w, resp)
	}
}

func handleMessages(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"messages": d.State.Messages()})
	}
}

func handleGitHubProfile(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		if req.Username == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "username is required")
			return
		}

		d.State.AppendMessage(career.MessageScan, fmt.Sprintf("Scanning GitHub profile @%s...", req.Username))
		raw, err := d.GitHub.Fetch(r.Context(), req.Username)
		if err != nil {
			if errors.Is(err, github.ErrUserNotFound) {
				d.State.AppendMessage(career.MessageError, fmt.Sprintf("GitHub user @%s not found.", req.Username))
				httpError(w, http.StatusNotFound, "not_found_error", "github user %q not found", req.Username)
				return
			}
			d.State.AppendMessage(career.MessageError, "GitHub scan failed.")
			httpError(w, http.StatusBadGateway, "api_error", "github fetch failed: %v", err)
			return
		}
		d.State.AppendMessage(career.MessageScan, fmt.Sprintf("Found %d public repositories.", raw.PublicRepos))

		skills := d.Skills.FromGitHub(r.Context(), raw)
		profile := career.Profile{
			Source: career.SourceGitHub,
			Skills: skills,
		}
		d.State.SetProfile(profile)
		d.State.AppendMessage(career.MessageProcess, "Profile built from GitHub data.")
		writeJSON(w, map[string]any{"profile": profile, "scan": raw})
	}
}

func handleResumeProfile(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Filename string `json:"filename"`
			Content  string `json:"content"` // base64
		}
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "content must be base64: %v", err)
			return
		}

		d.State.AppendMessage(career.MessageProcess, fmt.Sprintf("Parsing resume %s...", req.Filename))
		text, err := resume.ExtractText(data, req.Filename)
		if err != nil {
			d.State.AppendMessage(career.MessageError, "Could not extract text from resume.")
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "extracting resume text: %v", err)
			return
		}

		skills := d.Skills.FromResume(r.Context(), text)
		profile := career.Profile{
			Source:  career.SourceResume,
			RawText: text,
			Skills:  skills,
		}
		d.State.SetProfile(profile)
		d.State.AppendMessage(career.MessageProcess, "Profile built from resume.")
		writeJSON(w, map[string]any{"profile": profile})
	}
}

func handleManualProfile(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Skills career.SkillSet `json:"skills"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		if len(req.Skills.Technical) == 0 && len(req.Skills.NonTechnical) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "skills must not be empty")
			return
		}
		profile := career.Profile{
			Source: career.SourceManual,
			Skills: req.Skills,
		}
		d.State.SetProfile(profile)
		writeJSON(w, map[string]any{"profile": profile})
	}
}

func handleSelectRole(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			RoleID string `json:"roleId"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		role, ok := catalog.RoleByID(req.RoleID)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found_error", "unknown role %q", req.RoleID)
			return
		}
		d.State.SetRole(role)
		writeJSON(w, map[string]any{"role": role})
	}
}

func handleAnalyze(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := d.State.Profile()
		if !ok {
			httpError(w, http.StatusConflict, "invalid_request_error", "no profile loaded; scan GitHub or upload a resume first")
			return
		}
		role, ok := d.State.Role()
		if !ok {
			httpError(w, http.StatusConflict, "invalid_request_error", "no target role selected")
			return
		}

		analysis, fromFallback := d.Gaps.Run(r.Context(), profile, role)
		d.State.SetAnalysis(analysis)

		resp := map[string]any{"analysis": analysis, "fallback": fromFallback}
		if fromFallback {
			resp["notice"] = "AI analysis unavailable; showing estimated results."
		}
		writeJSON(w, resp)
	}
}

func handleRoadmap(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := d.State.Role()
		if !ok {
			httpError(w, http.StatusConflict, "invalid_request_error", "no target role selected")
			return
		}

		var gaps []string
		level := career.LevelIntermediate
		if analysis, ok := d.State.Analysis(); ok {
			for _, g := range analysis.CriticalGaps {
				gaps = append(gaps, g.Skill)
			}
			level = analysis.ExperienceLevel
		}

		roadmap, fromFallback := d.Planner.Run(r.Context(), role, gaps, level)
		d.State.SetRoadmap(roadmap)

		resp := map[string]any{"roadmap": roadmap, "fallback": fromFallback}
		if fromFallback {
			resp["notice"] = "AI roadmap unavailable; using the built-in template."
		}
		writeJSON(w, resp)
	}
}

func handleReplan(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			WeekNumber int `json:"weekNumber"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		roadmap, ok := d.State.Roadmap()
		if !ok {
			httpError(w, http.StatusConflict, "invalid_request_error", "no roadmap loaded")
			return
		}

		var completed []string
		var remaining []career.Week
		for _, wk := range roadmap.Weeks {
			if wk.WeekNumber <= req.WeekNumber {
				for _, day := range wk.Days {
					completed = append(completed, day.Focus)
				}
				continue
			}
			remaining = append(remaining, wk)
		}
		if len(remaining) == 0 {
			writeJSON(w, map[string]any{"roadmap": roadmap, "adjusted": false})
			return
		}

		adjusted, changed := d.Planner.Replan(r.Context(), req.WeekNumber, completed, remaining)
		if changed {
			kept := make([]career.Week, 0, len(roadmap.Weeks))
			for _, wk := range roadmap.Weeks {
				if wk.WeekNumber <= req.WeekNumber {
					kept = append(kept, wk)
				}
			}
			roadmap.Weeks = append(kept, adjusted...)
			d.State.SetRoadmap(roadmap)
		}
		writeJSON(w, map[string]any{"roadmap": roadmap, "adjusted": changed})
	}
}

func handleToggle(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Week int `json:"week"`
			Day  int `json:"day"`
		}
		if err := decodeBody(w, r, &req); err != nil {
			return
		}
		if req.Week < 1 || req.Day < 1 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "week and day must be positive")
			return
		}
		done, err := d.Tracker.Toggle(req.Week, req.Day)
		if err != nil {
			httpError(w, http.StatusConflict, "invalid_request_error", "%v", err)
			return
		}
		writeJSON(w, map[string]any{"key": career.DayKey(req.Week, req.Day), "done": done})
	}
}

func handleReset(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.State.Reset()
		writeJSON(w, map[string]any{"status": "reset"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
