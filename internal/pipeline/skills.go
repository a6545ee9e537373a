package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/extract"
	"github.com/samvrith66/astra/internal/github"
	"github.com/samvrith66/astra/internal/prompt"
)

const skillExtractionTimeout = 15 * time.Second

// skillKeywords drives the deterministic fallback scan when the model is
// unavailable during resume ingestion.
var skillKeywords = []string{
	"JavaScript", "Python", "Java", "React", "Node", "HTML", "CSS",
	"MongoDB", "SQL", "Git", "C++", "TensorFlow", "PyTorch", "AWS", "Docker",
}

// SkillExtractor turns raw profile text into a structured skill set.
// Like the other pipelines it never fails: when the model cannot be
// reached, a keyword scan (resume) or the scanned language list (GitHub)
// stands in, so ingestion always yields a usable profile.
type SkillExtractor struct {
	model    Caller
	recorder Recorder
}

// NewSkillExtractor creates a SkillExtractor.
func NewSkillExtractor(model Caller, recorder Recorder) *SkillExtractor {
	return &SkillExtractor{model: model, recorder: recorder}
}

// skillPayload is the decode shape for skill-extraction responses.
type skillPayload struct {
	Technical       []string `json:"technical"`
	NonTechnical    []string `json:"nonTechnical"`
	Certifications  []string `json:"certifications"`
	ExperienceLevel string   `json:"experienceLevel"`
}

// FromResume extracts skills from resume text.
func (e *SkillExtractor) FromResume(ctx context.Context, text string) career.SkillSet {
	callCtx, cancel := context.WithTimeout(ctx, skillExtractionTimeout)
	defer cancel()

	set, err := e.extractSet(callCtx, prompt.BuildSkillExtractionPrompt(text))
	if err != nil {
		slog.Warn("skill extraction failed, using keyword scan", "error", err)
		e.recorder.AppendMessage(career.MessageWarning, "AI unavailable, using keyword extraction.")
		return keywordScan(text)
	}
	return set
}

// FromGitHub extracts skills from a scanned GitHub profile. The scanned
// language list is always merged into the technical skills, model or not.
func (e *SkillExtractor) FromGitHub(ctx context.Context, gh github.RawProfile) career.SkillSet {
	callCtx, cancel := context.WithTimeout(ctx, skillExtractionTimeout)
	defer cancel()

	set, err := e.extractSet(callCtx, prompt.BuildGitHubSkillPrompt(gh.Username, gh.Bio, gh.Languages, gh.Topics, gh.RepoSummaries))
	if err != nil {
		slog.Warn("github skill extraction failed, using scanned languages", "username", gh.Username, "error", err)
		e.recorder.AppendMessage(career.MessageWarning, "AI unavailable, using scanned repository languages.")
		return career.SkillSet{
			Technical:       mergeUnique(gh.Languages, gh.Topics),
			NonTechnical:    []string{"Communication", "Problem Solving"},
			ExperienceLevel: career.LevelIntermediate,
		}
	}
	set.Technical = mergeUnique(gh.Languages, set.Technical)
	return set
}

// extractSet runs one model call and decodes the skill payload.
func (e *SkillExtractor) extractSet(ctx context.Context, p string) (career.SkillSet, error) {
	raw, err := e.model.Generate(ctx, p)
	if err != nil {
		return career.SkillSet{}, err
	}
	var payload skillPayload
	if err := extract.Decode(raw, &payload); err != nil {
		return career.SkillSet{}, err
	}
	return payload.toSkillSet(), nil
}

func (p skillPayload) toSkillSet() career.SkillSet {
	set := career.SkillSet{
		Technical:       p.Technical,
		NonTechnical:    p.NonTechnical,
		Certifications:  p.Certifications,
		ExperienceLevel: p.ExperienceLevel,
	}
	if set.Technical == nil {
		set.Technical = []string{}
	}
	if set.NonTechnical == nil {
		set.NonTechnical = []string{}
	}
	switch set.ExperienceLevel {
	case career.LevelBeginner, career.LevelIntermediate, career.LevelAdvanced:
	default:
		set.ExperienceLevel = career.LevelIntermediate
	}
	return set
}

// keywordScan is the deterministic resume fallback: a case-insensitive
// substring match against a fixed keyword list.
func keywordScan(text string) career.SkillSet {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range skillKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	if len(found) == 0 {
		found = []string{"General Technical Skills"}
	}
	return career.SkillSet{
		Technical:       found,
		NonTechnical:    []string{"Communication", "Problem Solving"},
		ExperienceLevel: career.LevelIntermediate,
	}
}

// mergeUnique concatenates a then b, dropping duplicates
// case-insensitively while preserving order.
func mergeUnique(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
