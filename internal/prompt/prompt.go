// Package prompt builds the text prompts sent to the model. All builders
// are pure: they interpolate typed inputs into an instruction requesting
// a specific JSON shape, cap free-text context to bound request size, and
// never fail.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samvrith66/astra/internal/career"
)

const (
	// maxContextChars caps resume/profile free text embedded in a prompt.
	maxContextChars = 10000
	// maxExtractChars caps the resume excerpt for skill extraction.
	maxExtractChars = 2000
)

// BuildGapPrompt produces the gap-analysis prompt for a profile and role.
func BuildGapPrompt(profile career.Profile, role career.Role) string {
	var sb strings.Builder

	sb.WriteString("Analyze skill gap.\n\n")

	sb.WriteString("User skills:\n")
	sb.WriteString(strings.Join(profile.Skills.Technical, ", "))
	if len(profile.Skills.NonTechnical) > 0 {
		sb.WriteString("\nNon-technical: ")
		sb.WriteString(strings.Join(profile.Skills.NonTechnical, ", "))
	}
	if profile.RawText != "" {
		sb.WriteString("\nProfile context: ")
		sb.WriteString(truncate(profile.RawText, maxContextChars))
	}

	sb.WriteString("\n\nTarget role:\n")
	sb.WriteString(role.Title)
	sb.WriteString("\n\nRequired skills for ")
	sb.WriteString(role.Title)
	sb.WriteString(": ")
	sb.WriteString(strings.Join(append(append([]string{}, role.Skills.Technical...), role.Skills.NonTechnical...), ", "))

	sb.WriteString(`

Return JSON format:
{
"readinessScore":number,
"strengths":[{"skill":string,"level":string}],
"criticalGaps":[{"skill":string,"priority":string,"reason":string,"estimatedDays":number}],
"niceToHaveGaps":[{"skill":string,"reason":string}],
"experienceLevel":"beginner|intermediate|advanced",
"summary":string,
"weeklyHoursNeeded":number,
"estimatedMonthsToReady":number
}`)

	return sb.String()
}

// BuildRoadmapPrompt produces the 30-day roadmap prompt from the gap
// analysis outcome.
func BuildRoadmapPrompt(role career.Role, criticalGaps []string, experienceLevel string) string {
	gaps := strings.Join(criticalGaps, ", ")
	if gaps == "" {
		gaps = "Python, Machine Learning"
	}
	if experienceLevel == "" {
		experienceLevel = career.LevelIntermediate
	}

	var sb strings.Builder
	sb.WriteString("Generate 30-day roadmap.\n\n")
	fmt.Fprintf(&sb, "Target role: %s\n", role.Title)
	fmt.Fprintf(&sb, "Person's level: %s\n", experienceLevel)
	fmt.Fprintf(&sb, "Time available: 1-2 hours per day\n\n")
	sb.WriteString("Critical gaps:\n")
	sb.WriteString(gaps)

	sb.WriteString(`

Return JSON format:
{
"weeks":[
{
"weekNumber":number,
"theme":string,
"days":[
{
"day":number,
"focus":string,
"resource":{"title":string,"url":string,"type":"video|article|course|docs"},
"project":string,
"checkpoint":string,
"estimatedMinutes":number
}
]
}
]
}
Exactly 4 weeks of 7 days each, days numbered 1 through 30 continuously.`)

	return sb.String()
}

// BuildSkillExtractionPrompt produces the resume skill-extraction prompt.
func BuildSkillExtractionPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString(`Extract skills from resume.

Return JSON:
{
"technical":[],
"nonTechnical":[],
"certifications":[],
"experienceLevel":"beginner|intermediate|advanced"
}

Resume content:
`)
	sb.WriteString(truncate(text, maxExtractChars))
	return sb.String()
}

// BuildGitHubSkillPrompt produces the skill-extraction prompt for a
// scanned GitHub account.
func BuildGitHubSkillPrompt(username, bio string, languages, topics, repoSummaries []string) string {
	var sb strings.Builder
	sb.WriteString(`Based on this GitHub profile, extract skills as JSON only, no markdown:
{
"technical":["skill1"],
"nonTechnical":["skill1"],
"certifications":[],
"experienceLevel":"beginner|intermediate|advanced"
}
`)
	fmt.Fprintf(&sb, "Username: %s\n", username)
	fmt.Fprintf(&sb, "Languages used: %s\n", strings.Join(languages, ", "))
	fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(topics, ", "))
	fmt.Fprintf(&sb, "Repos: %s\n", truncate(strings.Join(repoSummaries, ", "), maxContextChars))
	if bio == "" {
		bio = "none"
	}
	fmt.Fprintf(&sb, "Bio: %s", bio)
	return sb.String()
}

// BuildReplanPrompt asks the model whether the remaining roadmap weeks
// should be adjusted after a week was completed.
func BuildReplanPrompt(weekNumber int, completedTopics []string, remainingWeeks []career.Week) string {
	completed, _ := json.Marshal(completedTopics)
	remaining, _ := json.Marshal(remainingWeeks)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Week %d of the roadmap is complete.\n", weekNumber)
	fmt.Fprintf(&sb, "Completed topics: %s\n", completed)
	fmt.Fprintf(&sb, "Original plan for remaining weeks: %s\n", truncate(string(remaining), maxContextChars))
	fmt.Fprintf(&sb, "Should the remaining weeks be adjusted?\n")
	fmt.Fprintf(&sb, "If yes, return {\"adjusted\":true,\"weeks\":[...]} with updated JSON for the remaining weeks only (weeks %d to 4).\n", weekNumber+1)
	sb.WriteString(`If no changes needed, return {"adjusted":false}`)
	return sb.String()
}

// truncate caps s to max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
