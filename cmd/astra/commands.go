package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/config"
)

// --- scan ---

var scanCmd = &cobra.Command{
	Use:   "scan <github-username>",
	Short: "Build a skill profile from a public GitHub account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Scanning GitHub profile @%s...", username)
		resp, err := client.post(cmd.Context(), "/profile/github", map[string]any{"username": username})
		if err != nil {
			return err
		}

		var result struct {
			Profile career.Profile `json:"profile"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Profile built from GitHub data")
		printStatus("Technical", "%s", strings.Join(result.Profile.Skills.Technical, ", "))
		if result.Profile.Skills.ExperienceLevel != "" {
			printStatus("Level", "%s", result.Profile.Skills.ExperienceLevel)
		}
		return nil
	},
}

// --- resume ---

var resumeCmd = &cobra.Command{
	Use:   "resume <file>",
	Short: "Build a skill profile from a resume (PDF, DOCX, HTML, or plain text)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading resume: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Uploading resume %s...", filepath.Base(path))
		resp, err := client.post(cmd.Context(), "/profile/resume", map[string]any{
			"filename": filepath.Base(path),
			"content":  base64.StdEncoding.EncodeToString(data),
		})
		if err != nil {
			return err
		}

		var result struct {
			Profile career.Profile `json:"profile"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Profile built from resume")
		printStatus("Technical", "%s", strings.Join(result.Profile.Skills.Technical, ", "))
		return nil
	},
}

// --- roles ---

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List available target roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/roles")
		if err != nil {
			return err
		}

		var result struct {
			Roles []career.Role `json:"roles"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		for _, r := range result.Roles {
			fmt.Printf("%s  %s\n", colorize(colorCyan, fmt.Sprintf("%-16s", r.ID)), r.Title)
		}
		return nil
	},
}

var roleCmd = &cobra.Command{
	Use:   "role <role-id>",
	Short: "Select the target role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/role", map[string]any{"roleId": args[0]})
		if err != nil {
			return err
		}

		var result struct {
			Role career.Role `json:"role"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Target role: %s", result.Role.Title)
		return nil
	},
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the skill gap between your profile and the target role",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Running gap analysis...")
		resp, err := client.post(cmd.Context(), "/analyze", map[string]any{})
		if err != nil {
			return err
		}

		var result struct {
			Analysis career.GapAnalysis `json:"analysis"`
			Fallback bool               `json:"fallback"`
			Notice   string             `json:"notice"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Fallback {
			printWarning("%s", result.Notice)
		}

		printStatus("Readiness", "%d%%", result.Analysis.ReadinessScore)
		printStatus("Level", "%s", result.Analysis.ExperienceLevel)
		fmt.Println()
		fmt.Println(colorize(colorBold, "Strengths"))
		for _, s := range result.Analysis.Strengths {
			fmt.Printf("  %s (%s)\n", s.Skill, s.Level)
		}
		fmt.Println(colorize(colorBold, "Critical gaps"))
		for _, g := range result.Analysis.CriticalGaps {
			fmt.Printf("  %s — ~%d days: %s\n", colorize(colorRed, g.Skill), g.EstimatedDays, g.Reason)
		}
		if len(result.Analysis.NiceToHaveGaps) > 0 {
			fmt.Println(colorize(colorBold, "Nice to have"))
			for _, g := range result.Analysis.NiceToHaveGaps {
				fmt.Printf("  %s: %s\n", g.Skill, g.Reason)
			}
		}
		if result.Analysis.Summary != "" {
			fmt.Printf("\n%s\n", result.Analysis.Summary)
		}
		return nil
	},
}

// --- roadmap ---

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate and show the 30-day study roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Generating 30-day roadmap...")
		resp, err := client.post(cmd.Context(), "/roadmap", map[string]any{})
		if err != nil {
			return err
		}

		var result struct {
			Roadmap  career.Roadmap `json:"roadmap"`
			Fallback bool           `json:"fallback"`
			Notice   string         `json:"notice"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Fallback {
			printWarning("%s", result.Notice)
		}

		printRoadmap(result.Roadmap)
		return nil
	},
}

var roadmapReplanCmd = &cobra.Command{
	Use:   "replan",
	Short: "Adjust the remaining weeks after completing a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, _ := cmd.Flags().GetInt("week")
		if week < 1 {
			return fmt.Errorf("--week must be a positive week number")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		printStep("Re-evaluating plan after week %d...", week)
		resp, err := client.post(cmd.Context(), "/roadmap/replan", map[string]any{"weekNumber": week})
		if err != nil {
			return err
		}

		var result struct {
			Roadmap  career.Roadmap `json:"roadmap"`
			Adjusted bool           `json:"adjusted"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Adjusted {
			printSuccess("Plan adjusted for the remaining weeks")
		} else {
			printStatus("Plan", "unchanged")
		}
		printRoadmap(result.Roadmap)
		return nil
	},
}

func init() {
	roadmapReplanCmd.Flags().Int("week", 0, "completed week number")
	roadmapCmd.AddCommand(roadmapReplanCmd)
}

func printRoadmap(r career.Roadmap) {
	for _, w := range r.Weeks {
		fmt.Printf("\n%s %s\n", colorize(colorBold, fmt.Sprintf("Week %d:", w.WeekNumber)), w.Theme)
		for _, d := range w.Days {
			mark := "[ ]"
			if r.Progress[career.DayKey(w.WeekNumber, d.Day)] {
				mark = colorize(colorGreen, "[x]")
			}
			fmt.Printf("  %s Day %2d  %s\n", mark, d.Day, d.Focus)
		}
	}
}

// --- progress ---

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or update roadmap progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/state")
		if err != nil {
			return err
		}

		var result struct {
			Roadmap *career.Roadmap `json:"roadmap"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		if result.Roadmap == nil {
			printWarning("No roadmap yet — run `astra roadmap` first")
			return nil
		}

		printRoadmap(*result.Roadmap)
		return nil
	},
}

var progressToggleCmd = &cobra.Command{
	Use:   "toggle <week> <day>",
	Short: "Toggle completion of one roadmap day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid week: %q", args[0])
		}
		day, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid day: %q", args[1])
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/progress/toggle", map[string]any{"week": week, "day": day})
		if err != nil {
			return err
		}

		var result struct {
			Key  string `json:"key"`
			Done bool   `json:"done"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if result.Done {
			printSuccess("Marked %s done", result.Key)
		} else {
			printStatus(result.Key, "not done")
		}
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressToggleCmd)
}

// --- messages ---

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Show the agent diagnostic trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/messages")
		if err != nil {
			return err
		}

		var result struct {
			Messages []career.AgentMessage `json:"messages"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Messages) == 0 {
			fmt.Println("No messages.")
			return nil
		}
		for _, m := range result.Messages {
			fmt.Printf("%s  %s  %s\n",
				m.Timestamp.Format("15:04:05"),
				colorize(colorCyan, fmt.Sprintf("%-8s", m.Type)),
				m.Message,
			)
		}
		return nil
	},
}

// --- reset ---

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the profile, analysis, roadmap, and all progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL session data. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/reset", map[string]any{})
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("All data cleared")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("confirm", false, "confirm the reset")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
