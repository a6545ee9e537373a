package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/samvrith66/astra/internal/career"
	"github.com/samvrith66/astra/internal/catalog"
	"github.com/samvrith66/astra/internal/github"
)

// NewMCPServer creates an MCP server exposing the career-navigation
// tools and resources, so agent hosts can drive the same flows as the
// REST API.
func NewMCPServer(d Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"astra",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("astra — career skill-gap analysis and 30-day study roadmap planning."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("scan_github",
			mcp.WithDescription("Build a skill profile from a public GitHub account."),
			mcp.WithString("username", mcp.Description("GitHub username"), mcp.Required()),
		),
		mcpScanGitHub(d),
	)

	s.AddTool(
		mcp.NewTool("list_roles",
			mcp.WithDescription("List the available target roles with their required skills."),
		),
		mcpListRoles(),
	)

	s.AddTool(
		mcp.NewTool("select_role",
			mcp.WithDescription("Select the target role for the analysis."),
			mcp.WithString("role_id", mcp.Description("Role identifier (e.g. ml-engineer)"), mcp.Required()),
		),
		mcpSelectRole(d),
	)

	s.AddTool(
		mcp.NewTool("analyze_gap",
			mcp.WithDescription("Analyze the current profile against the selected role and return readiness, strengths, and gaps."),
		),
		mcpAnalyzeGap(d),
	)

	s.AddTool(
		mcp.NewTool("generate_roadmap",
			mcp.WithDescription("Generate a 30-day study roadmap targeting the critical gaps from the latest analysis."),
		),
		mcpGenerateRoadmap(d),
	)

	s.AddTool(
		mcp.NewTool("toggle_day",
			mcp.WithDescription("Toggle completion of one roadmap day."),
			mcp.WithNumber("week", mcp.Description("Week number (1-4)"), mcp.Required()),
			mcp.WithNumber("day", mcp.Description("Day number within the plan"), mcp.Required()),
		),
		mcpToggleDay(d),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"astra://analysis",
			"Gap Analysis",
			mcp.WithResourceDescription("Latest gap analysis as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceAnalysis(d),
	)

	s.AddResource(
		mcp.NewResource(
			"astra://roadmap",
			"Study Roadmap",
			mcp.WithResourceDescription("Current roadmap with progress as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRoadmap(d),
	)

	return s
}

func mcpScanGitHub(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := req.RequireString("username")
		if err != nil {
			return mcpError("username is required"), nil
		}

		d.State.AppendMessage(career.MessageScan, fmt.Sprintf("Scanning GitHub profile @%s...", username))
		raw, err := d.GitHub.Fetch(ctx, username)
		if err != nil {
			if errors.Is(err, github.ErrUserNotFound) {
				return mcpError(fmt.Sprintf("github user %q not found", username)), nil
			}
			return mcpError(fmt.Sprintf("github fetch failed: %v", err)), nil
		}

		skills := d.Skills.FromGitHub(ctx, raw)
		profile := career.Profile{Source: career.SourceGitHub, Skills: skills}
		d.State.SetProfile(profile)

		b, err := json.Marshal(profile)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListRoles() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(catalog.Roles())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal roles: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSelectRole(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		roleID, err := req.RequireString("role_id")
		if err != nil {
			return mcpError("role_id is required"), nil
		}
		role, ok := catalog.RoleByID(roleID)
		if !ok {
			return mcpError(fmt.Sprintf("unknown role %q", roleID)), nil
		}
		d.State.SetRole(role)
		return mcpText(fmt.Sprintf("Selected role: %s", role.Title)), nil
	}
}

func mcpAnalyzeGap(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profile, ok := d.State.Profile()
		if !ok {
			return mcpError("no profile loaded: run scan_github first"), nil
		}
		role, ok := d.State.Role()
		if !ok {
			return mcpError("no role selected: run select_role first"), nil
		}

		analysis, fromFallback := d.Gaps.Run(ctx, profile, role)
		d.State.SetAnalysis(analysis)

		b, err := json.Marshal(map[string]any{"analysis": analysis, "fallback": fromFallback})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGenerateRoadmap(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		role, ok := d.State.Role()
		if !ok {
			return mcpError("no role selected: run select_role first"), nil
		}

		var gaps []string
		level := career.LevelIntermediate
		if analysis, ok := d.State.Analysis(); ok {
			for _, g := range analysis.CriticalGaps {
				gaps = append(gaps, g.Skill)
			}
			level = analysis.ExperienceLevel
		}

		roadmap, fromFallback := d.Planner.Run(ctx, role, gaps, level)
		d.State.SetRoadmap(roadmap)

		b, err := json.Marshal(map[string]any{"roadmap": roadmap, "fallback": fromFallback})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal roadmap: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpToggleDay(d Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		week := req.GetInt("week", 0)
		day := req.GetInt("day", 0)
		if week < 1 || day < 1 {
			return mcpError("week and day must be positive"), nil
		}

		done, err := d.Tracker.Toggle(week, day)
		if err != nil {
			return mcpError(fmt.Sprintf("toggle failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("%s = %t", career.DayKey(week, day), done)), nil
	}
}

func mcpResourceAnalysis(d Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		analysis, ok := d.State.Analysis()
		if !ok {
			return nil, fmt.Errorf("no analysis available")
		}

		b, err := json.Marshal(analysis)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal analysis: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceRoadmap(d Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		roadmap, ok := d.State.Roadmap()
		if !ok {
			return nil, fmt.Errorf("no roadmap available")
		}

		b, err := json.Marshal(roadmap)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal roadmap: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
