package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/gworkspace-mcp/internal/config"
	"github.com/teemow/gworkspace-mcp/internal/google"
	"github.com/teemow/gworkspace-mcp/internal/tools/common"
)

func newToolsCmd() *cobra.Command {
	var (
		outputFile string
		readOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all MCP tools, including the
Google scopes each tool requires. The output is built from the tool
declarations the server registers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown := generateToolsMarkdown(selectTools(allTools(), readOnly))
			if outputFile == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Only document tools that do not modify data")
	return cmd
}

var surfaceTitles = map[google.Surface]string{
	google.SurfaceMail:     "Gmail",
	google.SurfaceCalendar: "Google Calendar",
	google.SurfaceDocs:     "Google Docs",
	google.SurfaceSheets:   "Google Sheets",
	google.SurfaceFiles:    "Google Drive",
}

func generateToolsMarkdown(tools []common.Tool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	fmt.Fprintf(&sb, "This document lists every tool available when running %s as an MCP server.\n\n", config.AppName)
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	groups := make(map[google.Surface][]common.Tool)
	for _, t := range tools {
		groups[t.Surface] = append(groups[t.Surface], t)
	}

	order := append([]google.Surface{""}, google.Surfaces...)

	sb.WriteString("## Table of Contents\n\n")
	for _, s := range order {
		if len(groups[s]) == 0 {
			continue
		}
		title := surfaceTitle(s)
		fmt.Fprintf(&sb, "- [%s](#%s)\n", title, strings.ToLower(strings.ReplaceAll(title, " ", "-")))
	}
	sb.WriteString("\n")

	for _, s := range order {
		group := groups[s]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", surfaceTitle(s))
		for _, t := range group {
			sb.WriteString(generateToolMarkdown(t))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func surfaceTitle(s google.Surface) string {
	if title, ok := surfaceTitles[s]; ok {
		return title
	}
	return "General"
}

func generateToolMarkdown(t common.Tool) string {
	var sb strings.Builder
	tool := common.MCPTool(t)

	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", tool.Description)
	}

	if hints := toolHints(t); hints != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", hints)
	}

	if scopes := t.RequiredScopes(); len(scopes) > 0 {
		sb.WriteString("**Scopes:**\n")
		for _, s := range scopes {
			fmt.Fprintf(&sb, "- `%s`\n", s)
		}
		sb.WriteString("\n")
	}

	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			propMap, ok := tool.InputSchema.Properties[name].(map[string]any)
			if !ok {
				continue
			}

			requiredStr := "optional"
			if slices.Contains(tool.InputSchema.Required, name) {
				requiredStr = "required"
			}

			fmt.Fprintf(&sb, "- `%s` (%s, %s): ", name, getPropertyType(propMap), requiredStr)
			if desc, ok := propMap["description"].(string); ok && desc != "" {
				sb.WriteString(desc)
			} else {
				fmt.Fprintf(&sb, "%s parameter", getPropertyType(propMap))
			}
			if def, ok := propMap["default"]; ok {
				fmt.Fprintf(&sb, " Default: `%v`.", def)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func toolHints(t common.Tool) string {
	var hints []string
	if t.ReadOnly {
		hints = append(hints, "read-only")
	}
	if t.Destructive {
		hints = append(hints, "destructive")
	}
	if t.Idempotent && !t.ReadOnly {
		hints = append(hints, "idempotent")
	}
	return strings.Join(hints, ", ")
}

func getPropertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}
