package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"code-reviewer/src/service/analyzer"
	"code-reviewer/src/service/parser"
	"code-reviewer/src/service/report"
)

func (h *Handler) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.cfg.Agent.Name, h.cfg.Agent.Version)
		},
	}
}

func (h *Handler) analyzersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyzers",
		Short: "List available analyzers",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available analyzers:")
			for _, d := range analyzer.Descriptions {
				state := "disabled"
				if analyzer.Enabled(h.cfg, d.Name) {
					state = "enabled"
				}
				fmt.Fprintf(out, "  - %-12s: %s (%s)\n", d.Name, d.Description, state)
			}
			fmt.Fprintln(out, "")
			fmt.Fprintf(out, "Structured languages: %s\n", strings.Join(parser.SupportedLanguages(), ", "))
			fmt.Fprintf(out, "Report formats: %s\n", strings.Join(report.Formats, ", "))
		},
	}
}
