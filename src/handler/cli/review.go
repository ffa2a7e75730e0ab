package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"code-reviewer/src/config"
	"code-reviewer/src/controller"
	"code-reviewer/src/service/llm"
	"code-reviewer/src/service/report"
	"code-reviewer/src/util"
)

func (h *Handler) reviewCmd() *cobra.Command {
	var (
		filePath       string
		language       string
		mode           string
		format         string
		outputDir      string
		fix            bool
		minConfidence  string
		write          bool
		patchFile      string
		prompts        bool
		failOnCritical bool
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a source file",
		Long:  "Runs the enabled analyzers against one file, prints or writes a report, and optionally generates and applies fixes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}
			if err := config.ApplyMode(h.cfg, mode); err != nil {
				return err
			}
			if write || patchFile != "" {
				fix = true
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			req := controller.ReviewRequest{
				FilePath:      filePath,
				Language:      language,
				Fix:           fix,
				MinConfidence: minConfidence,
				Prompts:       prompts,
			}
			if filePath == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				req.Code, req.FilePath = string(data), ""
			}

			util.Info("Reviewing %s (mode: %s, timeout: %v)", filePath, orDefault(mode, "config"), timeout)

			reviewCtrl := controller.NewReviewController(h.cfg, h.resolveProvider(ctx))
			resp, err := reviewCtrl.Review(ctx, req)
			if err != nil {
				util.Error("Review failed: %v", err)
				return fmt.Errorf("review failed: %w", err)
			}

			reviewReport := resp.Report()
			reportCtrl := controller.NewReportController(h.cfg)
			if outputDir != "" {
				// report files never carry terminal escapes
				h.cfg.Output.Color = false
				h.cfg.Output.OutputDir = outputDir
				if format != "" {
					h.cfg.Output.Formats = []string{format}
				}
				paths, err := reportCtrl.GenerateReports(reviewReport)
				if err != nil {
					return fmt.Errorf("generating reports: %w", err)
				}
				for _, path := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				}
			} else {
				out := cmd.OutOrStdout()
				if !isTerminal(out) {
					h.cfg.Output.Color = false
				}
				output, err := reportCtrl.GenerateToString(reviewReport, format)
				if err != nil {
					return fmt.Errorf("generating report: %w", err)
				}
				if h.cfg.Output.Color && (format == "markdown" || format == "md") {
					if rendered, err := report.RenderMarkdown(output, terminalWidth(out)); err == nil {
						output = rendered
					} else {
						util.Debug("Markdown rendering failed, printing raw: %v", err)
					}
				}
				fmt.Fprintln(out, output)
			}

			if fr := resp.Result.FixResult; fr != nil && fr.Success {
				if patchFile != "" {
					if _, err := report.WritePatchFile(patchFile, fr.Fixes); err != nil {
						return fmt.Errorf("writing patch: %w", err)
					}
				}
				if write && req.FilePath != "" && resp.FixedCode != resp.Parsed.Content {
					if err := os.WriteFile(req.FilePath, []byte(resp.FixedCode), 0644); err != nil {
						return fmt.Errorf("writing fixed file: %w", err)
					}
					util.Info("Applied %d fixes to %s", fr.AppliedCount, req.FilePath)
				}
			}

			util.L().Info("review finished",
				zap.String("file", reviewReport.Name()),
				zap.Int("issues", resp.Result.TotalIssues),
				zap.Float64("score", resp.Result.QualityScore),
				zap.Bool("passed", resp.Result.Passed),
			)
			if resp.Prompts != nil {
				util.L().Debug("remediation prompts",
					zap.Int("prompts", len(resp.Prompts.Prompts)),
					zap.Int("issues_covered", resp.Prompts.TotalIssuesCovered),
				)
			}

			if failOnCritical && !resp.Result.Passed {
				return fmt.Errorf("%d critical issues found", resp.Result.CriticalCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File to review, or - for stdin (required)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Source language (detected when empty)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Review mode (quick, standard, deep)")
	cmd.Flags().StringVar(&format, "format", "", "Report format (text, json, markdown, csv, sarif)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for report files")
	cmd.Flags().BoolVar(&fix, "fix", false, "Generate fixes for the issues found")
	cmd.Flags().StringVar(&minConfidence, "min-confidence", "", "Lowest fix confidence to apply (low, medium, high, verified, all)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the fixed code back to the file (implies --fix)")
	cmd.Flags().StringVar(&patchFile, "patch", "", "Write fix diffs to this patch file (implies --fix)")
	cmd.Flags().BoolVar(&prompts, "prompts", false, "Generate remediation prompts for the top issue categories")
	cmd.Flags().BoolVar(&failOnCritical, "fail-on-critical", false, "Exit non-zero when critical issues are found")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "Review timeout")

	cmd.MarkFlagRequired("file")

	return cmd
}

// resolveProvider returns the configured LLM provider, or nil when none is
// available. Construction failures are logged and the review runs without one.
func (h *Handler) resolveProvider(ctx context.Context) llm.Provider {
	provider, err := llm.NewProvider(ctx, h.cfg.LLM)
	if errors.Is(err, llm.ErrNoProvider) {
		util.Debug("No LLM provider configured")
		return nil
	}
	if err != nil {
		util.Warn("LLM provider unavailable: %v", err)
		return nil
	}
	util.Debug("Using LLM provider %s", provider.Name())
	return provider
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	return 0
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
