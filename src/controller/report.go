package controller

import (
	"os"
	"path/filepath"
	"strings"

	"code-reviewer/src/config"
	"code-reviewer/src/model"
	"code-reviewer/src/service/report"
	"code-reviewer/src/util"
)

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports generates reports in all configured formats
func (c *ReportController) GenerateReports(reviewReport *model.ReviewReport) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	reportGenerator := report.NewGenerator(c.cfg.Output)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		output, err := reportGenerator.Generate(reviewReport, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(reviewReport.FilePath, format)
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			util.Error("Failed to create output directory: %v", err)
			return nil, err
		}
		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToString generates a report to a string
func (c *ReportController) GenerateToString(reviewReport *model.ReviewReport, format string) (string, error) {
	reportGenerator := report.NewGenerator(c.cfg.Output)
	return reportGenerator.Generate(reviewReport, format)
}

func (c *ReportController) getOutputPath(filePath, format string) string {
	base := "input"
	if filePath != "" {
		base = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	filename := base + "-review." + report.Extension(format)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}
