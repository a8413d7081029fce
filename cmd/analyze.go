package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jobkit/cv-copilot/internal/analyzer"
	"github.com/jobkit/cv-copilot/internal/document"
	"github.com/jobkit/cv-copilot/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowReport  = "Show full report"
	PromptShowIssues  = "Show ATS issues"
	PromptSaveReport  = "Save report to file"
	PromptExit        = "Exit"
	defaultReportFile = "cv-report.json"
)

var errExit = errors.New("exit requested")

var analyzePrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptShowIssues, PromptSaveReport, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV and report skills, ATS compliance and an overall score",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("cv", "c", "", "path to the CV file (.pdf, .docx, .txt)")
	analyzeCmd.Flags().BoolP("no-interactive", "y", false, "print the report as JSON and exit")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to the given file instead of the prompt menu")

	if err := analyzeCmd.MarkFlagRequired("cv"); err != nil {
		log.Fatalf("marking cv flag required: %v", err)
	}
}

// analyze is the main CLI entrypoint for a single-CV analysis.
func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-dir"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting cv-copilot", zap.String("version", version))

	cvPath := cmd.Flag("cv").Value.String()
	cvText, err := loadCV(cvPath)
	if err != nil {
		logger.Fatal("loading cv", zap.String("path", cvPath), zap.Error(err))
	}

	a, err := buildAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	analysis, err := a.AnalyzeCV(ctx, cvText)
	if err != nil {
		logger.Fatal("analyzing cv", zap.Error(err))
	}

	score := analyzer.Score(analysis)
	logger.Info("analysis ready",
		zap.Float64("score", score),
		zap.Bool("ats_compliant", analysis.ATSCompliance.IsCompliant),
		zap.Float64("format_score", analysis.ATSCompliance.FormatScore),
	)

	if output := cmd.Flag("output").Value.String(); output != "" {
		if err := saveReport(analysis, score, output); err != nil {
			logger.Fatal("saving report", zap.Error(err))
		}
		logger.Info("report saved", zap.String("filename", output))
		return
	}

	if cmd.Flag("no-interactive").Value.String() == "true" {
		pretty, _ := json.MarshalIndent(reportPayload(analysis, score), "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for {
		_, action, err := analyzePrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAnalyzeAction(action, analysis, score, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAnalyzeAction(action string, analysis *analyzer.Analysis, score float64, logger *zap.Logger) error {
	switch action {
	case PromptShowReport:
		pretty, _ := json.MarshalIndent(reportPayload(analysis, score), "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptShowIssues:
		if len(analysis.ATSCompliance.Issues) == 0 {
			fmt.Println("no ATS issues found")
			return nil
		}
		for _, issue := range analysis.ATSCompliance.Issues {
			fmt.Printf("- %s\n", issue)
		}
		return nil
	case PromptSaveReport:
		if err := saveReport(analysis, score, defaultReportFile); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		logger.Info("report saved", zap.String("filename", defaultReportFile))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func reportPayload(analysis *analyzer.Analysis, score float64) map[string]any {
	return map[string]any{
		"analysis": analysis,
		"score":    score,
	}
}

func saveReport(analysis *analyzer.Analysis, score float64, filename string) error {
	data, err := json.MarshalIndent(reportPayload(analysis, score), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func loadCV(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return document.Extract(path, data)
}
