package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jobkit/cv-copilot/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite a CV for a better ATS match against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		optimize(cmd)
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringP("cv", "c", "", "path to the CV file (.pdf, .docx, .txt)")
	optimizeCmd.Flags().StringP("job", "b", "", "path to the job description text file")

	for _, flag := range []string{"cv", "job"} {
		if err := optimizeCmd.MarkFlagRequired(flag); err != nil {
			log.Fatalf("marking %s flag required: %v", flag, err)
		}
	}
}

func optimize(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-dir"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	cvPath := cmd.Flag("cv").Value.String()
	cvText, err := loadCV(cvPath)
	if err != nil {
		logger.Fatal("loading cv", zap.String("path", cvPath), zap.Error(err))
	}

	jobPath := cmd.Flag("job").Value.String()
	jobDescription, err := os.ReadFile(jobPath)
	if err != nil {
		logger.Fatal("loading job description", zap.String("path", jobPath), zap.Error(err))
	}

	a, err := buildAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	result, err := a.OptimizeCV(ctx, cvText, string(jobDescription))
	if err != nil {
		logger.Fatal("optimizing cv", zap.Error(err))
	}

	validation, err := a.ValidateOptimization(ctx, result.OptimizedCV, string(jobDescription))
	if err != nil {
		logger.Fatal("validating optimization", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(map[string]any{
		"optimization": result,
		"validation":   validation,
	}, "", "  ")
	fmt.Println(string(pretty))
}
