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

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a CV against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("cv", "c", "", "path to the CV file (.pdf, .docx, .txt)")
	matchCmd.Flags().StringP("job", "b", "", "path to the job description text file")

	for _, flag := range []string{"cv", "job"} {
		if err := matchCmd.MarkFlagRequired(flag); err != nil {
			log.Fatalf("marking %s flag required: %v", flag, err)
		}
	}
}

func match(cmd *cobra.Command) {
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

	result, err := a.MatchJob(ctx, cvText, string(jobDescription))
	if err != nil {
		logger.Fatal("matching job", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}
