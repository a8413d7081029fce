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

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Analyze a job description: requirements, culture and complexity",
	Run: func(cmd *cobra.Command, _ []string) {
		job(cmd)
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)

	jobCmd.Flags().StringP("job", "b", "", "path to the job description text file")

	if err := jobCmd.MarkFlagRequired("job"); err != nil {
		log.Fatalf("marking job flag required: %v", err)
	}
}

func job(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-dir"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
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

	analysis, err := a.AnalyzeJob(ctx, string(jobDescription))
	if err != nil {
		logger.Fatal("analyzing job description", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(analysis, "", "  ")
	fmt.Println(string(pretty))
}
