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

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Generate a cover letter for a CV and job description",
	Run: func(cmd *cobra.Command, _ []string) {
		letter(cmd)
	},
}

func init() {
	rootCmd.AddCommand(letterCmd)

	letterCmd.Flags().StringP("cv", "c", "", "path to the CV file (.pdf, .docx, .txt)")
	letterCmd.Flags().StringP("job", "b", "", "path to the job description text file")
	letterCmd.Flags().String("company", "", "name of the company applied to")
	letterCmd.Flags().Bool("check", false, "run the quality check on the generated letter")

	for _, flag := range []string{"cv", "job", "company"} {
		if err := letterCmd.MarkFlagRequired(flag); err != nil {
			log.Fatalf("marking %s flag required: %v", flag, err)
		}
	}
}

func letter(cmd *cobra.Command) {
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

	company := cmd.Flag("company").Value.String()
	text, err := a.CoverLetter(ctx, cvText, string(jobDescription), company)
	if err != nil {
		logger.Fatal("generating cover letter", zap.Error(err))
	}

	fmt.Println(text)

	if cmd.Flag("check").Value.String() == "true" {
		evaluation, err := a.EvaluateLetter(ctx, text, string(jobDescription), company)
		if err != nil {
			logger.Fatal("evaluating cover letter", zap.Error(err))
		}

		pretty, _ := json.MarshalIndent(evaluation, "", "  ")
		fmt.Println(string(pretty))
	}
}
