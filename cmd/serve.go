package cmd

import (
	"context"
	"log"

	"github.com/jobkit/cv-copilot/internal/logger"
	"github.com/jobkit/cv-copilot/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API exposing analyze, match and cover-letter endpoints",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080, overrides server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	debug := viper.GetBool("debug")

	logger, err := logger.New(viper.GetBool("json"), debug, viper.GetString("log-dir"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	addr := defaultAddr
	if config.Server != nil && config.Server.Addr != "" {
		addr = config.Server.Addr
	}

	a, err := buildAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	logger.Info("starting cv-copilot server", zap.String("version", version))

	if err := server.New(a, logger, debug).Run(addr); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
