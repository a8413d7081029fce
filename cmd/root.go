package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jobkit/cv-copilot/internal/analyzer"
	"github.com/jobkit/cv-copilot/internal/llm"
	"github.com/jobkit/cv-copilot/internal/llm/gemini"
	"github.com/jobkit/cv-copilot/internal/llm/openai"
	"github.com/jobkit/cv-copilot/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "cv-copilot"
)

type Config struct {
	LogDir string        `mapstructure:"log-dir"`
	Models *ModelsConfig `mapstructure:"models"`
	Server *ServerConfig `mapstructure:"server"`
}

type ModelsConfig struct {
	Default         string            `mapstructure:"default"`
	FallbackOrder   []string          `mapstructure:"fallback-order"`
	TaskPreferences map[string]string `mapstructure:"task-preferences"`
	MaxLogLength    int               `mapstructure:"max-log-length"`
	OpenAI          *OpenAIConfig     `mapstructure:"openai"`
	Gemini          *GeminiConfig     `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-copilot analyzes CVs against ATS rules and job descriptions with LLM support",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("models.openai.api-key-file", "OPENAI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding OPENAI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("models.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-copilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-dir", "", "directory for dated log files (disabled when empty)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-dir", rootCmd.PersistentFlags().Lookup("log-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// A missing config file is fine; provider keys may come from the
	// environment. A config file parsed with error is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Models == nil {
		config.Models = &ModelsConfig{}
	}

	return config, nil
}

// buildAnalyzer resolves provider credentials and wires the model manager and
// the analyzer. At least one provider credential must resolve; none at all is
// a startup configuration error.
func buildAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (*analyzer.Analyzer, error) {
	models := config.Models

	var providers []llm.Completer
	available := make(map[string]bool)

	openaiCfg := models.OpenAI
	if openaiCfg == nil {
		openaiCfg = &OpenAIConfig{}
	}
	if key, err := secrets.Load(secrets.Source{
		Name:  "openai api key",
		Value: openaiCfg.APIKey,
		Env:   "OPENAI_API_KEY",
		File:  openaiCfg.APIKeyFile,
	}); err != nil {
		logger.Warn("openai provider unavailable", zap.Error(err))
	} else {
		client, err := openai.NewClient(key, openaiCfg.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("building openai client: %w", err)
		}
		providers = append(providers, client)
		available[client.Name()] = true
	}

	geminiCfg := models.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}
	if key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  geminiCfg.APIKeyFile,
	}); err != nil {
		logger.Warn("gemini provider unavailable", zap.Error(err))
	} else {
		client, err := gemini.NewClient(ctx, key, geminiCfg.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("building gemini client: %w", err)
		}
		providers = append(providers, client)
		available[client.Name()] = true
	}

	if len(providers) == 0 {
		return nil, errors.New("no model provider configured: set OPENAI_API_KEY or GEMINI_API_KEY (or the api-key-file config keys)")
	}

	managerCfg := &llm.ManagerConfig{
		Default:         models.Default,
		FallbackOrder:   filterAvailable(models.FallbackOrder, available),
		TaskPreferences: filterPreferences(models.TaskPreferences, available),
		MaxLogLength:    models.MaxLogLength,
	}
	if !available[strings.TrimSpace(managerCfg.Default)] {
		managerCfg.Default = providers[0].Name()
	}

	manager, err := llm.NewManager(managerCfg, providers, logger)
	if err != nil {
		return nil, fmt.Errorf("building model manager: %w", err)
	}

	return analyzer.New(manager, logger), nil
}

func filterAvailable(names []string, available map[string]bool) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if available[name] {
			out = append(out, name)
		}
	}
	return out
}

func filterPreferences(prefs map[string]string, available map[string]bool) map[string]string {
	out := make(map[string]string, len(prefs))
	for task, name := range prefs {
		if available[name] {
			out[task] = name
		}
	}
	return out
}
