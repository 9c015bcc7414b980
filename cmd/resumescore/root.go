package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
)

const (
	app = "resumescore"
)

var (
	// Used for flags.
	cfgFile  string
	settings = viper.New()

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "resumescore scores resumes against an optional target role",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file in YAML format (optional)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = settings.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = settings.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json"))
}

// loadRuntime resolves the configuration and builds the logger for a command.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWith(settings, cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	return cfg, log, nil
}
