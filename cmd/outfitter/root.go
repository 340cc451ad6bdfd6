package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/app"
	"github.com/rmartinho/es-outfitter/pkg/config"
	"github.com/rmartinho/es-outfitter/pkg/services"
	"github.com/rmartinho/es-outfitter/pkg/utils"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "outfitter",
	Short: "Browse Endless Sky ships and outfits across plugins",
	Long:  "Aggregate ships, variants and outfits from the base game and GitHub hosted plugins, with a TUI and CLI",
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default; logs would garble the screen.
		cobra.CheckErr(withSession(utils.Discard(), func(s *services.Session) error {
			return app.NewApp(s).Run()
		}))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/es-outfitter/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// withSession restores the saved state, runs fn and saves the state again.
// A nil logger logs to stderr at the configured level.
func withSession(logger *log.Logger, fn func(s *services.Session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logger == nil {
		logger = utils.NewLogger(cfg.LogLevel)
	}

	s, err := services.OpenSession(cfg, logger)
	if err != nil {
		return err
	}
	for _, url := range s.Dropped {
		fmt.Printf("⚠️  Dropped %s: its last load did not finish. Add it again to retry.\n", url)
	}

	runErr := fn(s)
	if err := s.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
