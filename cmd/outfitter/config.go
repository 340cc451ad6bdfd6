package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		path := cfgFile
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			cobra.CheckErr(err)
		}
		cobra.CheckErr(config.WriteDefault(path, force))
		fmt.Printf("✅ Wrote %s\n", path)
		fmt.Println("💡 Set GITHUB_TOKEN to raise the GitHub API rate limit.")
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		cobra.CheckErr(err)

		token := "(not set)"
		if cfg.GitHubToken != "" {
			token = "(set)"
		}
		fmt.Printf("github_token = %s\n", token)
		fmt.Printf("api_base_url = %s\n", cfg.APIBaseURL)
		fmt.Printf("raw_base_url = %s\n", cfg.RawBaseURL)
		fmt.Printf("base_url     = %s\n", cfg.BaseURL)
		fmt.Printf("format       = %s\n", cfg.Format)
		fmt.Printf("db_path      = %s\n", cfg.DBPath)
		fmt.Printf("concurrency  = %d\n", cfg.Concurrency)
		fmt.Printf("cache_size   = %d\n", cfg.CacheSize)
		fmt.Printf("http_timeout = %s\n", cfg.HTTPTimeout)
		fmt.Printf("log_level    = %s\n", cfg.LogLevel)
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
