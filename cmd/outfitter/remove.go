package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/services"
)

var removeCmd = &cobra.Command{
	Use:     "remove [plugin-url...]",
	Aliases: []string{"rm"},
	Short:   "Remove plugins and their cached data",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			for _, url := range args {
				if err := s.Controller.RemovePlugin(url); err != nil {
					return err
				}
				fmt.Printf("🗑️  Removed %s\n", url)
			}
			return nil
		}))
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable [plugin-url...]",
	Short: "Include plugins in the combined data",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(setEnabled(args, true))
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable [plugin-url...]",
	Short: "Exclude plugins from the combined data without removing them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(setEnabled(args, false))
	},
}

func setEnabled(urls []string, enabled bool) error {
	return withSession(nil, func(s *services.Session) error {
		for _, url := range urls {
			if err := s.Controller.SetEnabled(url, enabled); err != nil {
				return err
			}
			if enabled {
				fmt.Printf("✅ Enabled %s\n", url)
			} else {
				fmt.Printf("⏸️  Disabled %s\n", url)
			}
		}
		return nil
	})
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
