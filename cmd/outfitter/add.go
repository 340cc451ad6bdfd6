package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/data"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

var addCmd = &cobra.Command{
	Use:   "add [plugin-url...]",
	Short: "Add plugins and load their data",
	Long: "Register GitHub hosted plugins (https://github.com/owner/repo[/tree/branch/dir]) and load their data files.\n" +
		"The base game is added first unless --no-base is given.",
	Run: func(cmd *cobra.Command, args []string) {
		noBase, _ := cmd.Flags().GetBool("no-base")

		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			if err := addPlugins(cmd.Context(), s.Controller, args, !noBase); err != nil {
				return err
			}
			printLoadResults(s.Controller)
			return nil
		}))
	},
}

// addPlugins checks every URL before starting any load, then waits for all
// loads it started, even when one of them could not be added.
func addPlugins(ctx context.Context, c *services.Controller, urls []string, withBase bool) error {
	var invalid []error
	for _, url := range urls {
		if _, err := services.Identify(url); err != nil {
			invalid = append(invalid, err)
		}
	}
	if len(invalid) > 0 {
		return errors.Join(invalid...)
	}

	if withBase {
		st, err := c.EnsureBase(ctx)
		if err != nil {
			return fmt.Errorf("failed to add base game: %w", err)
		}
		if st != nil {
			fmt.Printf("🚀 Adding base game from %s\n", st.URL())
		}
	}

	var errs []error
	for _, url := range urls {
		if st, ok := c.State(url); ok {
			fmt.Printf("ℹ️  %s is already added (%s)\n", url, describeProgress(st.Progress()))
			continue
		}
		if _, err := c.AddPlugin(ctx, url); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Printf("➕ Adding %s\n", url)
	}

	errs = append(errs, waitWithProgress(ctx, c))
	return errors.Join(errs...)
}

func init() {
	addCmd.Flags().Bool("no-base", false, "do not add the base game")

	rootCmd.AddCommand(addCmd)
}

// waitWithProgress prints progress events until every load has finished.
func waitWithProgress(ctx context.Context, c *services.Controller) error {
	done := make(chan error, 1)
	go func() {
		done <- c.Wait(ctx)
	}()

	for {
		select {
		case e := <-c.Events():
			if e.Progress.IsLoading && e.Progress.Total != nil {
				fmt.Printf("⏳ %s: %d/%d data files\n", e.URL, e.Progress.Progress, *e.Progress.Total)
			}
		case err := <-done:
			return err
		}
	}
}

func printLoadResults(c *services.Controller) {
	for _, p := range c.Plugins() {
		st, ok := c.State(p.URL)
		if !ok {
			continue
		}
		progress := st.Progress()
		if progress.Failed() {
			fmt.Printf("❌ %s: %s\n", p.URL, progress.Error)
			continue
		}
		d, _ := c.PluginData(p.URL)
		fmt.Printf("✅ %s: %d ships, %d variants, %d outfits\n",
			p.URL, len(d.Ships), len(d.Variants), len(d.Outfits))
	}
}

func describeProgress(p data.LoadProgress) string {
	switch {
	case p.Failed():
		return "failed: " + p.Error
	case p.IsLoading && p.Total == nil:
		return "resolving"
	case p.IsLoading:
		return fmt.Sprintf("loading %d/%d", p.Progress, *p.Total)
	case p.Total != nil:
		return fmt.Sprintf("loaded %d files", *p.Total)
	default:
		return "loaded"
	}
}
