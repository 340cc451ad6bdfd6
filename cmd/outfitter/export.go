package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/integrations"
	"github.com/rmartinho/es-outfitter/pkg/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the combined data as an EPUB catalog",
	Long:  "Write every ship, variant and outfit from the enabled plugins to an EPUB file, with thumbnails",
	Run: func(cmd *cobra.Command, args []string) {
		outputDir, _ := cmd.Flags().GetString("output")
		title, _ := cmd.Flags().GetString("title")
		noImages, _ := cmd.Flags().GetBool("no-images")
		size, _ := cmd.Flags().GetInt("thumbnail-size")

		if outputDir == "" {
			homeDir, _ := os.UserHomeDir()
			outputDir = filepath.Join(homeDir, "Downloads")
		}

		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			var images integrations.ImageFetcher
			if !noImages {
				images = s.API
			}
			settings := integrations.DefaultThumbnailSettings()
			settings.MaxWidth, settings.MaxHeight = size, size

			d := s.Controller.Data()
			fmt.Printf("📖 Exporting %d ships, %d variants, %d outfits...\n",
				len(d.Ships), len(d.Variants), len(d.Outfits))

			builder := integrations.NewCatalogBuilder(outputDir, images, integrations.NewThumbnailProcessor(settings))
			path, err := builder.CreateCatalog(cmd.Context(), title, d)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Catalog written to %s\n", path)
			return nil
		}))
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output directory (default ~/Downloads)")
	exportCmd.Flags().StringP("title", "t", "Endless Sky Catalog", "catalog title")
	exportCmd.Flags().Bool("no-images", false, "skip thumbnails")
	exportCmd.Flags().Int("thumbnail-size", 240, "maximum thumbnail width and height in pixels")

	rootCmd.AddCommand(exportCmd)
}
