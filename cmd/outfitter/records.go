package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/rmartinho/es-outfitter/pkg/services"
)

var shipsCmd = &cobra.Command{
	Use:   "ships",
	Short: "List ships from all enabled plugins",
	Run: func(cmd *cobra.Command, args []string) {
		category, search := recordFilters(cmd)
		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			d := s.Controller.Data()
			rows := []table.Row{}
			for _, name := range sortedKeys(d.Ships) {
				ship := d.Ships[name]
				if !matches(ship.Name, ship.Category, category, search) {
					continue
				}
				rows = append(rows, table.Row{
					truncateString(ship.Name, 34),
					truncateString(ship.Category, 20),
					fmt.Sprintf("%d", ship.Guns),
					fmt.Sprintf("%d", ship.Turrets),
					fmt.Sprintf("%d", ship.Bays),
				})
			}
			printRecords("🚀 Ships", []table.Column{
				{Title: "Name", Width: 36},
				{Title: "Category", Width: 22},
				{Title: "Guns", Width: 6},
				{Title: "Turrets", Width: 8},
				{Title: "Bays", Width: 6},
			}, rows)
			return nil
		}))
	},
}

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List ship variants from all enabled plugins",
	Run: func(cmd *cobra.Command, args []string) {
		_, search := recordFilters(cmd)
		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			d := s.Controller.Data()
			rows := []table.Row{}
			for _, name := range sortedKeys(d.Variants) {
				v := d.Variants[name]
				if !matches(v.Name, "", "", search) {
					continue
				}
				rows = append(rows, table.Row{
					truncateString(v.Name, 34),
					truncateString(v.Base, 24),
					optionalCount(v.Guns),
					optionalCount(v.Turrets),
					optionalCount(v.Bays),
				})
			}
			printRecords("🛠️  Variants", []table.Column{
				{Title: "Name", Width: 36},
				{Title: "Base", Width: 26},
				{Title: "Guns", Width: 6},
				{Title: "Turrets", Width: 8},
				{Title: "Bays", Width: 6},
			}, rows)
			return nil
		}))
	},
}

var outfitsCmd = &cobra.Command{
	Use:   "outfits",
	Short: "List outfits from all enabled plugins",
	Run: func(cmd *cobra.Command, args []string) {
		category, search := recordFilters(cmd)
		cobra.CheckErr(withSession(nil, func(s *services.Session) error {
			d := s.Controller.Data()
			rows := []table.Row{}
			for _, name := range sortedKeys(d.Outfits) {
				o := d.Outfits[name]
				if !matches(o.Name, o.Category, category, search) {
					continue
				}
				rows = append(rows, table.Row{
					truncateString(o.Name, 38),
					truncateString(o.Category, 24),
				})
			}
			printRecords("🔧 Outfits", []table.Column{
				{Title: "Name", Width: 40},
				{Title: "Category", Width: 26},
			}, rows)
			return nil
		}))
	},
}

func init() {
	for _, c := range []*cobra.Command{shipsCmd, variantsCmd, outfitsCmd} {
		c.Flags().StringP("search", "s", "", "only show records whose name contains this text")
		if c != variantsCmd {
			c.Flags().StringP("category", "c", "", "only show records of this category")
		}
		rootCmd.AddCommand(c)
	}
}

func recordFilters(cmd *cobra.Command) (category, search string) {
	category, _ = cmd.Flags().GetString("category")
	search, _ = cmd.Flags().GetString("search")
	return category, search
}

func matches(name, recordCategory, category, search string) bool {
	if category != "" && !strings.EqualFold(recordCategory, category) {
		return false
	}
	return search == "" || strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

func printRecords(title string, columns []table.Column, rows []table.Row) {
	if len(rows) == 0 {
		fmt.Println("📭 Nothing to show. Add plugins with 'outfitter add <url>' or check your filters.")
		return
	}
	fmt.Printf("\n%s (%d)\n\n", title, len(rows))
	fmt.Println(renderTable(columns, rows))
}

func optionalCount(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
