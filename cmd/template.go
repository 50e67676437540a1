package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/courseforge/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect course templates",
}

var templateValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a template and summarize its catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		t, err := template.LoadOrDefault(path)
		if err != nil {
			return err
		}
		if path == "" {
			path = "(built-in)"
		}
		fmt.Printf("%s: ok\n\n", path)
		printCatalog(template.NewCatalog(t))
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a template, or the built-in one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		t, err := template.LoadOrDefault(path)
		if err != nil {
			return err
		}
		data, err := template.Marshal(t)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func printCatalog(c *template.Catalog) {
	md := c.Metadata()
	fmt.Printf("Technologies (%d): %s\n", len(c.TechnologyNames()), strings.Join(c.TechnologyNames(), ", "))
	fmt.Printf("Categories   (%d): %s\n", len(c.CategoryNames()), strings.Join(c.CategoryNames(), ", "))
	fmt.Printf("Levels       (%d): %s\n", len(c.Levels()), strings.Join(c.Levels(), ", "))
	fmt.Printf("Authors      (%d)\n", len(c.Authors()))
	fmt.Printf("Modules      (%d templates)\n", len(c.ModuleTemplates()))
	fmt.Println()
	fmt.Printf("IDs:         %s + %d digits\n", md.IDPrefix, md.IDPadding)
	fmt.Printf("Base price:  %d-%d\n", md.BasePriceRange.Min(), md.BasePriceRange.Max())
	fmt.Printf("Discount:    %d%%\n", md.DiscountPercentage)
	fmt.Printf("Free odds:   %.2f\n", md.FreeCourseProbability)
	fmt.Printf("Certificate: %d-%d%%\n", md.CertificateThresholdRange.Min(), md.CertificateThresholdRange.Max())
}

func init() {
	templateCmd.AddCommand(templateValidateCmd)
	templateCmd.AddCommand(templateShowCmd)
}
