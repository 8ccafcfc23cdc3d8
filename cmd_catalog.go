package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"comply_desk/catalog"
	"comply_desk/config"
	"comply_desk/document"
)

var catalogFile string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the kits in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := catalogFile
		if path == "" {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			path = cfg.CatalogPath
		}
		cat := catalog.Default()
		if path != "" {
			var err error
			if cat, err = catalog.Load(path); err != nil {
				return err
			}
		}
		printCatalog(cmd.OutOrStdout(), cat.Products())
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.docx>",
	Short: "Print the paragraphs of a generated Word document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		paras, err := document.ReadParagraphs(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		printParagraphs(cmd.OutOrStdout(), paras)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFile, "file", "", "products.json to list instead of the configured catalog")
}
