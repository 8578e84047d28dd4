package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jason-s-yu/bang/internal/catalog"
	"github.com/jason-s-yu/bang/internal/models"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate, export and seed card catalogs",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the configured catalog and report problems",
	Long: `Check loads the catalog selected by --catalog-source, prints how many cards of each
name it holds and fails if the set cannot deal a full table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		source, release, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer release()

		cards, err := source.GetAll(ctx)
		if err != nil {
			return err
		}
		census := catalog.Census(cards)
		names := make([]models.CardName, 0, len(census))
		for name := range census {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

		n := newNarrator(os.Stdout)
		fmt.Printf("%d cards from %s\n", len(cards), cfg.CatalogSource)
		for _, name := range names {
			fmt.Printf("  %-14s %d\n", name, census[name])
		}

		problems := catalog.Check(cards)
		if len(problems) == 0 {
			n.result.Println("catalog is playable")
			return nil
		}
		for i, p := range problems {
			n.death.Printf("%d. %s\n", i+1, p)
		}
		return fmt.Errorf("catalog has %d problems", len(problems))
	},
}

var exportName string

var catalogExportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the configured catalog as TOML (stdout without a path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		source, release, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer release()
		cards, err := source.GetAll(ctx)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return catalog.WriteFile(w, exportName, cards)
	},
}

var seedFrom string

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog table with the builtin deck or a TOML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cards := catalog.Classic()
		if seedFrom != "" {
			var err error
			if cards, err = (catalog.File{Path: seedFrom}).GetAll(ctx); err != nil {
				return err
			}
		}
		if problems := catalog.Check(cards); len(problems) > 0 {
			return fmt.Errorf("refusing to seed an unplayable catalog: %v", problems)
		}

		pool, err := connectDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := (catalog.Postgres{Pool: pool, Table: cfg.CatalogTable}).Seed(ctx, cards); err != nil {
			return err
		}
		logger.WithField("cards", len(cards)).Infof("seeded %s", cfg.CatalogTable)
		return nil
	},
}

func init() {
	catalogExportCmd.Flags().StringVar(&exportName, "name", "classic", "deck name written to the [deck] table")
	catalogSeedCmd.Flags().StringVar(&seedFrom, "from", "", "TOML catalog to seed from (default builtin deck)")
	catalogCmd.AddCommand(catalogCheckCmd, catalogExportCmd, catalogSeedCmd)
}
