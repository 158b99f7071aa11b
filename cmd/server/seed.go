package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ashureev/nextgen-minds/internal/catalog"
	"github.com/ashureev/nextgen-minds/internal/domain"
	"github.com/ashureev/nextgen-minds/internal/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the career, scholarship and college catalog",
	Long: `Loads the catalog into the database. Without --file the built-in
catalog is used. An existing catalog is left alone unless --force is set.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().Bool("force", false, "replace an existing catalog")
	seedCmd.Flags().String("file", "", "YAML catalog to load instead of the built-in one")
	seedCmd.Flags().String("db", "", "database path (defaults to DATABASE_URL)")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	file, _ := cmd.Flags().GetString("file")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = os.Getenv("DATABASE_URL")
	}
	if dbPath == "" {
		dbPath = "./data/nextgen.db"
	}

	var (
		c   domain.Catalog
		err error
	)
	if file != "" {
		data, readErr := os.ReadFile(file)
		if readErr != nil {
			return fmt.Errorf("read catalog: %w", readErr)
		}
		c, err = catalog.Parse(data)
	} else {
		c, err = catalog.Default()
	}
	if err != nil {
		return err
	}

	repo, err := store.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer repo.Close()

	wrote, err := catalog.Seed(cmd.Context(), repo, c, force)
	if err != nil {
		return err
	}
	slog.Info("Seed finished",
		"written", wrote,
		"careers", len(c.Careers),
		"scholarships", len(c.Scholarships),
		"colleges", len(c.Colleges),
	)
	return nil
}
