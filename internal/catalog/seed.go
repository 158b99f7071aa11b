package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/ashureev/nextgen-minds/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Parse decodes a catalog document and checks that IDs are present and
// unique per collection.
func Parse(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := checkIDs("career", c.Careers, func(v domain.Career) string { return v.ID }); err != nil {
		return domain.Catalog{}, err
	}
	if err := checkIDs("scholarship", c.Scholarships, func(v domain.Scholarship) string { return v.ID }); err != nil {
		return domain.Catalog{}, err
	}
	if err := checkIDs("college", c.Colleges, func(v domain.College) string { return v.ID }); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

func checkIDs[T any](kind string, items []T, id func(T) string) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		v := id(it)
		if v == "" {
			return fmt.Errorf("%s #%d: missing id", kind, i)
		}
		if seen[v] {
			return fmt.Errorf("%s %q: duplicate id", kind, v)
		}
		seen[v] = true
	}
	return nil
}

// Default returns the embedded seed catalog.
func Default() (domain.Catalog, error) {
	return Parse(seedYAML)
}

// Seeder is the part of the repository seeding needs.
type Seeder interface {
	CatalogSize(ctx context.Context) (int, error)
	ReplaceCatalog(ctx context.Context, catalog domain.Catalog) error
}

// Seed writes c into repo. Unless force is set, a non-empty catalog is left
// alone. Reports whether anything was written.
func Seed(ctx context.Context, repo Seeder, c domain.Catalog, force bool) (bool, error) {
	if !force {
		n, err := repo.CatalogSize(ctx)
		if err != nil {
			return false, err
		}
		if n > 0 {
			slog.Debug("Catalog already seeded", "careers", n)
			return false, nil
		}
	}
	if err := repo.ReplaceCatalog(ctx, c); err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}
	slog.Info("Catalog seeded",
		"careers", len(c.Careers),
		"scholarships", len(c.Scholarships),
		"colleges", len(c.Colleges),
	)
	return true, nil
}
