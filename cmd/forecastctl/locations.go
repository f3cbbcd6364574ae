package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/locationrepo"
)

func newLocationsCmd() *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Query the location hierarchy of a seed file",
	}
	cmd.PersistentFlags().StringVar(&seed, "seed", "configs/locations.yaml", "location seed file")

	tree := &cobra.Command{
		Use:   "tree",
		Short: "Print the location tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadSeedService(cmd.Context(), seed, cmdLogger(cmd))
			if err != nil {
				return err
			}
			nodes, err := svc.Tree(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), nodes)
		},
	}

	var q location.NearestQuery
	nearest := &cobra.Command{
		Use:   "nearest",
		Short: "List spots within range of a point, nearest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadSeedService(cmd.Context(), seed, cmdLogger(cmd))
			if err != nil {
				return err
			}
			matches, err := svc.Nearest(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), matches)
		},
	}
	nearest.Flags().Float64Var(&q.Latitude, "lat", 0, "latitude")
	nearest.Flags().Float64Var(&q.Longitude, "long", 0, "longitude")
	nearest.Flags().Float64Var(&q.RangeKm, "range", location.DefaultRangeKm, "range in km")
	_ = nearest.MarkFlagRequired("lat")
	_ = nearest.MarkFlagRequired("long")

	var name string
	search := &cobra.Command{
		Use:   "search",
		Short: "Rank locations by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadSeedService(cmd.Context(), seed, cmdLogger(cmd))
			if err != nil {
				return err
			}
			found, err := svc.Search(cmd.Context(), name)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), found)
		},
	}
	search.Flags().StringVar(&name, "name", "", "name or fragment")

	var sqlitePath string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the locations of a sqlite snapshot with the seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := importSeed(cmd.Context(), seed, sqlitePath)
			if err != nil {
				return err
			}
			cmdLogger(cmd).Info("locations imported", "count", n, "sqlite", sqlitePath)
			return nil
		},
	}
	importCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "sqlite database path")
	_ = importCmd.MarkFlagRequired("sqlite")

	cmd.AddCommand(tree, nearest, search, importCmd)
	return cmd
}

func loadSeedService(ctx context.Context, path string, logger *slog.Logger) (location.Service, error) {
	records, err := locationrepo.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	svc := location.NewService(locationrepo.NewMemoryRepository(records...), nil, logger)
	if err := svc.Refresh(ctx, "cli"); err != nil {
		return nil, err
	}
	return svc, nil
}

func importSeed(ctx context.Context, seed, sqlitePath string) (int, error) {
	records, err := locationrepo.LoadSeedFile(seed)
	if err != nil {
		return 0, err
	}
	repo, err := locationrepo.OpenSQLite(ctx, sqlitePath)
	if err != nil {
		return 0, err
	}
	defer repo.Close()
	if err := repo.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("import into %s: %w", sqlitePath, err)
	}
	return len(records), nil
}
