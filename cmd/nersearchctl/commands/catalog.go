package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

func newPingCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check whether the document store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.runCatalog(cmd, func(ctx context.Context, s *session) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Document store alive: %t\n", s.catalog.Ping(ctx))
				return nil
			})
		},
	}
}

func newCreateCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the product index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.runCatalog(cmd, func(ctx context.Context, s *session) error {
				return s.catalog.Create(ctx)
			})
		},
	}
}

func newDropCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Delete the product index and its documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.runCatalog(cmd, func(ctx context.Context, s *session) error {
				return s.catalog.Drop(ctx)
			})
		},
	}
}

func newIngestCommand(g *globals) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load products from a JSON or NDJSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.runCatalog(cmd, func(ctx context.Context, s *session) error {
				stats, err := s.catalog.IngestFile(ctx, dataFile(file, s))
				if err != nil {
					return err
				}
				printStats(cmd, stats)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Product file (default: catalog.data_file from config)")
	return cmd
}

func newResetCommand(g *globals) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop, recreate and reload the product index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.runCatalog(cmd, func(ctx context.Context, s *session) error {
				stats, err := s.catalog.Reset(ctx, dataFile(file, s))
				if err != nil {
					return err
				}
				printStats(cmd, stats)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Product file (default: catalog.data_file from config)")
	return cmd
}

func dataFile(flag string, s *session) string {
	if flag != "" {
		return flag
	}
	return s.cfg.Catalog.DataFile
}

func printStats(cmd *cobra.Command, stats domprod.IngestStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "indexed=%d skipped=%d failed=%d\n",
		stats.Indexed, stats.Skipped, stats.Failed)
}
