// Package commands implements the nersearchctl command tree.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nersearch/internal/config"
	"github.com/kailas-cloud/nersearch/internal/db/factory"
	logpkg "github.com/kailas-cloud/nersearch/internal/logger"
	productrepo "github.com/kailas-cloud/nersearch/internal/repository/product"
	"github.com/kailas-cloud/nersearch/internal/usecase/catalog"
	"github.com/kailas-cloud/nersearch/internal/version"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	env        string
	configPath string
}

// NewRootCommand builds the nersearchctl command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:          "nersearchctl",
		Short:        "Manage the nersearch product index",
		Version:      version.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.env, "env", config.GetEnv(), "Environment name (local, docker, prod)")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Explicit config file (overrides --env lookup)")

	root.AddCommand(
		newPingCommand(g),
		newCreateCommand(g),
		newDropCommand(g),
		newIngestCommand(g),
		newResetCommand(g),
		newQueryCommand(),
	)
	return root
}

func (g *globals) loadConfig() (config.Config, error) {
	if g.configPath != "" {
		return config.LoadFile(g.configPath)
	}
	return config.Load(g.env)
}

// session is an open document store with a catalog service on top.
type session struct {
	cfg     config.Config
	catalog *catalog.Service
	logger  *zap.Logger
	close   func()
}

func (g *globals) open(ctx context.Context) (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.NewLogger(g.env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := factory.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	repo, err := productrepo.New(store, cfg.Search.Index)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Debug("Opened document store",
		zap.String("driver", cfg.Database.Driver),
		zap.Strings("addrs", cfg.Database.Addrs),
		zap.String("index", repo.IndexName()),
	)

	return &session{
		cfg:     cfg,
		catalog: catalog.New(repo, store, logger),
		logger:  logger,
		close: func() {
			store.Close()
			_ = logger.Sync()
		},
	}, nil
}

// runCatalog opens a session, runs fn and always releases the session.
func (g *globals) runCatalog(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(ctx, s)
}
