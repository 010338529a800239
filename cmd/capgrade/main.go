package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/emenda-labs/capgrade/core/cli"
	"github.com/emenda-labs/capgrade/core/config"
	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
	"github.com/emenda-labs/capgrade/core/upgrade"
	"github.com/emenda-labs/capgrade/pkg/cache"
	"github.com/emenda-labs/capgrade/pkg/lockfile"
	"github.com/emenda-labs/capgrade/pkg/registry"
	"github.com/emenda-labs/capgrade/pkg/resolve"
	"github.com/emenda-labs/capgrade/pkg/sources"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runUpgrade := func(ctx context.Context, opts cli.UpgradeOptions) error {
		projectDir := filepath.Dir(opts.Manifest)

		cfg, err := config.Load(projectDir)
		if err != nil {
			return err
		}

		cacheDir := cfg.CacheDir
		if cacheDir == "" {
			cacheDir, err = cache.DefaultDir("capgrade")
			if err != nil {
				return fmt.Errorf("locating cache directory: %w", err)
			}
		}
		metadataCache, err := cache.New(cacheDir, cfg.CacheTTL())
		if err != nil {
			// Non-fatal unless offline: the registry works uncached.
			if opts.Offline {
				return fmt.Errorf("offline mode needs a cache: %w", err)
			}
			metadataCache = nil
		}

		client := registry.NewClient(registry.Options{
			Registries: cfg.Registries,
			Cache:      metadataCache,
			Offline:    opts.Offline,
		})

		describer := source.NewMux(map[manifest.SourceKind]source.Describer{
			manifest.SourceHosted: client,
			manifest.SourcePath:   &sources.Dir{Root: projectDir},
			manifest.SourceGit:    &sources.Static{},
			manifest.SourceSDK:    &sources.Static{},
		})
		lockPath := filepath.Join(projectDir, "project.lock.yaml")
		graphSolver := &resolve.Resolver{Lister: client}
		if lock, err := lockfile.Read(lockPath); err == nil {
			graphSolver.Lock = lock
		}

		engine := &upgrade.Engine{
			Lister:    client,
			Describer: describer,
			Solver:    graphSolver,
			Acquirer: &resolve.Acquirer{
				Solver:   graphSolver,
				LockPath: lockPath,
			},
			Out:         os.Stdout,
			Log:         os.Stderr,
			Concurrency: cfg.ProbeConcurrency(),
		}
		return engine.Run(ctx, upgrade.Options{
			ManifestPath: opts.Manifest,
			Packages:     opts.Packages,
			Feature:      opts.Feature,
			DryRun:       opts.DryRun,
		})
	}

	runClean := func(ctx context.Context) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		cacheDir := cfg.CacheDir
		if cacheDir == "" {
			cacheDir, err = cache.DefaultDir("capgrade")
			if err != nil {
				return fmt.Errorf("locating cache directory: %w", err)
			}
		}
		metadataCache, err := cache.New(cacheDir, cfg.CacheTTL())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		return metadataCache.Clear()
	}

	root := cli.NewRootCmd(version)
	root.AddCommand(cli.NewUpgradeCmd(runUpgrade))
	root.AddCommand(cli.NewCleanCmd(runClean))

	if err := root.ExecuteContext(ctx); err != nil {
		var usageErr *upgrade.UsageError
		var capErr *upgrade.CapabilityUnavailableError
		if errors.As(err, &usageErr) || errors.As(err, &capErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
