package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ralt/updatelist/internal/cache"
	"github.com/ralt/updatelist/internal/config"
	"github.com/ralt/updatelist/internal/keyring"
	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// loadConfig layers the configuration and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	flags := cmd.Flags()
	root, _ := flags.GetString("root")
	configFile, _ := flags.GetString("config")

	cfg, err := config.Load(root, configFile)
	if err != nil {
		return nil, err
	}

	if flags.Changed("dist") {
		cfg.Dist, _ = flags.GetString("dist")
	}
	if flags.Changed("arch") {
		cfg.Architecture, _ = flags.GetString("arch")
	}
	if flags.Changed("always-include-phased") {
		cfg.AlwaysIncludePhasedUpdates, _ = flags.GetBool("always-include-phased")
	}
	if flags.Changed("never-include-phased") {
		cfg.NeverIncludePhasedUpdates, _ = flags.GetBool("never-include-phased")
	}

	config.ResolveDist(cfg)
	cfg.MachineIDFile = filepath.Join(cfg.RootDir, cfg.MachineIDFile)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logrus.Debugf("Configuration: %+v", *cfg)
	return cfg, nil
}

// loadCache reads the package database below the configured root
func loadCache(ctx context.Context, cfg *models.Config) (*cache.Cache, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := cache.Options{
		Root:         cfg.RootDir,
		Architecture: cfg.Architecture,
	}

	kr := keyring.LoadTrusted(cfg.RootDir)
	if kr.Len() > 0 {
		opts.Keyring = kr
		logrus.Debugf("Loaded %d trusted keys", kr.Len())
	} else {
		logrus.Warn("No trusted keys found, every package index is untrusted")
	}

	db, err := cache.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load package database: %w", err)
	}

	logrus.Infof("Loaded %d packages", db.Len())
	return db, nil
}
