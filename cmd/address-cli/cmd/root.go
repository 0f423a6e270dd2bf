// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/addressvm/config"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/pebble"
	"github.com/ava-labs/addressvm/program"
	"github.com/ava-labs/addressvm/state"

	addresstrace "github.com/ava-labs/addressvm/trace"
)

const (
	dbFolder   = "db"
	logsFolder = "logs"
)

// cli holds everything a command needs to read and change the ledger.
type cli struct {
	cfg      *config.Config
	basePath string

	log        logging.Logger
	logFactory *logFactory
	tracer     trace.Tracer
	registry   *prometheus.Registry

	db      *pebble.Database
	runtime *ledger.Runtime
	program *program.Program
}

func NewRootCmd() *cobra.Command {
	var (
		c          = &cli{}
		configPath string
		logLevel   string
		cleanup    bool
	)
	cmd := &cobra.Command{
		Use:   "address-cli",
		Short: "Address program ledger simulator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return c.init(cfg)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.close(cleanup)
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config")
	cmd.PersistentFlags().BoolVar(&cleanup, "cleanup", false, "remove the data directory on exit")

	cmd.AddCommand(
		newKeyCmd(c),
		newAccountCmd(c),
		newRunCmd(c),
	)
	return cmd
}

func (c *cli) init(cfg *config.Config) error {
	c.cfg = cfg
	c.basePath = cfg.DataDir
	if !filepath.IsAbs(c.basePath) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.basePath = filepath.Join(homeDir, c.basePath)
	}

	loggingConfig := logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8,
			MaxFiles:  4,
			MaxAge:    7,
			Directory: filepath.Join(c.basePath, logsFolder),
		},
		LogLevel:                cfg.GetLogLevel(),
		DisplayLevel:            cfg.GetLogLevel(),
		LogFormat:               logging.JSON,
		DisableWriterDisplaying: true,
	}
	c.logFactory = newLogFactory(loggingConfig)
	log, err := c.logFactory.Make("address-cli")
	if err != nil {
		c.logFactory.Close()
		return err
	}
	tracer, err := addresstrace.New(cfg.GetTraceConfig())
	if err != nil {
		c.logFactory.Close()
		return err
	}
	c.registry = prometheus.NewRegistry()
	db, err := pebble.New(filepath.Join(c.basePath, dbFolder), cfg.GetPebbleConfig(), c.registry)
	if err != nil {
		c.logFactory.Close()
		return err
	}
	return c.setup(log, tracer, db)
}

// setup wires the runtime and the address program on top of [db].
func (c *cli) setup(log logging.Logger, tracer trace.Tracer, db *pebble.Database) error {
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	c.log = log
	c.tracer = tracer
	c.db = db
	c.runtime = ledger.NewRuntime(log, tracer)

	p, err := program.New(log, tracer, c.cfg.GetRent(), c.runtime, c.registry)
	if err != nil {
		return err
	}
	if err := c.runtime.Register(c.cfg.GetProgramID(), p); err != nil {
		return err
	}
	c.program = p

	c.log.Info("address-cli initialized",
		zap.String("dataDir", c.basePath),
		zap.Stringer("programID", c.cfg.GetProgramID()),
	)
	return nil
}

// mutable returns a fresh overlay on the database. Nothing written to it is
// persisted before [cli.commit].
func (c *cli) mutable() *state.SimpleMutable {
	return state.NewSimpleMutable(state.NewDatabaseReader(c.db))
}

func (c *cli) commit(ctx context.Context, mu *state.SimpleMutable) error {
	batch, err := c.db.NewBatch()
	if err != nil {
		return err
	}
	if err := mu.Commit(ctx, batch); err != nil {
		return err
	}
	return batch.Write()
}

func (c *cli) close(cleanup bool) error {
	errs := wrappers.Errs{}
	if c.db != nil {
		errs.Add(c.db.Close())
	}
	if c.tracer != nil {
		errs.Add(c.tracer.Close())
	}
	if c.logFactory != nil {
		c.logFactory.Close()
	}
	if cleanup && c.basePath != "" {
		errs.Add(os.RemoveAll(c.basePath))
	}
	return errs.Err
}
