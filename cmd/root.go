// Package cmd implements the starforge CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/starforge/internal/config"
	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/pipeline"
	"github.com/zjrosen/starforge/internal/data/registry"
	"github.com/zjrosen/starforge/internal/infrastructure/sqlite"
	"github.com/zjrosen/starforge/internal/log"
	"github.com/zjrosen/starforge/internal/pubsub"
	"github.com/zjrosen/starforge/internal/supervisor"
	"github.com/zjrosen/starforge/internal/tracing"
	"github.com/zjrosen/starforge/internal/watcher"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "starforge",
	Short:   "Content data pipeline for the starforge simulation",
	Long:    `Loads the base data pack and mods, validates them, and serves a hot-reloading registry of game content.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/starforge/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging")
	rootCmd.PersistentFlags().String("data", "",
		"base pack directory")
	rootCmd.PersistentFlags().String("mods", "",
		"mods root directory")
	rootCmd.Flags().Bool("no-reload", false,
		"disable automatic reload when data files change")

	// Bind flags to viper
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("mods_dir", rootCmd.PersistentFlags().Lookup("mods"))
}

func initConfig() {
	defaults := config.Default()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("mods_dir", defaults.ModsDir)
	viper.SetDefault("locale", defaults.Locale)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("reload_debounce", defaults.ReloadDebounce)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.path", defaults.History.Path)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", config.DefaultTracesFilePath())
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .starforge/config.yaml (current directory)
		// 2. ~/.config/starforge/config.yaml (user config)
		if _, err := os.Stat(".starforge/config.yaml"); err == nil {
			viper.SetConfigFile(".starforge/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "starforge"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .starforge/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".starforge/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	initLogging()
}

func initLogging() {
	if cleanup, err := log.Init(config.DefaultLogPath()); err == nil {
		cobra.OnFinalize(cleanup)
	}
	enabled := debug || os.Getenv("STARFORGE_DEBUG") != ""
	log.SetEnabled(enabled)
	if !debug {
		log.SetMinLevel(log.LevelInfo)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	var recorder supervisor.Recorder
	if cfg.History.Enabled && cfg.History.Path != "" {
		db, err := sqlite.Open(cfg.History.Path)
		if err != nil {
			// History is best effort; the pipeline runs without it.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: load history disabled: %v\n", err)
		} else {
			defer func() { _ = db.Close() }()
			recorder = db.Loads()
		}
	}

	loader := pipeline.NewLoader(cfg.DataDir, cfg.ModsDir, decode.NewCache())
	handle := registry.NewHandle()
	sup := supervisor.New(loader, handle, recorder)

	if err := sup.Start(ctx); err != nil {
		printLoadError(cmd, err)
		return fmt.Errorf("startup load failed")
	}

	snap := handle.Current()
	fmt.Fprintf(cmd.OutOrStdout(), "loaded snapshot %s (schema v%d, %d advisories)\n",
		snap.RunID, snap.SchemaVersion, len(snap.Diagnostics))
	printAdvisories(cmd, snap)

	if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
		cfg.AutoReload = false
	}
	if !cfg.AutoReload {
		return nil
	}

	w, err := watcher.New(watcher.Config{
		DataDir:     cfg.DataDir,
		ModsDir:     cfg.ModsDir,
		DebounceDur: cfg.ReloadDebounce,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	go reportReloads(ctx, cmd, sup)

	fmt.Fprintln(cmd.OutOrStdout(), "watching for data changes (ctrl-c to exit)")
	sup.Run(ctx, changes)
	return nil
}

// reportReloads tails the supervisor event stream to stdout.
func reportReloads(ctx context.Context, cmd *cobra.Command, sup *supervisor.Supervisor) {
	for event := range sup.Events().Subscribe(ctx) {
		report := event.Payload
		switch event.Type {
		case pubsub.SnapshotPublished:
			fmt.Fprintf(cmd.OutOrStdout(), "reloaded: snapshot %s published (%d advisories, %s)\n",
				report.RunID, report.Advisories, report.Duration.Round(time.Millisecond))
		case pubsub.ReloadFailed:
			fmt.Fprintf(cmd.OutOrStdout(), "reload failed: %s (keeping current snapshot)\n", report.Err)
		case pubsub.ReloadSuperseded:
			fmt.Fprintln(cmd.OutOrStdout(), "reload superseded by newer change")
		}
	}
}

func printLoadError(cmd *cobra.Command, err error) {
	var fatal *pipeline.FatalError
	if errors.As(err, &fatal) {
		for _, d := range fatal.Diagnostics {
			fmt.Fprintln(cmd.ErrOrStderr(), d.String())
		}
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
}

func printAdvisories(cmd *cobra.Command, snap *registry.Snapshot) {
	for _, d := range snap.Diagnostics {
		fmt.Fprintln(cmd.ErrOrStderr(), d.String())
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
