package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"storydeck/internal/bootstrap"
	"storydeck/internal/platform/config"
	"storydeck/internal/platform/logging"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "storydeck",
		Short:         "Narrated slide-story player with chapter progression",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/storydeck/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newChaptersCmd(opts))
	root.AddCommand(newChapterCmd(opts))
	root.AddCommand(newPlayCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newProgressCmd(opts))
	root.AddCommand(newCompleteCmd(opts))
	root.AddCommand(newNameCmd(opts))
	root.AddCommand(newResetCmd(opts))
	root.AddCommand(newCertificateCmd(opts))
	root.AddCommand(newGameStatusCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

// loadApp wires the application. With tui set, logs go to a file so they
// do not draw over the alternate screen.
func loadApp(ctx context.Context, opts *rootOptions, tui bool) (*bootstrap.App, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if opts.verbose {
		level = "debug"
	}
	logFile := cfg.Logging.File
	if tui && logFile == "" {
		logFile = filepath.Join(cfg.DataDir(), "storydeck.log")
	}
	logger, err := logging.New(level, logFile)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return app, nil
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse chapters and play them in the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration file helpers"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, pass --force to overwrite", path)
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, path, exists, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			state := "missing, using defaults"
			if exists {
				state = "loaded"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, state)
			return nil
		},
	}

	cfgCmd.AddCommand(initCmd, pathCmd)
	return cfgCmd
}
