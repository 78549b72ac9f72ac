package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/searchbot/internal/backend"
	"github.com/jask/searchbot/internal/config"
	"github.com/jask/searchbot/internal/logging"
	"github.com/jask/searchbot/internal/tui"
)

func main() {
	root := &cobra.Command{
		Use:           "searchbot",
		Short:         "Terminal client for the search bot backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (TOML)")
	pf.String("backend-url", "", "backend base URL")
	pf.Duration("timeout", 0, "per-request timeout")
	pf.String("log-file", "", "log file path")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("images-dir", "", "directory for saved images")
	pf.String("tab", "", "tab to open on start: search, image, ocr, chat or pdf")

	root.AddCommand(healthCMD())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (config.Config, *zap.Logger, *backend.Client, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("logger: %w", err)
	}
	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout, backend.WithLogger(logger))
	return cfg, logger, client, nil
}

func runTUI(cmd *cobra.Command) error {
	cfg, logger, client, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", zap.String("backend", client.BaseURL()), zap.String("tab", cfg.UI.StartTab))
	p := tea.NewProgram(tui.New(ctx, cfg, tui.Deps{
		Backend: client,
		Health:  client,
		Logger:  logger,
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if err = exitErr(ctx, err); err != nil {
		logger.Error("program exited", zap.Error(err))
		return err
	}
	return nil
}

// exitErr treats a program killed because ctx was cancelled by a signal as a
// clean shutdown.
func exitErr(ctx context.Context, err error) error {
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func healthCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			resp, err := client.Health(ctx)
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s reports not ready", client.BaseURL())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", client.BaseURL())
			return nil
		},
	}
}
