package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samcharles93/furigana/internal/logger"
	"github.com/urfave/cli/v3"
)

// loadedConfig is filled by the root Before hook and read by subcommands.
var loadedConfig Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "furigana",
		Usage: "Japanese text segmentation with furigana readings",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := LoadConfig(configFile)
			if err != nil {
				return ctx, err
			}
			loadedConfig = cfg
			applyLoggingConfig(cmd, cfg)

			level := logger.ParseLevel(logLevel)
			if debug {
				level = logger.ParseLevel("debug")
			}
			log := logger.ForFormat(os.Stderr, logFormat, level)
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			serveCmd(),
			tokenizeCmd(),
			versionCmd(),
		},
	}
}
