package main

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/samcharles93/furigana/internal/api"
	"github.com/samcharles93/furigana/internal/furigana"
	"github.com/samcharles93/furigana/internal/logger"
	"github.com/samcharles93/furigana/internal/tagger"
	"github.com/samcharles93/furigana/internal/version"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		origins     []string
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the furigana HTTP API",
		Flags: append(commonTaggerFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:5000",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.StringSliceFlag{
				Name:        "allow-origin",
				Usage:       "CORS origin allowed to call the API (repeatable)",
				Value:       slices.Clone(api.DefaultAllowedOrigins),
				Destination: &origins,
			},
			&cli.BoolFlag{
				Name:        "reuse-tagger",
				Usage:       "share one tagger across requests instead of building one per request",
				Destination: &reuseTagger,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, loadedConfig, &addr, &origins)

			loader := newLoader()
			if _, err := loader.Load(); err != nil {
				return err
			}
			log.Info("dictionary loaded", "dict", dictName, "dict_path", dictPath, "reading_field", resolvedReadingField())

			var provider tagger.Provider
			if reuseTagger {
				shared := tagger.NewSharedProvider(loader.New)
				defer func() { _ = shared.Close() }()
				provider = shared
			} else {
				provider = tagger.NewScopedProvider(loader.New)
			}

			server := api.NewServer(provider, furigana.Options{ReadingField: resolvedReadingField()})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			e.Use(api.RequestID(log))
			e.Use(api.CORS(origins))
			server.Register(e)

			log.Info("starting server", "address", addr, "version", version.String(), "origins", origins, "reuse_tagger", reuseTagger)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
