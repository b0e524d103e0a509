package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samcharles93/furigana/internal/api"
	"github.com/samcharles93/furigana/internal/furigana"
	"github.com/samcharles93/furigana/internal/tagger"
	"github.com/urfave/cli/v3"
)

func tokenizeCmd() *cli.Command {
	var single bool

	return &cli.Command{
		Name:      "tokenize",
		Aliases:   []string{"tok"},
		Usage:     "Print furigana tokens for text given as arguments or on stdin",
		ArgsUsage: "[text...]",
		Flags: append(commonTaggerFlags(),
			&cli.BoolFlag{
				Name:        "single",
				Aliases:     []string{"s"},
				Usage:       "one token per character instead of per word",
				Destination: &single,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyTaggerConfig(cmd, loadedConfig)

			text, err := readInput(cmd.Args().Slice(), os.Stdin)
			if err != nil {
				return err
			}
			provider := tagger.NewScopedProvider(newLoader().New)
			opts := furigana.Options{ReadingField: resolvedReadingField()}
			if err := runTokenize(ctx, os.Stdout, provider, opts, text, single); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func runTokenize(ctx context.Context, w io.Writer, provider tagger.Provider, opts furigana.Options, text string, single bool) error {
	mapTokens := furigana.WordTokens
	if single {
		mapTokens = furigana.CharTokens
	}

	var tokens []furigana.Token
	err := provider.WithTagger(ctx, func(t tagger.Tagger) error {
		nodes, err := t.Parse(ctx, text)
		if err != nil {
			return err
		}
		tokens = mapTokens(nodes, opts)
		return nil
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(api.TokensResponse{Data: tokens})
}
