package main

import (
	"github.com/samcharles93/furigana/internal/tagger"
	"github.com/urfave/cli/v3"
)

var (
	configFile   string
	dictName     string
	dictPath     string
	readingField int64
	tokenizeMode string
	reuseTagger  bool
	logLevel     string
	logFormat    string
	debug        bool
)

func commonTaggerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dict",
			Usage:       "built-in dictionary (uni, ipa)",
			Value:       tagger.DictUni,
			Destination: &dictName,
		},
		&cli.StringFlag{
			Name:        "dict-path",
			Usage:       "path to a compiled kagome dictionary; overrides --dict",
			Destination: &dictPath,
		},
		&cli.Int64Flag{
			Name:        "reading-field",
			Usage:       "feature index holding the katakana reading (default depends on --dict)",
			Destination: &readingField,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "tokenize mode (normal, search, extended)",
			Value:       "normal",
			Destination: &tokenizeMode,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// resolvedReadingField returns the explicit --reading-field, or the index
// that fits the selected dictionary.
func resolvedReadingField() int {
	if readingField > 0 {
		return int(readingField)
	}
	if dictPath != "" {
		return tagger.ReadingField(tagger.DictUni)
	}
	return tagger.ReadingField(dictName)
}

func newLoader() *tagger.Loader {
	return &tagger.Loader{
		Dictionary: dictName,
		DictPath:   dictPath,
		Mode:       tokenizeMode,
	}
}
