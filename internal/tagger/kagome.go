package tagger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

const (
	DictUni = "uni"
	DictIPA = "ipa"
)

// ReadingField returns the feature index holding the katakana reading for a
// built-in dictionary name.
func ReadingField(dictName string) int {
	if strings.EqualFold(strings.TrimSpace(dictName), DictIPA) {
		return 7
	}
	return 6
}

// Loader resolves and caches the dictionary. Dictionaries are immutable, so
// one copy serves every tagger built from this loader.
type Loader struct {
	// Dictionary names a built-in dictionary (uni, ipa). Empty means uni.
	Dictionary string
	// DictPath points to a compiled kagome dictionary zip. It wins over
	// Dictionary when set.
	DictPath string
	// Mode is the tokenize mode: normal, search or extended.
	Mode string

	once sync.Once
	dict *dict.Dict
	err  error
}

// Load returns the dictionary, reading it on first use.
func (l *Loader) Load() (*dict.Dict, error) {
	l.once.Do(func() {
		l.dict, l.err = l.load()
	})
	return l.dict, l.err
}

func (l *Loader) load() (*dict.Dict, error) {
	if path := strings.TrimSpace(l.DictPath); path != "" {
		d, err := dict.LoadDictFile(path)
		if err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", path, err)
		}
		return d, nil
	}
	switch strings.ToLower(strings.TrimSpace(l.Dictionary)) {
	case "", DictUni:
		return uni.Dict(), nil
	case DictIPA:
		return ipa.Dict(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDictionary, l.Dictionary)
	}
}

// New builds a fresh tagger over the cached dictionary.
func (l *Loader) New() (Tagger, error) {
	mode, err := parseMode(l.Mode)
	if err != nil {
		return nil, err
	}
	d, err := l.Load()
	if err != nil {
		return nil, err
	}
	return NewKagome(d, mode)
}

func parseMode(s string) (tokenizer.TokenizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return tokenizer.Normal, nil
	case "search":
		return tokenizer.Search, nil
	case "extended":
		return tokenizer.Extended, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

type kagomeTagger struct {
	t      *tokenizer.Tokenizer
	mode   tokenizer.TokenizeMode
	closed atomic.Bool
}

// NewKagome returns a Tagger backed by a kagome tokenizer. BOS and EOS are
// kept in the output.
func NewKagome(d *dict.Dict, mode tokenizer.TokenizeMode) (Tagger, error) {
	t, err := tokenizer.New(d)
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	return &kagomeTagger{t: t, mode: mode}, nil
}

func (k *kagomeTagger) Parse(ctx context.Context, text string) ([]Node, error) {
	if k.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := k.t.Analyze(text, k.mode)
	nodes := make([]Node, 0, len(tokens))
	for i, tok := range tokens {
		n := Node{Surface: tok.Surface}
		switch tok.Class {
		case tokenizer.DUMMY:
			if i == 0 {
				n.Class = ClassBOS
			} else {
				n.Class = ClassEOS
			}
			n.Surface = ""
		case tokenizer.UNKNOWN:
			n.Class = ClassUnknown
			n.Features = tok.Features()
		case tokenizer.USER:
			n.Class = ClassUser
			n.Features = tok.Features()
		default:
			n.Class = ClassKnown
			n.Features = tok.Features()
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (k *kagomeTagger) Close() error {
	k.closed.Store(true)
	return nil
}
