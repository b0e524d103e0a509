package tagger

import (
	"context"
	"errors"
	"sync"
)

// Factory builds a tagger. *Loader.New satisfies it.
type Factory func() (Tagger, error)

// ScopedProvider builds a tagger for each call and closes it when fn
// returns, whatever the outcome.
type ScopedProvider struct {
	factory Factory
}

func NewScopedProvider(factory Factory) *ScopedProvider {
	return &ScopedProvider{factory: factory}
}

func (p *ScopedProvider) WithTagger(ctx context.Context, fn func(t Tagger) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := p.factory()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, t.Close())
	}()
	return fn(t)
}

// SharedProvider builds one tagger lazily and reuses it across calls. The
// kagome tokenizer is safe for concurrent use, so no lock is held around fn.
type SharedProvider struct {
	factory Factory

	mu     sync.Mutex
	tagger Tagger
}

func NewSharedProvider(factory Factory) *SharedProvider {
	return &SharedProvider{factory: factory}
}

func (p *SharedProvider) WithTagger(ctx context.Context, fn func(t Tagger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := p.get()
	if err != nil {
		return err
	}
	return fn(t)
}

func (p *SharedProvider) get() (Tagger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tagger != nil {
		return p.tagger, nil
	}
	t, err := p.factory()
	if err != nil {
		return nil, err
	}
	p.tagger = t
	return t, nil
}

// Close releases the shared tagger, if one was built.
func (p *SharedProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tagger == nil {
		return nil
	}
	err := p.tagger.Close()
	p.tagger = nil
	return err
}
