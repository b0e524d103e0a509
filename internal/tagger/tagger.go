// Package tagger wraps the external morphological analyzer behind a narrow
// interface: text in, ordered nodes out.
package tagger

import (
	"context"
	"errors"
)

var (
	ErrClosed            = errors.New("tagger: closed")
	ErrUnknownDictionary = errors.New("tagger: unknown dictionary")
	ErrUnknownMode       = errors.New("tagger: unknown tokenize mode")
)

// Class tells sentinels apart from real morphemes.
type Class int

const (
	ClassKnown Class = iota
	ClassUnknown
	ClassUser
	ClassBOS
	ClassEOS
)

func (c Class) String() string {
	switch c {
	case ClassKnown:
		return "KNOWN"
	case ClassUnknown:
		return "UNKNOWN"
	case ClassUser:
		return "USER"
	case ClassBOS:
		return "BOS"
	case ClassEOS:
		return "EOS"
	default:
		return "INVALID"
	}
}

// Node is one element of a parse. Features is the dictionary's positional
// feature record and is not interpreted here.
type Node struct {
	Surface  string
	Features []string
	Class    Class
}

// IsSentinel reports whether n is a begin or end of sentence marker.
func (n Node) IsSentinel() bool {
	return n.Class == ClassBOS || n.Class == ClassEOS
}

// Tagger segments text. The returned nodes start with a BOS node and end
// with an EOS node.
type Tagger interface {
	Parse(ctx context.Context, text string) ([]Node, error)
	Close() error
}

// Provider hands out a Tagger for the duration of fn.
type Provider interface {
	WithTagger(ctx context.Context, fn func(t Tagger) error) error
}
