package furigana

import (
	"github.com/samcharles93/furigana/internal/tagger"
)

// Token is one surface unit and its hiragana reading. The field names are
// part of the wire format.
type Token struct {
	Word     string `json:"Word"`
	Furigana string `json:"Furigana"`
}

// Options controls how readings are pulled out of a node's feature record.
type Options struct {
	// ReadingField is the index of the katakana reading in Node.Features.
	// Zero or negative selects DefaultReadingField.
	ReadingField int
}

// DefaultReadingField matches the UniDic feature layout (lForm).
const DefaultReadingField = 6

func (o Options) readingField() int {
	if o.ReadingField <= 0 {
		return DefaultReadingField
	}
	return o.ReadingField
}

// Reading returns the hiragana reading of n, or "" when the feature record
// has no field at the configured index.
func (o Options) Reading(n tagger.Node) string {
	idx := o.readingField()
	if idx >= len(n.Features) {
		return ""
	}
	return KatakanaToHiragana(n.Features[idx])
}

// WordTokens emits one token per non-sentinel node, in node order.
func WordTokens(nodes []tagger.Node, opts Options) []Token {
	tokens := make([]Token, 0, len(nodes))
	for _, n := range nodes {
		if n.IsSentinel() {
			continue
		}
		reading := opts.Reading(n)
		tok := Token{Word: n.Surface}
		if ContainsKanji(n.Surface) && reading != "" {
			tok.Furigana = reading
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// CharTokens emits one token per code point of every non-sentinel node.
// The node reading is handed out by position: the i-th character gets the
// i-th reading character when it is kanji and the reading is long enough.
// This misattributes readings whenever a kanji has more than one mora.
func CharTokens(nodes []tagger.Node, opts Options) []Token {
	tokens := make([]Token, 0, len(nodes))
	for _, n := range nodes {
		if n.IsSentinel() {
			continue
		}
		reading := []rune(opts.Reading(n))
		for i, r := range []rune(n.Surface) {
			ch := string(r)
			tok := Token{Word: ch}
			if isKanji(r) && i < len(reading) {
				tok.Furigana = string(reading[i])
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
