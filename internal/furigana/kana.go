// Package furigana maps tagger output to word/reading pairs.
package furigana

import "strings"

const (
	katakanaFirst = 'ァ' // U+30A1
	katakanaLast  = 'ン' // U+30F3
	kanaOffset    = 0x60

	kanjiFirst = 0x4E00
	kanjiLast  = 0x9FFF
)

// KatakanaToHiragana shifts every code point in U+30A1..U+30F3 down by 0x60.
// Anything else, including ー and ヴ, is passed through unchanged.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}

// ContainsKanji reports whether s has at least one code point in the
// CJK Unified Ideographs block. Extension blocks are not considered.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if isKanji(r) {
			return true
		}
	}
	return false
}

func isKanji(r rune) bool {
	return r >= kanjiFirst && r <= kanjiLast
}
