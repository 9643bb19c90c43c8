// Package textnorm canonicalizes user input so keyword and pattern matching
// is insensitive to case, accents, spacing and trailing punctuation.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// trailingPunct are the characters stripped from the end of input.
const trailingPunct = ".!,;"

var ligatures = strings.NewReplacer(
	"œ", "oe",
	"Œ", "OE",
	"æ", "ae",
	"Æ", "AE",
)

// combiningMark reports runes in the Combining Diacritical Marks block.
func combiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// Fold expands the œ/æ ligatures and removes accents by decomposing to NFD
// and dropping combining diacritical marks. Case is preserved.
func Fold(s string) string {
	s = ligatures.Replace(s)
	// transform.Chain keeps internal state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(combiningMark)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize returns the canonical matching form of raw input: lowercase,
// accent-folded, single-spaced, with no surrounding whitespace and no
// trailing run of . ! , ; characters.
//
// Trailing punctuation and whitespace are stripped as one mixed run, after
// folding, so that Normalize(Normalize(s)) == Normalize(s). A single removal
// pass would leave "hello ." as "hello " and a second call would change it.
func Normalize(raw string) string {
	s := Fold(strings.ToLower(raw))
	s = strings.TrimSpace(s)
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return strings.ContainsRune(trailingPunct, r) || unicode.IsSpace(r)
	})
	return strings.Join(strings.Fields(s), " ")
}
