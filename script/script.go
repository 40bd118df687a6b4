// Package script abstracts conversion between simplified and traditional
// Chinese. The engines use it to canonicalize provider results and to
// generate query variants; the actual conversion table is pluggable.
package script

import "strings"

// Normalizer converts text between Han script variants. Implementations
// must be safe for concurrent use.
type Normalizer interface {
	ToSimplified(text string) string
	ToTraditional(text string) string
}

// Passthrough is a Normalizer that performs no conversion.
type Passthrough struct{}

func (Passthrough) ToSimplified(text string) string  { return text }
func (Passthrough) ToTraditional(text string) string { return text }

// Table is a rune-mapping Normalizer backed by explicit lookup tables.
type Table struct {
	ToSimp map[rune]rune
	ToTrad map[rune]rune
}

func (t Table) ToSimplified(text string) string  { return mapRunes(text, t.ToSimp) }
func (t Table) ToTraditional(text string) string { return mapRunes(text, t.ToTrad) }

func mapRunes(text string, table map[rune]rune) string {
	if len(table) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if mapped, ok := table[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsCJK reports whether r is a Han ideograph.
func IsCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0xF900 && r <= 0xFAFF)
}

// ContainsCJK reports whether text contains at least one Han ideograph.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if IsCJK(r) {
			return true
		}
	}
	return false
}

// Ratio measures how much of original changed under simplified conversion:
// the fraction of CJK runes that differ between the two strings. It returns
// 0 when the strings have different rune counts, since a positional
// comparison is meaningless then.
func Ratio(original, simplified string) float64 {
	origRunes := []rune(original)
	simpRunes := []rune(simplified)
	if len(origRunes) != len(simpRunes) {
		return 0
	}
	cjkCount := 0
	changed := 0
	for i, r := range origRunes {
		if !IsCJK(r) {
			continue
		}
		cjkCount++
		if simpRunes[i] != r {
			changed++
		}
	}
	if cjkCount == 0 {
		return 0
	}
	return float64(changed) / float64(cjkCount)
}

// NormalizeSimplified converts text to simplified Chinese when the
// conversion changes at least 10% of its CJK runes, otherwise it returns
// text unchanged. Small ratios usually mean the text is already simplified
// and only contains a few shared-form characters.
func NormalizeSimplified(n Normalizer, text string) string {
	simplified := n.ToSimplified(text)
	if simplified == text {
		return text
	}
	if Ratio(text, simplified) >= 0.1 {
		return simplified
	}
	return text
}

// Variants returns the query spellings worth trying for text, most likely
// first: the simplified form, the traditional form and the original,
// deduplicated while preserving order.
func Variants(n Normalizer, text string) []string {
	candidates := []string{n.ToSimplified(text), n.ToTraditional(text), text}
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		seen := false
		for _, v := range variants {
			if v == c {
				seen = true
				break
			}
		}
		if !seen {
			variants = append(variants, c)
		}
	}
	return variants
}
