package reconcile

import (
	"strings"

	"github.com/xrash/smetrics"

	"github.com/fanclub-cms/matchdesk/app/modules/matchimport/application/textnorm"
)

const (
	overlapWeight = 0.6
	editWeight    = 0.4
)

// Similarity scores two names in [0,1]. Both are folded with textnorm.Key
// first, so the score is symmetric.
func Similarity(a, b string) float64 {
	return keySimilarity(textnorm.Key(a), textnorm.Key(b))
}

func keySimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return overlapWeight*wordOverlap(textnorm.Tokens(a), textnorm.Tokens(b)) + editWeight*editSimilarity(a, b)
}

// wordOverlap is the fraction of tokens, counted over both names, that occur
// inside some token of the other name.
func wordOverlap(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	matched := countContained(a, b) + countContained(b, a)
	return float64(matched) / float64(total)
}

func countContained(tokens, in []string) int {
	n := 0
	for _, t := range tokens {
		for _, other := range in {
			if strings.Contains(other, t) {
				n++
				break
			}
		}
	}
	return n
}

// editSimilarity is 1 - levenshtein(a, b) / max(len(a), len(b)), with
// lengths and edits counted in runes.
func editSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	ea, eb := runeAlphabet(ra, rb)
	dist := smetrics.WagnerFischer(ea, eb, 1, 1, 1)
	return 1 - float64(dist)/float64(longest)
}

// runeAlphabet re-encodes both names with one byte per rune so the byte-wise
// distance counts each rune as a single edit. Pairs with more than 256
// distinct runes fall back to their UTF-8 bytes.
func runeAlphabet(a, b []rune) (string, string) {
	codes := make(map[rune]byte)
	encode := func(rs []rune) ([]byte, bool) {
		out := make([]byte, len(rs))
		for i, r := range rs {
			c, ok := codes[r]
			if !ok {
				if len(codes) == 256 {
					return nil, false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out[i] = c
		}
		return out, true
	}
	ea, okA := encode(a)
	eb, okB := encode(b)
	if !okA || !okB {
		return string(a), string(b)
	}
	return string(ea), string(eb)
}
