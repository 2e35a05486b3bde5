package export

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// FoldDiacritics strips combining marks so Vietnamese text fits the Latin-1
// core PDF fonts ("Tiếng Việt" becomes "Tieng Viet").
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strokeReplacer.Replace(s))
	if err != nil {
		return s
	}
	return folded
}
