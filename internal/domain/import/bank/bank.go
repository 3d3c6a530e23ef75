// Package bank recognizes which bank issued a statement from its extracted text.
package bank

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Bank maps a canonical display name to the lowercase aliases that identify it.
type Bank struct {
	Name    string
	Aliases []string
}

// Known is the built-in alias table, in priority order.
var Known = []Bank{
	{Name: "Хаан Банк", Aliases: []string{"хаан банк", "khan bank"}},
	{Name: "Голомт Банк", Aliases: []string{"голомт банк", "golomt bank"}},
	{Name: "Худалдаа Хөгжлийн Банк", Aliases: []string{"худалдаа хөгжлийн банк", "trade and development bank", "tdb"}},
	{Name: "Төрийн Банк", Aliases: []string{"төрийн банк", "state bank"}},
	{Name: "Хас Банк", Aliases: []string{"хас банк", "xac bank"}},
	{Name: "Капитрон Банк", Aliases: []string{"капитрон банк", "capitron bank"}},
	{Name: "Богд Банк", Aliases: []string{"богд банк", "bogd bank"}},
	{Name: "Үндэсний Хөрөнгө Оруулалтын Банк", Aliases: []string{"үндэсний хөрөнгө оруулалтын банк", "national investment bank"}},
	{Name: "Чингис Хаан Банк", Aliases: []string{"чингис хаан банк", "chinggis khaan bank"}},
	{Name: "Транс Банк", Aliases: []string{"транс банк", "trans bank"}},
	{Name: "Ариг Банк", Aliases: []string{"ариг банк", "arig bank"}},
	{Name: "Кредит Банк", Aliases: []string{"кредит банк", "credit bank"}},
}

// Identifier matches all aliases in a single pass over the text using
// Aho-Corasick. It is immutable after construction and safe for concurrent use.
type Identifier struct {
	matcher *ahocorasick.Matcher
	aliases []string
	owner   []int // alias index -> bank index
	banks   []Bank
}

// NewIdentifier builds an identifier over banks. A nil or empty table yields
// an identifier that never matches.
func NewIdentifier(banks []Bank) *Identifier {
	id := &Identifier{banks: banks}
	for bi, b := range banks {
		for _, alias := range b.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}
			id.aliases = append(id.aliases, alias)
			id.owner = append(id.owner, bi)
		}
	}
	if len(id.aliases) > 0 {
		id.matcher = ahocorasick.NewStringMatcher(id.aliases)
	}
	return id
}

// Default returns an identifier over the Known table.
func Default() *Identifier {
	return NewIdentifier(Known)
}

// Identify returns the canonical name of the bank mentioned in text and true,
// or "" and false. Matching is case-insensitive on substrings. When several
// aliases match, the longest one wins so that "чингис хаан банк" is not read
// as "хаан банк"; equal lengths fall back to table order.
func (id *Identifier) Identify(text string) (string, bool) {
	if id == nil || id.matcher == nil || text == "" {
		return "", false
	}

	hits := id.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return "", false
	}

	best := -1
	for _, h := range hits {
		if best == -1 {
			best = h
			continue
		}
		la, lb := len([]rune(id.aliases[h])), len([]rune(id.aliases[best]))
		if la > lb || (la == lb && id.owner[h] < id.owner[best]) {
			best = h
		}
	}
	return id.banks[id.owner[best]].Name, true
}
