// Package classifier maps free-text marketplace titles onto the brand and
// accessory-category taxonomy by keyword scoring.
//
// Matching is plain substring containment on the folded title. Folding is
// NFKC normalization (full-width latin becomes ASCII, ligatures are split)
// followed by lower-casing, and keywords are folded the same way. Every
// matched keyword adds its length to the entry's score, so a long, specific
// keyword ("model 3") outranks a short generic one. The highest score wins and
// ties keep the entry listed first.
package classifier

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Entry is one row of a keyword table.
type Entry struct {
	Slug     string
	Keywords []string
}

// Classifier scores titles against ordered brand and category tables.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	brands     []Entry
	categories []Entry
}

// New creates a classifier over the given tables. Table order decides ties
// and hint order.
func New(brands, categories []Entry) *Classifier {
	return &Classifier{
		brands:     foldTable(brands),
		categories: foldTable(categories),
	}
}

// ClassifyBrand returns the best scoring brand slug for the title
func (c *Classifier) ClassifyBrand(title string) (string, bool) {
	return bestMatch(c.brands, fold(title))
}

// ClassifyCategory returns the best scoring category slug for the title
func (c *Classifier) ClassifyCategory(title string) (string, bool) {
	return bestMatch(c.categories, fold(title))
}

// BrandHints returns every brand with at least one keyword in the title, in table order
func (c *Classifier) BrandHints(title string) []string {
	return hits(c.brands, fold(title))
}

// CategoryHints returns every category with at least one keyword in the title, in table order
func (c *Classifier) CategoryHints(title string) []string {
	return hits(c.categories, fold(title))
}

// Result bundles the winners and hint lists for one title.
type Result struct {
	Brand         string
	Category      string
	BrandHints    []string
	CategoryHints []string
}

// Classify runs all four lookups
func (c *Classifier) Classify(title string) Result {
	t := fold(title)
	var r Result
	r.Brand, _ = bestMatch(c.brands, t)
	r.Category, _ = bestMatch(c.categories, t)
	r.BrandHints = hits(c.brands, t)
	r.CategoryHints = hits(c.categories, t)
	return r
}

// fold normalizes compatibility forms (full-width latin, ligatures) and lower-cases.
func fold(title string) string {
	return strings.ToLower(norm.NFKC.String(title))
}

func bestMatch(table []Entry, title string) (string, bool) {
	if title == "" {
		return "", false
	}
	best, bestScore := "", 0
	for _, e := range table {
		score := 0
		for _, kw := range e.Keywords {
			if strings.Contains(title, kw) {
				score += utf8.RuneCountInString(kw)
			}
		}
		if score > bestScore {
			best, bestScore = e.Slug, score
		}
	}
	return best, bestScore > 0
}

func hits(table []Entry, title string) []string {
	out := []string{}
	if title == "" {
		return out
	}
	for _, e := range table {
		for _, kw := range e.Keywords {
			if strings.Contains(title, kw) {
				out = append(out, e.Slug)
				break
			}
		}
	}
	return out
}

func foldTable(table []Entry) []Entry {
	out := make([]Entry, 0, len(table))
	for _, e := range table {
		kws := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kws = append(kws, fold(kw))
		}
		out = append(out, Entry{Slug: e.Slug, Keywords: kws})
	}
	return out
}
