package classifier

import "github.com/Yitzhakza/electic/internal/domain/catalog"

var brandKeywords = []Entry{
	{Slug: "tesla", Keywords: []string{"tesla", "model 3", "model y", "model s", "model x"}},
	{Slug: "byd", Keywords: []string{"byd", "atto 3", "atto3", "seal", "dolphin", "han ev", "tang ev"}},
	{Slug: "mg", Keywords: []string{"mg4", "mg5", "mg zs", "zs ev", "marvel r", "mg motor"}},
	{Slug: "nio", Keywords: []string{"nio", "et5", "et7", "el7", "ec7"}},
	{Slug: "xpeng", Keywords: []string{"xpeng", "xpev", "g6", "g9", "p7"}},
	{Slug: "geely", Keywords: []string{"geely", "geometry c", "geometry", "galaxy e5"}},
	{Slug: "chery", Keywords: []string{"chery", "tiggo", "eq7"}},
	{Slug: "zeekr", Keywords: []string{"zeekr", "001", "007"}},
	{Slug: "skywell", Keywords: []string{"skywell"}},
	{Slug: "cupra", Keywords: []string{"cupra", "born"}},
	{Slug: "hyundai", Keywords: []string{"hyundai", "ioniq 5", "ioniq 6", "ioniq5", "ioniq6", "kona electric"}},
	{Slug: "kia", Keywords: []string{"kia", "ev6", "ev9", "niro ev"}},
	{Slug: "volkswagen", Keywords: []string{"volkswagen", "vw", "id.3", "id.4", "id.5", "id3", "id4", "id5"}},
	{Slug: "polestar", Keywords: []string{"polestar"}},
}

// BrandKeywords returns a copy of the built-in brand keyword table
func BrandKeywords() []Entry {
	return copyTable(brandKeywords)
}

// CategoryKeywords builds the category table from the category reference data
func CategoryKeywords(categories []catalog.CategorySeed) []Entry {
	out := make([]Entry, 0, len(categories))
	for _, c := range categories {
		out = append(out, Entry{Slug: c.Slug, Keywords: append([]string(nil), c.Keywords...)})
	}
	return out
}

// Default returns a classifier over the built-in brand table and the seeded categories
func Default() *Classifier {
	return New(brandKeywords, CategoryKeywords(catalog.DefaultCategories()))
}

func copyTable(table []Entry) []Entry {
	out := make([]Entry, len(table))
	for i, e := range table {
		out[i] = Entry{Slug: e.Slug, Keywords: append([]string(nil), e.Keywords...)}
	}
	return out
}
