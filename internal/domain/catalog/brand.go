package catalog

import (
	"github.com/Yitzhakza/electic/internal/domain/shared"
	"github.com/google/uuid"
)

// Brand is an EV manufacturer the storefront groups accessories under.
type Brand struct {
	ID           uuid.UUID
	Slug         string
	NameHe       string
	NameEn       string
	LogoURL      *string
	DisplayOrder int
	Enabled      bool
}

// AccessoryCategory is a product category. Its keywords feed the title classifier.
type AccessoryCategory struct {
	ID           uuid.UUID
	Slug         string
	NameHe       string
	NameEn       string
	Keywords     []string
	DisplayOrder int
	Enabled      bool
}

// NewBrand creates an enabled brand
func NewBrand(slug, nameHe, nameEn string, order int) (*Brand, error) {
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Brand slug cannot be empty")
	}
	return &Brand{
		ID:           uuid.New(),
		Slug:         slug,
		NameHe:       nameHe,
		NameEn:       nameEn,
		DisplayOrder: order,
		Enabled:      true,
	}, nil
}

// NewAccessoryCategory creates an enabled category
func NewAccessoryCategory(slug, nameHe, nameEn string, keywords []string, order int) (*AccessoryCategory, error) {
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	return &AccessoryCategory{
		ID:           uuid.New(),
		Slug:         slug,
		NameHe:       nameHe,
		NameEn:       nameEn,
		Keywords:     kw,
		DisplayOrder: order,
		Enabled:      true,
	}, nil
}

// BrandSeed is the static description of a brand and the models sold under it.
type BrandSeed struct {
	Slug   string
	NameHe string
	NameEn string
	Models []string
	Order  int
}

// CategorySeed is the static description of an accessory category.
type CategorySeed struct {
	Slug     string
	NameHe   string
	NameEn   string
	Keywords []string
	Order    int
}

var defaultBrands = []BrandSeed{
	{Slug: "tesla", NameHe: "טסלה", NameEn: "Tesla", Models: []string{"Model 3", "Model Y", "Model S", "Model X"}, Order: 1},
	{Slug: "byd", NameHe: "BYD", NameEn: "BYD", Models: []string{"Atto 3", "Seal", "Dolphin", "Han", "Tang"}, Order: 2},
	{Slug: "mg", NameHe: "MG", NameEn: "MG", Models: []string{"MG4", "MG5", "ZS EV", "Marvel R"}, Order: 3},
	{Slug: "nio", NameHe: "NIO", NameEn: "NIO", Models: []string{"ET5", "ET7", "EL7", "EC7"}, Order: 4},
	{Slug: "xpeng", NameHe: "XPeng", NameEn: "XPeng", Models: []string{"G6", "G9", "P7"}, Order: 5},
	{Slug: "geely", NameHe: "ג'ילי", NameEn: "Geely", Models: []string{"Geometry C", "Galaxy E5"}, Order: 6},
	{Slug: "chery", NameHe: "צ'רי", NameEn: "Chery", Models: []string{"Tiggo 7 Pro", "Tiggo 8 Pro", "eQ7"}, Order: 7},
	{Slug: "zeekr", NameHe: "זיקר", NameEn: "Zeekr", Models: []string{"001", "X", "007"}, Order: 8},
	{Slug: "skywell", NameHe: "סקייוול", NameEn: "Skywell", Models: []string{"ET5"}, Order: 9},
	{Slug: "cupra", NameHe: "קופרה", NameEn: "CUPRA", Models: []string{"Born"}, Order: 10},
	{Slug: "hyundai", NameHe: "יונדאי", NameEn: "Hyundai", Models: []string{"Ioniq 5", "Ioniq 6", "Kona Electric"}, Order: 11},
	{Slug: "kia", NameHe: "קיה", NameEn: "Kia", Models: []string{"EV6", "EV9", "Niro EV"}, Order: 12},
	{Slug: "volkswagen", NameHe: "פולקסווגן", NameEn: "Volkswagen", Models: []string{"ID.3", "ID.4", "ID.5"}, Order: 13},
	{Slug: "polestar", NameHe: "פולסטאר", NameEn: "Polestar", Models: []string{"Polestar 2", "Polestar 4"}, Order: 14},
}

var defaultCategories = []CategorySeed{
	{Slug: "floor-mats", NameHe: "שטיחים", NameEn: "Floor Mats", Order: 1,
		Keywords: []string{"floor mat", "floor liner", "carpet", "rubber mat", "all weather mat"}},
	{Slug: "screen-protectors", NameHe: "מגני מסך", NameEn: "Screen Protectors", Order: 2,
		Keywords: []string{"screen protector", "tempered glass", "display protector", "screen film", "navigation screen"}},
	{Slug: "chargers", NameHe: "מטענים וכבלים", NameEn: "Chargers & Cables", Order: 3,
		Keywords: []string{"charger", "charging cable", "ev charger", "type 2", "charging adapter", "portable charger"}},
	{Slug: "phone-holders", NameHe: "מחזיקי טלפון", NameEn: "Phone Holders", Order: 4,
		Keywords: []string{"phone holder", "phone mount", "phone stand", "wireless charger mount", "magnetic holder"}},
	{Slug: "trunk-organizers", NameHe: "ארגון תא מטען", NameEn: "Trunk Organizers", Order: 5,
		Keywords: []string{"trunk organizer", "trunk mat", "trunk liner", "cargo net", "trunk storage", "boot liner"}},
	{Slug: "interior-lighting", NameHe: "תאורה פנימית", NameEn: "Interior Lighting", Order: 6,
		Keywords: []string{"interior light", "ambient light", "led strip", "interior lamp", "footwell light", "door light"}},
	{Slug: "car-covers", NameHe: "כיסויי רכב", NameEn: "Car Covers", Order: 7,
		Keywords: []string{"car cover", "vehicle cover", "sun shade", "windshield cover", "sunshade"}},
	{Slug: "seat-covers", NameHe: "כיסויי מושבים", NameEn: "Seat Covers", Order: 8,
		Keywords: []string{"seat cover", "seat protector", "seat cushion", "back protector", "headrest"}},
	{Slug: "steering-wheel", NameHe: "כיסויי הגה", NameEn: "Steering Wheel Covers", Order: 9,
		Keywords: []string{"steering wheel cover", "steering cover", "wheel cover", "steering wrap"}},
	{Slug: "dashboard", NameHe: "אביזרי לוח מחוונים", NameEn: "Dashboard Accessories", Order: 10,
		Keywords: []string{"dashboard", "dash cover", "dash mat", "center console", "cup holder", "storage box", "armrest"}},
	{Slug: "general-accessories", NameHe: "אביזרים כלליים", NameEn: "General Accessories", Order: 11,
		Keywords: []string{"universal", "car charger", "dash cam", "usb hub", "car vacuum", "air freshener", "tire inflator", "jump starter"}},
}

// DefaultBrands returns a copy of the seeded brand table in display order.
func DefaultBrands() []BrandSeed {
	out := make([]BrandSeed, len(defaultBrands))
	for i, b := range defaultBrands {
		b.Models = append([]string(nil), b.Models...)
		out[i] = b
	}
	return out
}

// DefaultCategories returns a copy of the seeded category table in display order.
func DefaultCategories() []CategorySeed {
	out := make([]CategorySeed, len(defaultCategories))
	for i, c := range defaultCategories {
		c.Keywords = append([]string(nil), c.Keywords...)
		out[i] = c
	}
	return out
}

// QuerySeed is a generated search query tied to a brand and optionally a category.
type QuerySeed struct {
	BrandSlug    string
	CategorySlug string
	Query        string
}

// GenerateSearchQueries expands the brand and category tables into search queries:
// one general query per brand, one per model, and one per model and category
// using the category's first keyword.
func GenerateSearchQueries() []QuerySeed {
	var queries []QuerySeed
	for _, b := range defaultBrands {
		queries = append(queries, QuerySeed{BrandSlug: b.Slug, Query: b.NameEn + " electric car accessories"})
		for _, model := range b.Models {
			queries = append(queries, QuerySeed{BrandSlug: b.Slug, Query: model + " accessories"})
			for _, c := range defaultCategories {
				queries = append(queries, QuerySeed{
					BrandSlug:    b.Slug,
					CategorySlug: c.Slug,
					Query:        model + " " + c.Keywords[0],
				})
			}
		}
	}
	return queries
}

// SelectSeedQueries keeps every general query plus the first perBrand
// category-specific queries of each brand.
func SelectSeedQueries(all []QuerySeed, perBrand int) []QuerySeed {
	seen := make(map[string]int)
	var out []QuerySeed
	for _, q := range all {
		if q.CategorySlug == "" {
			out = append(out, q)
			continue
		}
		if seen[q.BrandSlug] < perBrand {
			seen[q.BrandSlug]++
			out = append(out, q)
		}
	}
	return out
}
