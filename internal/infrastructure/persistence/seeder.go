package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedCategoryQueriesPerBrand is how many category-specific queries each brand gets
const seedCategoryQueriesPerBrand = 3

// SeedResult counts the rows a seed pass inserted
type SeedResult struct {
	Brands     int
	Categories int
	Queries    int
	Products   int
}

// Seeder writes the reference tables, the initial search queries and two
// demo products. Every step skips rows that already exist, so it can run
// repeatedly.
type Seeder struct {
	brands     *GormBrandRepository
	categories *GormCategoryRepository
	queries    *GormSearchQueryRepository
	products   *GormProductRepository
	overrides  *GormProductOverrideRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewSeeder creates a Seeder over db
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		brands:     NewGormBrandRepository(db),
		categories: NewGormCategoryRepository(db),
		queries:    NewGormSearchQueryRepository(db),
		products:   NewGormProductRepository(db),
		overrides:  NewGormProductOverrideRepository(db),
		logger:     logger,
		now:        time.Now,
	}
}

// Seed runs every step. Demo products are skipped when withDemo is false.
func (s *Seeder) Seed(ctx context.Context, withDemo bool) (SeedResult, error) {
	var result SeedResult
	var err error

	if result.Brands, err = s.seedBrands(ctx); err != nil {
		return result, fmt.Errorf("seed brands: %w", err)
	}
	s.logger.Info("Seeded brands", zap.Int("inserted", result.Brands))

	if result.Categories, err = s.seedCategories(ctx); err != nil {
		return result, fmt.Errorf("seed categories: %w", err)
	}
	s.logger.Info("Seeded categories", zap.Int("inserted", result.Categories))

	brandIDs, categoryIDs, err := s.referenceIDs(ctx)
	if err != nil {
		return result, err
	}

	if result.Queries, err = s.seedQueries(ctx, brandIDs, categoryIDs); err != nil {
		return result, fmt.Errorf("seed search queries: %w", err)
	}
	s.logger.Info("Seeded search queries", zap.Int("inserted", result.Queries))

	if withDemo {
		if result.Products, err = s.seedDemoProducts(ctx, brandIDs, categoryIDs); err != nil {
			return result, fmt.Errorf("seed demo products: %w", err)
		}
		s.logger.Info("Seeded demo products", zap.Int("inserted", result.Products))
	}
	return result, nil
}

func (s *Seeder) seedBrands(ctx context.Context) (int, error) {
	inserted := 0
	for _, seed := range catalog.DefaultBrands() {
		b, err := catalog.NewBrand(seed.Slug, seed.NameHe, seed.NameEn, seed.Order)
		if err != nil {
			return inserted, err
		}
		ok, err := s.brands.SaveIfAbsent(ctx, b)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func (s *Seeder) seedCategories(ctx context.Context) (int, error) {
	inserted := 0
	for _, seed := range catalog.DefaultCategories() {
		c, err := catalog.NewAccessoryCategory(seed.Slug, seed.NameHe, seed.NameEn, seed.Keywords, seed.Order)
		if err != nil {
			return inserted, err
		}
		ok, err := s.categories.SaveIfAbsent(ctx, c)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

func (s *Seeder) referenceIDs(ctx context.Context) (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	brands, err := s.brands.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load brands: %w", err)
	}
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load categories: %w", err)
	}

	brandIDs := make(map[string]uuid.UUID, len(brands))
	for _, b := range brands {
		brandIDs[b.Slug] = b.ID
	}
	categoryIDs := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		categoryIDs[c.Slug] = c.ID
	}
	return brandIDs, categoryIDs, nil
}

func (s *Seeder) seedQueries(ctx context.Context, brandIDs, categoryIDs map[string]uuid.UUID) (int, error) {
	inserted := 0
	selected := catalog.SelectSeedQueries(catalog.GenerateSearchQueries(), seedCategoryQueriesPerBrand)
	for _, seed := range selected {
		brandID, ok := brandIDs[seed.BrandSlug]
		if !ok {
			continue
		}
		exists, err := s.queries.ExistsByText(ctx, brandID, seed.Query)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}

		var categoryID *uuid.UUID
		if id, ok := categoryIDs[seed.CategorySlug]; ok {
			categoryID = &id
		}
		q, err := catalog.NewSearchQuery(brandID, categoryID, seed.Query)
		if err != nil {
			return inserted, err
		}
		q.CreatedAt = s.now().Add(time.Duration(inserted) * time.Microsecond)
		if err := s.queries.Save(ctx, q); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// demoProduct is a hand-written storefront example
type demoProduct struct {
	externalID    string
	slugTitle     string
	title         string
	titleHe       string
	descriptionHe string
	images        []string
	price         string
	originalPrice string
	rating        float64
	orders        int
	shipping      string
	couponCode    string
	brandSlug     string
	categorySlug  string
	// couponOverride is written as an admin override after insert
	couponOverride string
}

var demoProducts = []demoProduct{
	{
		externalID:    "DEMO0001",
		slugTitle:     "Tesla Model 3 Model Y Floor Mats All Weather TPE",
		title:         "Tesla Model 3 Model Y Floor Mats All Weather TPE Rubber 3D Molded",
		titleHe:       "שטיחים לטסלה מודל 3 / מודל Y - TPE כל מזג אוויר, תלת מימד",
		descriptionHe: "שטיחים איכותיים מ-TPE לטסלה מודל 3 ומודל Y. עמידים בכל תנאי מזג אוויר, קלים לניקוי, עם התאמה מושלמת לרכב. כוללים שטיח לתא מטען.",
		images: []string{
			"https://ae01.alicdn.com/kf/S1234example1.jpg",
			"https://ae01.alicdn.com/kf/S1234example2.jpg",
		},
		price:         "45.99",
		originalPrice: "69.99",
		rating:        4.7,
		orders:        1250,
		shipping:      "משלוח חינם, 15-25 ימים",
		couponCode:    "EV5OFF",
		brandSlug:     "tesla",
		categorySlug:  "floor-mats",
	},
	{
		externalID:    "DEMO0002",
		slugTitle:     "BYD Atto 3 Navigation Screen Protector Tempered Glass",
		title:         "BYD Atto 3 12.8 Inch Navigation Screen Protector Tempered Glass HD",
		titleHe:       "מגן מסך לBYD Atto 3 - זכוכית מחוסמת 12.8 אינץ', HD",
		descriptionHe: "מגן מסך מזכוכית מחוסמת לרכב BYD Atto 3. מתאים למסך הניווט 12.8 אינץ'. שקוף, עמיד בשריטות, קל להתקנה. מגיע עם ערכת התקנה.",
		images: []string{
			"https://ae01.alicdn.com/kf/S5678example1.jpg",
			"https://ae01.alicdn.com/kf/S5678example2.jpg",
		},
		price:          "12.50",
		originalPrice:  "18.99",
		rating:         4.5,
		orders:         830,
		shipping:       "משלוח חינם, 20-30 ימים",
		brandSlug:      "byd",
		categorySlug:   "screen-protectors",
		couponOverride: "BYD10",
	},
}

func (s *Seeder) seedDemoProducts(ctx context.Context, brandIDs, categoryIDs map[string]uuid.UUID) (int, error) {
	inserted := 0
	for _, demo := range demoProducts {
		brandID, okBrand := brandIDs[demo.brandSlug]
		categoryID, okCategory := categoryIDs[demo.categorySlug]
		if !okBrand || !okCategory {
			continue
		}

		_, err := s.products.FindByExternalID(ctx, demo.externalID)
		if err == nil {
			continue
		}
		if !errors.Is(err, catalog.ErrProductNotFound) {
			return inserted, err
		}

		p, err := demo.toProduct(brandID, categoryID, s.now())
		if err != nil {
			return inserted, err
		}
		if err := s.products.Insert(ctx, p); err != nil {
			return inserted, err
		}
		inserted++

		if demo.couponOverride != "" {
			o := catalog.NewProductOverride(p.ID)
			code := demo.couponOverride
			if err := o.ApplyPatch(catalog.OverridePatch{CouponOverride: &code}, s.now()); err != nil {
				return inserted, err
			}
			if err := s.overrides.Save(ctx, o); err != nil {
				return inserted, err
			}
		}
	}
	return inserted, nil
}

func (d demoProduct) toProduct(brandID, categoryID uuid.UUID, now time.Time) (*catalog.Product, error) {
	originalPrice := decimal.RequireFromString(d.originalPrice)
	rating := d.rating
	shipping := d.shipping
	snapshot := catalog.ProductSnapshot{
		AliExpressProductID: d.externalID,
		TitleOriginal:       d.title,
		Images:              d.images,
		Price:               decimal.RequireFromString(d.price),
		Currency:            "USD",
		OriginalPrice:       &originalPrice,
		Rating:              &rating,
		TotalOrders:         d.orders,
		ShippingInfo:        &shipping,
		OriginalURL:         "https://www.aliexpress.com/item/" + d.externalID + ".html",
		BrandID:             &brandID,
		CategoryID:          &categoryID,
		BrandHints:          []string{d.brandSlug},
		CategoryHints:       []string{d.categorySlug},
	}
	if d.couponCode != "" {
		code := d.couponCode
		snapshot.Coupon = catalog.Coupon{Code: &code}
	}

	p, err := catalog.NewProductFromSnapshot(snapshot, now)
	if err != nil {
		return nil, err
	}
	p.Slug = catalog.GenerateProductSlug(d.slugTitle, d.externalID)
	titleHe := d.titleHe
	descriptionHe := d.descriptionHe
	p.TitleHe = &titleHe
	p.DescriptionHe = &descriptionHe
	return p, nil
}
