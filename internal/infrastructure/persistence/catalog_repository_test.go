package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedBrand(t *testing.T, repo *GormBrandRepository, slug, nameEn string, order int) *catalog.Brand {
	t.Helper()
	b, err := catalog.NewBrand(slug, nameEn+"-he", nameEn, order)
	require.NoError(t, err)
	inserted, err := repo.SaveIfAbsent(context.Background(), b)
	require.NoError(t, err)
	require.True(t, inserted)
	return b
}

func seedCategory(t *testing.T, repo *GormCategoryRepository, slug string, keywords []string, order int) *catalog.AccessoryCategory {
	t.Helper()
	c, err := catalog.NewAccessoryCategory(slug, slug+"-he", slug, keywords, order)
	require.NoError(t, err)
	inserted, err := repo.SaveIfAbsent(context.Background(), c)
	require.NoError(t, err)
	require.True(t, inserted)
	return c
}

func newTestProduct(t *testing.T, externalID, title string, price string, orders int, now time.Time) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProductFromSnapshot(catalog.ProductSnapshot{
		AliExpressProductID: externalID,
		TitleOriginal:       title,
		Images:              []string{"https://img.example.com/" + externalID + ".jpg"},
		Price:               decimal.RequireFromString(price),
		Currency:            "USD",
		TotalOrders:         orders,
		OriginalURL:         "https://www.aliexpress.com/item/" + externalID + ".html",
	}, now)
	require.NoError(t, err)
	return p
}

func TestGormBrandRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBrandRepository(db)
	ctx := context.Background()

	seedBrand(t, repo, "tesla", "Tesla", 2)
	seedBrand(t, repo, "byd", "BYD", 1)

	t.Run("SaveIfAbsent skips existing slug", func(t *testing.T) {
		dup, err := catalog.NewBrand("tesla", "other", "Other", 9)
		require.NoError(t, err)

		inserted, err := repo.SaveIfAbsent(ctx, dup)
		require.NoError(t, err)
		assert.False(t, inserted)

		b, err := repo.FindBySlug(ctx, "tesla")
		require.NoError(t, err)
		assert.Equal(t, "Tesla", b.NameEn)
	})

	t.Run("FindAll orders by display order", func(t *testing.T) {
		brands, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, brands, 2)
		assert.Equal(t, "byd", brands[0].Slug)
		assert.Equal(t, "tesla", brands[1].Slug)
		assert.True(t, brands[0].Enabled)
	})

	t.Run("FindBySlug not found", func(t *testing.T) {
		_, err := repo.FindBySlug(ctx, "rivian")
		assert.ErrorIs(t, err, catalog.ErrBrandNotFound)
	})
}

func TestGormCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	seedCategory(t, repo, "charging", []string{"charger", "wallbox"}, 1)

	c, err := repo.FindBySlug(ctx, "charging")
	require.NoError(t, err)
	assert.Equal(t, []string{"charger", "wallbox"}, c.Keywords)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestGormSearchQueryRepository(t *testing.T) {
	db := setupTestDB(t)
	brands := NewGormBrandRepository(db)
	categories := NewGormCategoryRepository(db)
	repo := NewGormSearchQueryRepository(db)
	ctx := context.Background()

	tesla := seedBrand(t, brands, "tesla", "Tesla", 1)
	mats := seedCategory(t, categories, "floor-mats", []string{"floor mat"}, 1)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := catalog.NewSearchQuery(tesla.ID, &mats.ID, "Model 3 floor mat")
	require.NoError(t, err)
	first.CreatedAt = base
	second, err := catalog.NewSearchQuery(tesla.ID, nil, "Tesla accessories")
	require.NoError(t, err)
	second.CreatedAt = base.Add(time.Minute)
	disabled, err := catalog.NewSearchQuery(tesla.ID, nil, "Model Y wheels")
	require.NoError(t, err)
	disabled.CreatedAt = base.Add(2 * time.Minute)
	disabled.SetEnabled(false)

	for _, q := range []*catalog.SearchQuery{second, disabled, first} {
		require.NoError(t, repo.Save(ctx, q))
	}

	t.Run("FindEnabled returns enabled queries in creation order", func(t *testing.T) {
		queries, err := repo.FindEnabled(ctx, nil)
		require.NoError(t, err)
		require.Len(t, queries, 2)
		assert.Equal(t, first.ID, queries[0].ID)
		assert.Equal(t, second.ID, queries[1].ID)
	})

	t.Run("FindEnabled narrows to ids and still skips disabled", func(t *testing.T) {
		queries, err := repo.FindEnabled(ctx, []uuid.UUID{second.ID, disabled.ID})
		require.NoError(t, err)
		require.Len(t, queries, 1)
		assert.Equal(t, second.ID, queries[0].ID)
	})

	t.Run("ListWithNames joins reference names", func(t *testing.T) {
		views, err := repo.ListWithNames(ctx)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, first.ID, views[0].ID)
		require.NotNil(t, views[0].BrandName)
		assert.Equal(t, "Tesla-he", *views[0].BrandName)
		require.NotNil(t, views[0].CategoryName)
		assert.Equal(t, "floor-mats-he", *views[0].CategoryName)
		assert.Nil(t, views[1].CategoryName)
	})

	t.Run("Save updates an existing query", func(t *testing.T) {
		require.NoError(t, second.UpdateText("Tesla interior accessories"))
		require.NoError(t, repo.Save(ctx, second))

		got, err := repo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tesla interior accessories", got.QueryText)
	})

	t.Run("MarkSynced stamps last sync time", func(t *testing.T) {
		at := base.Add(time.Hour)
		require.NoError(t, repo.MarkSynced(ctx, first.ID, at))

		got, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastSyncAt)
		assert.True(t, at.Equal(*got.LastSyncAt))

		assert.ErrorIs(t, repo.MarkSynced(ctx, uuid.New(), at), catalog.ErrQueryNotFound)
	})

	t.Run("ExistsByText ignores case", func(t *testing.T) {
		exists, err := repo.ExistsByText(ctx, tesla.ID, "model 3 FLOOR mat")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByText(ctx, uuid.New(), "Model 3 floor mat")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete removes the query once", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, disabled.ID))
		assert.ErrorIs(t, repo.Delete(ctx, disabled.ID), catalog.ErrQueryNotFound)
		_, err := repo.FindByID(ctx, disabled.ID)
		assert.ErrorIs(t, err, catalog.ErrQueryNotFound)
	})
}

func TestGormProductRepository_InsertAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	created := time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC)
	p := newTestProduct(t, "1005001", "Tesla Model 3 Floor Mats", "19.99", 120, created)
	p.TitleHe = strPtr("שטיחים לטסלה")
	require.NoError(t, repo.Insert(ctx, p))

	t.Run("duplicate external id is rejected", func(t *testing.T) {
		dup := newTestProduct(t, "1005001", "Another title", "5.00", 0, created)
		assert.ErrorIs(t, repo.Insert(ctx, dup), catalog.ErrProductExists)
	})

	t.Run("round trips all fields", func(t *testing.T) {
		got, err := repo.FindByExternalID(ctx, "1005001")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "tesla-model-3-floor-mats-1005001", got.Slug)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")))
		assert.Equal(t, 120, got.TotalOrders)
		assert.Equal(t, []string{"https://img.example.com/1005001.jpg"}, got.Images)
		assert.Equal(t, []string{}, got.BrandHints)
		assert.True(t, got.IsActive)
	})

	t.Run("update overwrites synced fields only", func(t *testing.T) {
		later := created.Add(24 * time.Hour)
		existing, err := repo.FindByExternalID(ctx, "1005001")
		require.NoError(t, err)

		rating := 4.8
		existing.Apply(catalog.ProductSnapshot{
			AliExpressProductID: "1005001",
			TitleOriginal:       "Tesla Model 3 Floor Mats 2025",
			Images:              []string{},
			Price:               decimal.RequireFromString("17.50"),
			Currency:            "USD",
			Rating:              &rating,
			TotalOrders:         300,
			OriginalURL:         "https://www.aliexpress.com/item/1005001.html",
			Coupon:              catalog.Coupon{Code: strPtr("SAVE3")},
		}, later)
		existing.Slug = "should-not-change"
		require.NoError(t, repo.UpdateByExternalID(ctx, existing))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tesla Model 3 Floor Mats 2025", got.TitleOriginal)
		assert.Equal(t, "tesla-model-3-floor-mats-1005001", got.Slug)
		require.NotNil(t, got.TitleHe)
		assert.Equal(t, "שטיחים לטסלה", *got.TitleHe)
		assert.True(t, got.CreatedAt.Equal(created))
		assert.True(t, got.UpdatedAt.Equal(later))
		assert.Equal(t, 300, got.TotalOrders)
		require.NotNil(t, got.Rating)
		assert.InDelta(t, 4.8, *got.Rating, 0.0001)
		require.NotNil(t, got.Coupon.Code)
		assert.Equal(t, "SAVE3", *got.Coupon.Code)
	})

	t.Run("update of unknown external id", func(t *testing.T) {
		ghost := newTestProduct(t, "999", "Ghost", "1.00", 0, created)
		assert.ErrorIs(t, repo.UpdateByExternalID(ctx, ghost), catalog.ErrProductNotFound)
	})

	t.Run("find unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestGormProductRepository_Coupons(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	withCoupon := newTestProduct(t, "1", "With coupon", "10.00", 0, now)
	withCoupon.Coupon = catalog.Coupon{Code: strPtr("OLD"), Discount: strPtr("$2")}
	without := newTestProduct(t, "2", "Without coupon", "10.00", 0, now)
	require.NoError(t, repo.Insert(ctx, withCoupon))
	require.NoError(t, repo.Insert(ctx, without))

	products, err := repo.FindWithCoupon(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, withCoupon.ID, products[0].ID)

	expiry := now.AddDate(0, 0, 7)
	require.NoError(t, repo.UpdateCoupon(ctx, withCoupon.ID, catalog.Coupon{
		Code:   strPtr("NEW"),
		Expiry: &expiry,
	}, now.Add(time.Hour)))

	got, err := repo.FindByID(ctx, withCoupon.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEW", *got.Coupon.Code)
	assert.Nil(t, got.Coupon.Discount)
	require.NotNil(t, got.Coupon.Expiry)
	assert.True(t, expiry.Equal(*got.Coupon.Expiry))

	require.NoError(t, repo.UpdateCoupon(ctx, withCoupon.ID, catalog.Coupon{}, now.Add(2*time.Hour)))
	products, err = repo.FindWithCoupon(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	assert.ErrorIs(t, repo.UpdateCoupon(ctx, uuid.New(), catalog.Coupon{}, now), catalog.ErrProductNotFound)
}

func TestGormProductRepository_DeactivateStale(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	old := newTestProduct(t, "old", "Old listing", "5.00", 0, base)
	fresh := newTestProduct(t, "fresh", "Fresh listing", "5.00", 0, base.Add(48*time.Hour))
	require.NoError(t, repo.Insert(ctx, old))
	require.NoError(t, repo.Insert(ctx, fresh))

	n, err := repo.DeactivateStale(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestGormProductRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	overrides := NewGormProductOverrideRepository(db)
	brands := NewGormBrandRepository(db)
	categories := NewGormCategoryRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	tesla := seedBrand(t, brands, "tesla", "Tesla", 1)
	byd := seedBrand(t, brands, "byd", "BYD", 2)
	charging := seedCategory(t, categories, "charging", []string{"charger"}, 1)

	cheap := newTestProduct(t, "a", "Tesla charger adapter", "9.00", 50, now)
	cheap.BrandID = &tesla.ID
	cheap.CategoryID = &charging.ID
	pricey := newTestProduct(t, "b", "Tesla wall charger", "199.00", 500, now)
	pricey.BrandID = &tesla.ID
	rating := 4.9
	pricey.Rating = &rating
	bydMat := newTestProduct(t, "c", "BYD Atto 3 mat", "30.00", 10, now)
	bydMat.BrandID = &byd.ID
	hidden := newTestProduct(t, "d", "Tesla hidden item", "12.00", 1000, now)
	hidden.BrandID = &tesla.ID
	inactive := newTestProduct(t, "e", "Tesla old item", "12.00", 2000, now)
	inactive.Deactivate(now)

	for _, p := range []*catalog.Product{cheap, pricey, bydMat, hidden, inactive} {
		require.NoError(t, repo.Insert(ctx, p))
	}

	o := catalog.NewProductOverride(hidden.ID)
	isHidden := true
	require.NoError(t, o.ApplyPatch(catalog.OverridePatch{IsHidden: &isHidden}, now))
	require.NoError(t, overrides.Save(ctx, o))

	titled := catalog.NewProductOverride(cheap.ID)
	require.NoError(t, titled.ApplyPatch(catalog.OverridePatch{TitleHeOverride: strPtr("מתאם")}, now))
	require.NoError(t, overrides.Save(ctx, titled))

	storefront := catalog.ProductListFilter{Page: 1, PageSize: 20, ActiveOnly: true}

	tests := []struct {
		name      string
		mutate    func(f *catalog.ProductListFilter)
		wantIDs   []uuid.UUID
		total     int64
		firstOnly bool
	}{
		{
			name:    "default sort by orders hides hidden and inactive",
			mutate:  func(f *catalog.ProductListFilter) {},
			wantIDs: []uuid.UUID{pricey.ID, cheap.ID, bydMat.ID},
			total:   3,
		},
		{
			name:    "price ascending",
			mutate:  func(f *catalog.ProductListFilter) { f.Sort = catalog.SortPriceAsc },
			wantIDs: []uuid.UUID{cheap.ID, bydMat.ID, pricey.ID},
			total:   3,
		},
		{
			name:    "price descending",
			mutate:  func(f *catalog.ProductListFilter) { f.Sort = catalog.SortPriceDesc },
			wantIDs: []uuid.UUID{pricey.ID, bydMat.ID, cheap.ID},
			total:   3,
		},
		{
			name:      "rating puts unrated last",
			mutate:    func(f *catalog.ProductListFilter) { f.Sort = catalog.SortRating },
			wantIDs:   []uuid.UUID{pricey.ID},
			total:     3,
			firstOnly: true,
		},
		{
			name:    "brand filter",
			mutate:  func(f *catalog.ProductListFilter) { f.BrandID = &byd.ID },
			wantIDs: []uuid.UUID{bydMat.ID},
			total:   1,
		},
		{
			name:    "category filter",
			mutate:  func(f *catalog.ProductListFilter) { f.CategoryID = &charging.ID },
			wantIDs: []uuid.UUID{cheap.ID},
			total:   1,
		},
		{
			name:    "case-insensitive search",
			mutate:  func(f *catalog.ProductListFilter) { f.Search = "CHARGER" },
			wantIDs: []uuid.UUID{pricey.ID, cheap.ID},
			total:   2,
		},
		{
			name:    "second page",
			mutate:  func(f *catalog.ProductListFilter) { f.PageSize = 2; f.Page = 2 },
			wantIDs: []uuid.UUID{bydMat.ID},
			total:   3,
		},
		{
			name: "admin view includes hidden and inactive",
			mutate: func(f *catalog.ProductListFilter) {
				f.ActiveOnly = false
				f.IncludeHidden = true
			},
			wantIDs: []uuid.UUID{inactive.ID, hidden.ID, pricey.ID, cheap.ID, bydMat.ID},
			total:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := storefront
			tt.mutate(&filter)

			rows, total, err := repo.List(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)

			got := make([]uuid.UUID, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.Product.ID)
			}
			if tt.firstOnly {
				require.NotEmpty(t, got)
				assert.Equal(t, tt.wantIDs[0], got[0])
				return
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}

	t.Run("rows carry overrides and reference names", func(t *testing.T) {
		rows, _, err := repo.List(ctx, catalog.ProductListFilter{ActiveOnly: true, CategoryID: &charging.ID})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		row := rows[0]
		require.NotNil(t, row.Override)
		assert.Equal(t, "מתאם", *row.Override.TitleHeOverride)
		assert.Equal(t, "tesla", *row.BrandSlug)
		assert.Equal(t, "Tesla-he", *row.BrandName)
		assert.Equal(t, "charging", *row.CategorySlug)
	})

	t.Run("empty result", func(t *testing.T) {
		rows, total, err := repo.List(ctx, catalog.ProductListFilter{Search: "nothing matches"})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, rows)
	})
}

func TestGormProductOverrideRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductOverrideRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()

	_, err := repo.FindByProductID(ctx, productID)
	assert.ErrorIs(t, err, catalog.ErrOverrideNotFound)

	first := catalog.NewProductOverride(productID)
	require.NoError(t, first.ApplyPatch(catalog.OverridePatch{CouponOverride: strPtr("BYD10")}, now))
	require.NoError(t, repo.Save(ctx, first))

	// A second override for the same product updates the existing row.
	second := catalog.NewProductOverride(productID)
	require.NoError(t, second.ApplyPatch(catalog.OverridePatch{
		CouponOverride: strPtr("BYD15"),
		TagsOverride:   []string{"sale"},
	}, now.Add(time.Hour)))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.FindByProductID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "BYD15", *got.CouponOverride)
	assert.Equal(t, []string{"sale"}, got.TagsOverride)

	var count int64
	require.NoError(t, db.Table("product_overrides").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormPlatformCouponRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPlatformCouponRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	superDeals, err := catalog.NewPlatformCoupon("Super Deals", now)
	require.NoError(t, err)
	weekly, err := catalog.NewPlatformCoupon("Weekly Deals", now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, superDeals))
	require.NoError(t, repo.Save(ctx, weekly))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Weekly Deals", active[0].PromoName)

	require.NoError(t, repo.DeactivateAll(ctx))
	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	found, err := repo.FindByPromoName(ctx, "Super Deals")
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	found.Refresh(catalog.LocalizePromoName(found.PromoName), now.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, found))

	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, superDeals.ID, active[0].ID)
	assert.Equal(t, "סופר דילים", *active[0].PromoNameHe)

	_, err = repo.FindByPromoName(ctx, "Unknown")
	assert.ErrorIs(t, err, catalog.ErrCouponNotFound)
}
