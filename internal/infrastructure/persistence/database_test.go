package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Yitzhakza/electic/internal/domain/catalog"
	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"github.com/Yitzhakza/electic/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_PingContext(t *testing.T) {
	t.Run("alive", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		assert.NoError(t, db.PingContext(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("closed pool fails", func(t *testing.T) {
		db, _, mockDB := newMockDatabase(t)
		require.NoError(t, mockDB.Close())

		assert.Error(t, db.PingContext(context.Background()))
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurePool(t *testing.T) {
	_, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	configurePool(mockDB, &config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: 30})

	assert.Equal(t, 4, mockDB.Stats().MaxOpenConnections)
}

// The SQL shape tests below pin the postgres statements the repositories emit.

func TestGormBrandRepository_SaveIfAbsent_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormBrandRepository(db.DB)

	brand, err := catalog.NewBrand("tesla", "טסלה", "Tesla", 1)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "brands" .* ON CONFLICT \("slug"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.SaveIfAbsent(context.Background(), brand)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_UpdateByExternalID_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(db.DB)

	now := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	product, err := catalog.NewProductFromSnapshot(catalog.ProductSnapshot{
		AliExpressProductID: "1005001",
		TitleOriginal:       "Tesla Model 3 floor mats",
		Price:               decimal.RequireFromString("19.99"),
		Currency:            "USD",
		OriginalURL:         "https://www.aliexpress.com/item/1005001.html",
	}, now)
	require.NoError(t, err)

	t.Run("updates synced columns by external id", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "products" SET .*"title_original"=.* WHERE aliexpress_product_id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateByExternalID(context.Background(), product))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "products" SET .* WHERE aliexpress_product_id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateByExternalID(context.Background(), product)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slug is never rewritten", func(t *testing.T) {
		assert.NotContains(t, models.ProductSyncColumns, "slug")
		assert.NotContains(t, models.ProductSyncColumns, "created_at")
		assert.NotContains(t, models.ProductSyncColumns, "title_he")
	})
}

func TestGormSyncRunRepository_FindRunningStartedBefore_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormSyncRunRepository(db.DB)

	cutoff := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "sync_runs" WHERE status = \$1 AND started_at < \$2 ORDER BY started_at ASC`).
		WithArgs("running", cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "started_at", "status", "errors", "triggered_by"}).
			AddRow(uuid.New().String(), cutoff.Add(-time.Hour), "running", []byte(`[]`), "cron"))

	runs, err := repo.FindRunningStartedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{}, runs[0].Errors)
	assert.NoError(t, mock.ExpectationsWereMet())
}
