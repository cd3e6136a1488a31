package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/caterflow/backend/internal/domain/partner"
	"github.com/caterflow/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func TestNewGormSupplierRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()

		repo := NewGormSupplierRepository(gormDB)

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormSupplierRepository_FindByID(t *testing.T) {
	t.Run("finds existing supplier", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(gormDB)

		supplierID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "contact_person", "email", "phone", "active"}).
			AddRow(supplierID, "Valley Produce Co", "Mara Quinn", "orders@valleyproduce.test", "555-0107", true)

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE id = \$1 AND "suppliers"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(supplierID, 1).
			WillReturnRows(rows)

		supplier, err := repo.FindByID(context.Background(), supplierID)

		assert.NoError(t, err)
		assert.NotNil(t, supplier)
		assert.Equal(t, supplierID, supplier.ID)
		assert.Equal(t, "Valley Produce Co", supplier.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing supplier", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(gormDB)

		supplierID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "suppliers" WHERE id = \$1 AND "suppliers"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(supplierID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		supplier, err := repo.FindByID(context.Background(), supplierID)

		assert.Error(t, err)
		assert.Nil(t, supplier)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_ExistsByName(t *testing.T) {
	t.Run("reports existing name", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "suppliers" WHERE name = \$1 AND "suppliers"\."deleted_at" IS NULL`).
			WithArgs("Valley Produce Co").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByName(context.Background(), "Valley Produce Co", nil)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the given supplier ID", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(gormDB)

		excludeID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "suppliers" WHERE \(name = \$1 AND id <> \$2\) AND "suppliers"\."deleted_at" IS NULL`).
			WithArgs("Valley Produce Co", excludeID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByName(context.Background(), "Valley Produce Co", &excludeID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(gormDB)

		supplierID := uuid.New()

		mock.ExpectExec(`UPDATE "suppliers" SET "deleted_at"=.* WHERE id = \$2 AND "suppliers"\."deleted_at" IS NULL`).
			WithArgs(sqlmock.AnyArg(), supplierID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), supplierID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSupplierRepository_FindByIDs(t *testing.T) {
	t.Run("returns empty slice for empty input without querying", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSupplierRepository(gormDB)

		suppliers, err := repo.FindByIDs(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, suppliers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// Interface compliance for the partner repositories
func TestPartnerRepositoryInterfaces(t *testing.T) {
	gormDB, _, mockDB := newMockDB(t)
	defer mockDB.Close()

	var _ partner.SupplierRepository = NewGormSupplierRepository(gormDB)
	var _ partner.SiteRepository = NewGormSiteRepository(gormDB)
}
