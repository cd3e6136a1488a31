package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/caterflow/backend/internal/domain/identity"
	"github.com/caterflow/backend/internal/domain/shared"
)

func TestGormUserRepository_FindByUsername(t *testing.T) {
	t.Run("lowercases the username and loads site restrictions", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(gormDB)

		userID := uuid.New()
		siteID := uuid.New()

		userRows := sqlmock.NewRows([]string{"id", "username", "role", "status"}).
			AddRow(userID, "chef.antoine", "manager", "active")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 AND "users"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs("chef.antoine", 1).
			WillReturnRows(userRows)

		mock.ExpectQuery(`SELECT "site_id" FROM "user_sites" WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"site_id"}).AddRow(siteID))

		user, err := repo.FindByUsername(context.Background(), "Chef.Antoine")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "chef.antoine", user.Username)
		assert.Equal(t, []uuid.UUID{siteID}, user.SiteIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown username", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 AND "users"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs("ghost", 1).
			WillReturnError(shared.ErrNotFound)

		user, err := repo.FindByUsername(context.Background(), "ghost")

		assert.Error(t, err)
		assert.Nil(t, user)
	})
}

func TestGormUserRepository_ExistsByUsername(t *testing.T) {
	t.Run("checks the lowercased username", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(gormDB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username = \$1 AND "users"\."deleted_at" IS NULL`).
			WithArgs("prep.dana").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByUsername(context.Background(), "Prep.Dana", nil)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_ReplaceSites(t *testing.T) {
	t.Run("clears restrictions when given an empty set", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(gormDB)

		userID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "user_sites" WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.ReplaceSites(context.Background(), userID, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepositoryInterface(t *testing.T) {
	gormDB, _, mockDB := newMockDB(t)
	defer mockDB.Close()

	var _ identity.UserRepository = NewGormUserRepository(gormDB)
}
