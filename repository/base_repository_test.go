package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserTestRepo(t *testing.T) UserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewUserRepository(db)
}

func TestBaseRepositoryErrorTranslation(t *testing.T) {
	users := newUserTestRepo(t)

	_, err := users.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.Create(&models.User{Username: "budi", Password: "x"}))

	// The duplicate surfaces as the gorm sentinel, not a domain error:
	// what a duplicate means depends on the table.
	err = users.Create(&models.User{Username: "budi", Password: "y"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.NotErrorIs(t, err, ErrDuplicateAttachment)
}

func TestBaseRepositoryCRUD(t *testing.T) {
	users := newUserTestRepo(t)

	u := &models.User{Username: "siti", Password: "x"}
	require.NoError(t, users.Create(u))

	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "siti", got.Username)

	got.Email = "siti@example.com"
	require.NoError(t, users.Update(got))

	n, err := users.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, users.Delete(u.ID))
	_, err = users.GetByID(u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
