package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turahe/ocr-identity-rest-api/config"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return NewAuthService(repository.NewUserRepository(db), config.JWTConfig{
		Secret:        "test-secret",
		ExpireMinutes: 5,
	})
}

func TestRegisterLoginValidate(t *testing.T) {
	auth := newAuthService(t)

	user, err := auth.Register("budi", "budi@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "correct horse battery", user.Password, "password is stored hashed")

	token, err := auth.Login("budi", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register("budi", "budi@example.com", "password-one")
	require.NoError(t, err)

	_, err = auth.Register("budi", "other@example.com", "password-two")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Register("budi", "", "the right password")
	require.NoError(t, err)

	_, err = auth.Login("budi", "the wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateGarbageToken(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
