package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureStore records object deletions instead of talking to a bucket.
type captureStore struct {
	deleted []string
}

func (s *captureStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	return nil
}

func (s *captureStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *captureStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://example.com/" + key, nil
}

func newCleanupFixture(t *testing.T) (repository.MediaRepository, *captureStore, MediaService) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Media{}, &models.Mediable{}))

	repo := repository.NewMediaRepository(db)
	store := &captureStore{}
	svc := NewMediaService(repo, repository.NewMediableRepository(db), nil,
		store, nil, newTestLogger(), 1<<20, time.Minute)
	return repo, store, svc
}

func storedNode(t *testing.T, repo repository.MediaRepository, name string, parentID *uuid.UUID) *models.Media {
	t.Helper()
	m, err := repo.Create(repository.MediaAttrs{
		Name:     name,
		Hash:     name,
		FileName: "uploads/" + name + ".jpg",
		Disk:     models.DiskS3,
		MimeType: "image/jpeg",
		Size:     1,
	}, parentID)
	require.NoError(t, err)
	return m
}

func TestPurgeCleansSoftDeletedObjects(t *testing.T) {
	repo, store, svc := newCleanupFixture(t)
	actor := uuid.New()

	root := storedNode(t, repo, "root", nil)
	child := storedNode(t, repo, "child", &root.ID)

	// The child is retired first; its object must still be reclaimed
	// when the subtree is purged.
	require.NoError(t, repo.SoftDelete(child.ID, actor))
	require.NoError(t, svc.Delete(context.Background(), root.ID, actor, true))

	assert.ElementsMatch(t, []string{"uploads/root.jpg", "uploads/child.jpg"}, store.deleted)

	_, err := repo.SubtreeWithDeleted(root.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPurgeCleansFullySoftDeletedSubtree(t *testing.T) {
	repo, store, svc := newCleanupFixture(t)
	actor := uuid.New()

	root := storedNode(t, repo, "root", nil)
	storedNode(t, repo, "child", &root.ID)

	// Soft-delete the purge target itself, then purge it.
	require.NoError(t, repo.SoftDelete(root.ID, actor))
	require.NoError(t, svc.Delete(context.Background(), root.ID, actor, true))

	assert.ElementsMatch(t, []string{"uploads/root.jpg", "uploads/child.jpg"}, store.deleted)
}

func TestPurgeKeepsSharedObjects(t *testing.T) {
	repo, store, svc := newCleanupFixture(t)
	actor := uuid.New()

	// Content-hash keying: two rows, one stored object.
	shared := "uploads/dedup.jpg"
	a, err := repo.Create(repository.MediaAttrs{
		Name: "a", Hash: "dedup", FileName: shared,
		Disk: models.DiskS3, MimeType: "image/jpeg", Size: 1,
	}, nil)
	require.NoError(t, err)
	b, err := repo.Create(repository.MediaAttrs{
		Name: "b", Hash: "dedup", FileName: shared,
		Disk: models.DiskS3, MimeType: "image/jpeg", Size: 1,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), a.ID, actor, true))
	assert.Empty(t, store.deleted, "object survives while another row references it")

	require.NoError(t, svc.Delete(context.Background(), b.ID, actor, true))
	assert.Equal(t, []string{shared}, store.deleted, "last reference gone, object reclaimed")
}
