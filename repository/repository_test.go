package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The unique DSN
// keeps parallel tests from sharing state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Media{}, &models.Mediable{}))
	return db
}

func mustCreate(t *testing.T, repo MediaRepository, name string, parentID *uuid.UUID) *models.Media {
	t.Helper()
	m, err := repo.Create(MediaAttrs{
		Name:     name,
		FileName: "uploads/" + name,
		Disk:     models.DiskS3,
		MimeType: "image/jpeg",
		Size:     1,
	}, parentID)
	require.NoError(t, err)
	return m
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Media {
	t.Helper()
	var m models.Media
	require.NoError(t, db.First(&m, "id = ?", id).Error)
	return &m
}

// snapshot captures every row's tree coordinates, deleted rows
// included, keyed by name.
func snapshot(t *testing.T, db *gorm.DB) map[string][4]int64 {
	t.Helper()
	var nodes []*models.Media
	require.NoError(t, db.Find(&nodes).Error)
	out := make(map[string][4]int64, len(nodes))
	for _, n := range nodes {
		out[n.Name] = [4]int64{n.RecordLeft, n.RecordRight, n.RecordDept, n.RecordOrdering}
	}
	return out
}

// requireWellFormed checks the structural invariant over every pair of
// active nodes: ranges are either disjoint or strictly nested, and the
// parent range always encloses the child range.
func requireWellFormed(t *testing.T, db *gorm.DB) {
	t.Helper()
	var nodes []*models.Media
	require.NoError(t, db.Where("deleted_at IS NULL").Order("record_left ASC").Find(&nodes).Error)

	byID := make(map[uuid.UUID]*models.Media, len(nodes))
	for _, n := range nodes {
		require.Less(t, n.RecordLeft, n.RecordRight, "node %s has inverted range", n.Name)
		byID[n.ID] = n
	}
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			disjoint := a.RecordRight < b.RecordLeft || b.RecordRight < a.RecordLeft
			nested := a.Contains(b) || b.Contains(a)
			require.True(t, disjoint || nested,
				"ranges of %s [%d,%d] and %s [%d,%d] overlap without nesting",
				a.Name, a.RecordLeft, a.RecordRight, b.Name, b.RecordLeft, b.RecordRight)
		}
	}
	for _, n := range nodes {
		if n.ParentID == nil {
			require.EqualValues(t, 0, n.RecordDept, "root %s has nonzero depth", n.Name)
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok {
			continue // parent soft-deleted
		}
		require.True(t, parent.Contains(n), "parent %s does not enclose %s", parent.Name, n.Name)
		require.Equal(t, parent.RecordDept+1, n.RecordDept, "depth of %s", n.Name)
	}
}
