package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turahe/ocr-identity-rest-api/models"
)

func TestCreateRootAndChildren(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	assert.EqualValues(t, 1, root.RecordLeft)
	assert.EqualValues(t, 2, root.RecordRight)
	assert.EqualValues(t, 0, root.RecordDept)
	assert.EqualValues(t, 1, root.RecordOrdering)

	a := mustCreate(t, repo, "a", &root.ID)
	b := mustCreate(t, repo, "b", &root.ID)

	root = reload(t, db, root.ID)
	assert.EqualValues(t, 1, root.RecordLeft)
	assert.EqualValues(t, 6, root.RecordRight)
	assert.EqualValues(t, 3, root.SubtreeSize())

	a = reload(t, db, a.ID)
	b = reload(t, db, b.ID)
	assert.EqualValues(t, 1, a.RecordDept)
	assert.EqualValues(t, 1, b.RecordDept)
	assert.EqualValues(t, 1, a.RecordOrdering)
	assert.EqualValues(t, 2, b.RecordOrdering)

	requireWellFormed(t, db)
}

func TestCreateSecondRootAppends(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	r1 := mustCreate(t, repo, "r1", nil)
	mustCreate(t, repo, "c1", &r1.ID)
	r2 := mustCreate(t, repo, "r2", nil)

	r1 = reload(t, db, r1.ID)
	assert.EqualValues(t, r1.RecordRight+1, r2.RecordLeft)
	assert.EqualValues(t, 2, r2.RecordOrdering)
	requireWellFormed(t, db)
}

func TestCreateInvalidParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	_, err := repo.Create(MediaAttrs{Name: "x", FileName: "x", Disk: models.DiskS3, MimeType: "image/png"}, ptr(uuid.New()))
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestCreateUnderSoftDeletedParent(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	require.NoError(t, repo.SoftDelete(root.ID, uuid.New()))

	_, err := repo.Create(MediaAttrs{Name: "x", FileName: "x", Disk: models.DiskS3, MimeType: "image/png"}, &root.ID)
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestSubtreePreOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	mustCreate(t, repo, "a1", &a.ID)
	mustCreate(t, repo, "a2", &a.ID)
	mustCreate(t, repo, "b", &root.ID)

	nodes, err := repo.Subtree(root.ID)
	require.NoError(t, err)

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	assert.Equal(t, []string{"root", "a", "a1", "a2", "b"}, names)

	rootNode := nodes[0]
	assert.EqualValues(t, len(nodes), rootNode.SubtreeSize())

	sub, err := repo.Subtree(a.ID)
	require.NoError(t, err)
	assert.Len(t, sub, 3)
	assert.EqualValues(t, 3, sub[0].SubtreeSize())
}

func TestSubtreeMissingNode(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	_, err := repo.Subtree(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	b := mustCreate(t, repo, "b", &root.ID)
	a1 := mustCreate(t, repo, "a1", &a.ID)
	mustCreate(t, repo, "a11", &a1.ID)

	before := snapshot(t, db)

	require.NoError(t, repo.Move(a1.ID, &b.ID))
	requireWellFormed(t, db)

	moved := reload(t, db, a1.ID)
	bNode := reload(t, db, b.ID)
	assert.Equal(t, b.ID, *moved.ParentID)
	assert.Equal(t, bNode.RecordDept+1, moved.RecordDept)
	assert.True(t, bNode.Contains(moved))
	assert.EqualValues(t, 2, moved.SubtreeSize(), "descendants travel with the node")

	require.NoError(t, repo.Move(a1.ID, &a.ID))
	requireWellFormed(t, db)

	after := snapshot(t, db)
	assert.Equal(t, before, after, "moving there and back restores every coordinate")
}

func TestMoveToRoot(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	mustCreate(t, repo, "a1", &a.ID)

	require.NoError(t, repo.Move(a.ID, nil))
	requireWellFormed(t, db)

	moved := reload(t, db, a.ID)
	assert.Nil(t, moved.ParentID)
	assert.EqualValues(t, 0, moved.RecordDept)
	assert.EqualValues(t, 2, moved.SubtreeSize())

	rootNode := reload(t, db, root.ID)
	assert.EqualValues(t, 1, rootNode.SubtreeSize())
	assert.EqualValues(t, 2, moved.RecordOrdering, "new root ordered after the existing one")
}

func TestMoveCycleDetected(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	a1 := mustCreate(t, repo, "a1", &a.ID)

	assert.ErrorIs(t, repo.Move(a.ID, &a.ID), ErrCycleDetected)
	assert.ErrorIs(t, repo.Move(a.ID, &a1.ID), ErrCycleDetected)
	assert.ErrorIs(t, repo.Move(root.ID, &a1.ID), ErrCycleDetected)

	// A rejected move leaves the tree untouched.
	requireWellFormed(t, db)
	assert.EqualValues(t, 3, reload(t, db, root.ID).SubtreeSize())
}

func TestMoveErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)

	assert.ErrorIs(t, repo.Move(uuid.New(), &root.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Move(root.ID, ptr(uuid.New())), ErrInvalidParent)
}

func TestSoftDeleteSubtree(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	a1 := mustCreate(t, repo, "a1", &a.ID)
	b := mustCreate(t, repo, "b", &root.ID)

	before := snapshot(t, db)
	actor := uuid.New()
	require.NoError(t, repo.SoftDelete(a.ID, actor))

	_, err := repo.GetByID(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(a1.ID)
	assert.ErrorIs(t, err, ErrNotFound, "descendants go with the node")

	bNode, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", bNode.Name)

	// Ranges stay reserved: no renumbering on soft delete.
	after := snapshot(t, db)
	assert.Equal(t, before, after)

	deleted := reload(t, db, a.ID)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, actor, *deleted.DeletedBy)

	nodes, err := repo.Subtree(root.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 2, "subtree hides deleted descendants")

	assert.ErrorIs(t, repo.SoftDelete(a.ID, actor), ErrNotFound, "second delete finds nothing")
}

func TestPurgeClosesGap(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	mustCreate(t, repo, "a1", &a.ID)
	b := mustCreate(t, repo, "b", &root.ID)

	require.NoError(t, repo.Purge(a.ID))
	requireWellFormed(t, db)

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	rootNode := reload(t, db, root.ID)
	bNode := reload(t, db, b.ID)
	assert.EqualValues(t, 1, rootNode.RecordLeft)
	assert.EqualValues(t, 4, rootNode.RecordRight, "gap closed, range tight again")
	assert.EqualValues(t, 2, bNode.RecordLeft)
	assert.EqualValues(t, 3, bNode.RecordRight)
	assert.EqualValues(t, 1, bNode.RecordOrdering, "sibling ordering compacted")

	// Purging again, or purging an unknown id, is a no-op.
	assert.NoError(t, repo.Purge(a.ID))
	assert.NoError(t, repo.Purge(uuid.New()))
}

func TestPurgeSoftDeletedSubtree(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	a := mustCreate(t, repo, "a", &root.ID)
	mustCreate(t, repo, "a1", &a.ID)

	require.NoError(t, repo.SoftDelete(a.ID, uuid.New()))
	require.NoError(t, repo.Purge(a.ID))
	requireWellFormed(t, db)

	rootNode := reload(t, db, root.ID)
	assert.EqualValues(t, 1, rootNode.SubtreeSize())
	assert.EqualValues(t, 2, rootNode.RecordRight)
}

func TestUpdateKeepsTreeColumns(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepository(db)

	root := mustCreate(t, repo, "root", nil)
	mustCreate(t, repo, "a", &root.ID)

	node := reload(t, db, root.ID)
	node.Name = "renamed"
	node.RecordLeft = 99 // must be ignored
	require.NoError(t, repo.Update(node))

	got := reload(t, db, root.ID)
	assert.Equal(t, "renamed", got.Name)
	assert.EqualValues(t, 1, got.RecordLeft)
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
