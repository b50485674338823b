package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turahe/ocr-identity-rest-api/models"
)

func TestAttachAndList(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	front := mustCreate(t, media, "front", nil)
	back := mustCreate(t, media, "back", nil)

	require.NoError(t, mediables.Attach(front.ID, models.MediableTypePerson, owner, "document_front"))
	require.NoError(t, mediables.Attach(back.ID, models.MediableTypePerson, owner, "document_back"))

	all, err := mediables.ListFor(models.MediableTypePerson, owner, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := mediables.ListFor(models.MediableTypePerson, owner, "document_front")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, front.ID, only[0].ID)

	none, err := mediables.ListFor(models.MediableTypeUser, owner, "")
	require.NoError(t, err)
	assert.Empty(t, none, "owner type is part of the key")
}

func TestAttachDuplicate(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	m := mustCreate(t, media, "avatar", nil)

	require.NoError(t, mediables.Attach(m.ID, models.MediableTypeUser, owner, "avatar"))
	assert.ErrorIs(t, mediables.Attach(m.ID, models.MediableTypeUser, owner, "avatar"), ErrDuplicateAttachment)

	// A different group is a different tuple.
	assert.NoError(t, mediables.Attach(m.ID, models.MediableTypeUser, owner, "gallery"))
}

func TestAttachMissingOrDeletedMedia(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	assert.ErrorIs(t, mediables.Attach(uuid.New(), models.MediableTypeUser, owner, "avatar"), ErrMediaNotFound)

	m := mustCreate(t, media, "gone", nil)
	require.NoError(t, media.SoftDelete(m.ID, owner))
	assert.ErrorIs(t, mediables.Attach(m.ID, models.MediableTypeUser, owner, "avatar"), ErrMediaNotFound)
}

func TestDetachIdempotent(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	m := mustCreate(t, media, "avatar", nil)
	require.NoError(t, mediables.Attach(m.ID, models.MediableTypeUser, owner, "avatar"))

	require.NoError(t, mediables.Detach(m.ID, models.MediableTypeUser, owner, "avatar"))
	require.NoError(t, mediables.Detach(m.ID, models.MediableTypeUser, owner, "avatar"))

	got, err := mediables.ListFor(models.MediableTypeUser, owner, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Detach never touches the media row itself.
	_, err = media.GetByID(m.ID)
	assert.NoError(t, err)
}

func TestListForHidesDeletedMedia(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	kept := mustCreate(t, media, "kept", nil)
	gone := mustCreate(t, media, "gone", nil)
	require.NoError(t, mediables.Attach(kept.ID, models.MediableTypePerson, owner, "gallery"))
	require.NoError(t, mediables.Attach(gone.ID, models.MediableTypePerson, owner, "gallery"))

	require.NoError(t, media.SoftDelete(gone.ID, owner))

	got, err := mediables.ListFor(models.MediableTypePerson, owner, "gallery")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kept.ID, got[0].ID)

	// The tuple survives the soft delete; the media is just filtered.
	var count int64
	require.NoError(t, db.Model(&models.Mediable{}).Where("media_id = ?", gone.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGroupsFor(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	a := mustCreate(t, media, "a", nil)
	b := mustCreate(t, media, "b", nil)
	c := mustCreate(t, media, "c", nil)
	require.NoError(t, mediables.Attach(a.ID, models.MediableTypePerson, owner, "gallery"))
	require.NoError(t, mediables.Attach(b.ID, models.MediableTypePerson, owner, "gallery"))
	require.NoError(t, mediables.Attach(c.ID, models.MediableTypePerson, owner, "avatar"))

	groups, err := mediables.GroupsFor(models.MediableTypePerson, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"avatar", "gallery"}, groups)

	require.NoError(t, media.SoftDelete(c.ID, owner))
	groups, err = mediables.GroupsFor(models.MediableTypePerson, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"gallery"}, groups, "groups with only deleted media disappear")
}

func TestPurgeCascadesAttachments(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	root := mustCreate(t, media, "root", nil)
	child := mustCreate(t, media, "child", &root.ID)
	require.NoError(t, mediables.Attach(root.ID, models.MediableTypePerson, owner, "gallery"))
	require.NoError(t, mediables.Attach(child.ID, models.MediableTypePerson, owner, "gallery"))

	require.NoError(t, media.Purge(root.ID))

	var count int64
	require.NoError(t, db.Model(&models.Mediable{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "purge removes attachments of the whole subtree")
}

func TestAttachDetachScenario(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	owner := uuid.New()
	r := mustCreate(t, media, "R", nil)
	c1 := mustCreate(t, media, "C1", &r.ID)
	c2 := mustCreate(t, media, "C2", &r.ID)

	nodes, err := media.Subtree(r.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "R", nodes[0].Name)
	assert.Equal(t, "C1", nodes[1].Name)
	assert.Equal(t, "C2", nodes[2].Name)

	require.NoError(t, mediables.Attach(c1.ID, "user", owner, "avatar"))
	got, err := mediables.ListFor("user", owner, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c1.ID, got[0].ID)

	require.NoError(t, mediables.Detach(c1.ID, "user", owner, "avatar"))
	got, err = mediables.ListFor("user", owner, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, media.SoftDelete(c2.ID, owner))
	nodes, err = media.Subtree(r.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "C1", nodes[1].Name)

	require.NoError(t, media.Purge(r.ID))
	got, err = mediables.ListFor("user", owner, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	// A fresh root starts on a clean, non-overlapping range.
	fresh := mustCreate(t, media, "fresh", nil)
	assert.EqualValues(t, 1, fresh.RecordLeft)
	assert.EqualValues(t, 2, fresh.RecordRight)
	requireWellFormed(t, db)
}

// TestDocumentLifecycle walks one realistic flow end to end: build a
// folder tree, attach scans to a person, reorganize, soft-delete,
// then purge.
func TestDocumentLifecycle(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaRepository(db)
	mediables := NewMediableRepository(db)

	person := uuid.New()
	actor := uuid.New()

	folder := mustCreate(t, media, "ktp-scans", nil)
	front := mustCreate(t, media, "front.jpg", &folder.ID)
	back := mustCreate(t, media, "back.jpg", &folder.ID)
	archive := mustCreate(t, media, "archive", nil)

	require.NoError(t, mediables.Attach(front.ID, models.MediableTypePerson, person, "document_front"))
	require.NoError(t, mediables.Attach(back.ID, models.MediableTypePerson, person, "document_back"))
	requireWellFormed(t, db)

	// Reorganize: the whole scan folder goes into the archive.
	require.NoError(t, media.Move(folder.ID, &archive.ID))
	requireWellFormed(t, db)

	tree, err := media.Subtree(archive.ID)
	require.NoError(t, err)
	assert.Len(t, tree, 4)
	assert.EqualValues(t, 4, tree[0].SubtreeSize())

	// Attachments are untouched by the move.
	attached, err := mediables.ListFor(models.MediableTypePerson, person, "")
	require.NoError(t, err)
	assert.Len(t, attached, 2)

	// Retire the back scan; its attachment disappears from view.
	require.NoError(t, media.SoftDelete(back.ID, actor))
	attached, err = mediables.ListFor(models.MediableTypePerson, person, "")
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, front.ID, attached[0].ID)

	// Purge the archive: everything under it goes, tuples included.
	require.NoError(t, media.Purge(archive.ID))
	requireWellFormed(t, db)

	var mediaCount, tupleCount int64
	require.NoError(t, db.Model(&models.Media{}).Count(&mediaCount).Error)
	require.NoError(t, db.Model(&models.Mediable{}).Count(&tupleCount).Error)
	assert.EqualValues(t, 0, mediaCount)
	assert.EqualValues(t, 0, tupleCount)
}
