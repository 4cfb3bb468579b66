package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"artsy/internal/apperr"
	"artsy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRecordsFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	up, err := f.files.Upload(ctx, alice, models.ImageUpload{Data: pngImage(t, 40, 30), OriginalName: "my cat.png"})
	require.NoError(t, err)
	assert.Equal(t, "/files/"+up.FileName, up.URL)
	assert.Regexp(t, `^\d+-my_cat\.jpg$`, up.FileName)

	rc, err := f.files.Open(ctx, up.FileName)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.NotEmpty(t, data)

	_, err = f.files.Open(ctx, "missing.jpg")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.files.Upload(ctx, troll, models.ImageUpload{Data: pngImage(t, 4, 4), OriginalName: "a.png"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.files.Upload(ctx, alice, models.ImageUpload{Data: []byte("%PDF-1.7"), OriginalName: "doc.pdf"})
	assert.ErrorIs(t, err, apperr.ErrUnsupportedMediaType)

	_, err = f.files.Upload(ctx, alice, models.ImageUpload{OriginalName: "empty.png"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Equal(t, 0, f.objects.len())
}

func TestDeleteFileRemovesObjectThenRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	up, err := f.files.Upload(ctx, alice, models.ImageUpload{Data: pngImage(t, 4, 4), OriginalName: "a.png"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.files.DeleteFile(ctx, bob, up.ID), apperr.ErrForbidden)

	f.objects.deleteErr = errors.New("bucket unreachable")
	err = f.files.DeleteFile(ctx, alice, up.ID)
	require.ErrorIs(t, err, apperr.ErrStorageDeleteFailed)

	list, err := f.files.ListUserFiles(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1, "record kept while the object still exists")

	f.objects.deleteErr = nil
	require.NoError(t, f.files.DeleteFile(ctx, alice, up.ID))
	assert.Equal(t, 0, f.objects.len())

	list, err = f.files.ListUserFiles(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.files.DeleteFile(ctx, alice, up.ID), apperr.ErrNotFound)
}

func TestDeleteFileWithMissingObjectStillRemovesRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	up, err := f.files.Upload(ctx, alice, models.ImageUpload{Data: pngImage(t, 4, 4), OriginalName: "a.png"})
	require.NoError(t, err)

	delete(f.objects.objects, up.FileName)
	require.NoError(t, f.files.DeleteFile(ctx, alice, up.ID))
}
