package services_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/services"
	"github.com/yigit/studyhub/internal/pkg/apperrors"
	"github.com/yigit/studyhub/internal/pkg/filestorage"
	"github.com/yigit/studyhub/internal/testfixtures"
)

func newFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func TestProfileUpdatePhotoReplacesPreviousFile(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	root := t.TempDir()
	storage, err := filestorage.NewLocalStorage(root, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := services.NewProfileService(h.StudentRepository, storage, zerolog.Nop())
	ctx := context.Background()

	ada := h.CreateStudent(t, "Ada", "ada@example.com")

	first, err := svc.UpdatePhoto(ctx, ada.ID, newFileHeader(t, "photo", "me.PNG", []byte("png-1")))
	require.NoError(t, err)
	require.NotNil(t, first.PhotoURL)
	firstURL := *first.PhotoURL
	assert.Contains(t, firstURL, "/profile-photos/")

	firstPath, err := storage.GetFullPath(firstURL)
	require.NoError(t, err)
	assert.FileExists(t, firstPath)
	assert.Equal(t, ".png", filepath.Ext(firstPath))

	second, err := svc.UpdatePhoto(ctx, ada.ID, newFileHeader(t, "photo", "new.jpg", []byte("jpg-2")))
	require.NoError(t, err)
	assert.NotEqual(t, firstURL, *second.PhotoURL)

	_, statErr := os.Stat(firstPath)
	assert.True(t, os.IsNotExist(statErr), "previous photo is removed")

	stored, err := svc.Get(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, *second.PhotoURL, *stored.PhotoURL)
}

func TestProfileUpdatePhotoRejectsBadUploads(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t, nil)
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	svc := services.NewProfileService(h.StudentRepository, storage, zerolog.Nop())
	ada := h.CreateStudent(t, "Ada", "ada@example.com")

	_, err = svc.UpdatePhoto(context.Background(), ada.ID, newFileHeader(t, "photo", "script.sh", []byte("#!/bin/sh")))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UpdatePhoto(context.Background(), ada.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UpdatePhoto(context.Background(), 999, newFileHeader(t, "photo", "me.png", []byte("x")))
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
