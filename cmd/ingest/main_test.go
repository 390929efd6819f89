package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrelya/cv-to-dc/internal/logger"
	"github.com/astrelya/cv-to-dc/internal/models"
	"github.com/astrelya/cv-to-dc/internal/services"
)

type fakeUploader struct {
	mu     sync.Mutex
	inputs []services.UploadInput
	fail   string
}

func (f *fakeUploader) Upload(_ context.Context, input services.UploadInput) (*models.CV, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if input.FileName == f.fail {
		return nil, errors.New("extraction failed")
	}
	return &models.CV{ID: uuid.New(), SchemaType: "custom"}, nil
}

func TestListCVFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PNG", "notes.txt", "c.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0755))

	files, err := listCVFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.webp"),
	}, files)
}

func TestListCVFilesMissingDir(t *testing.T) {
	_, err := listCVFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIngest(t *testing.T) {
	logger.SetOutput(io.Discard)
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.png", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	files, err := listCVFiles(dir)
	require.NoError(t, err)
	files = append(files, filepath.Join(dir, "gone.pdf"))

	up := &fakeUploader{fail: "b.png"}
	succeeded, failed := ingest(context.Background(), up, "owner-1", files, 2)

	assert.Equal(t, int64(2), succeeded)
	assert.Equal(t, int64(2), failed)
	require.Len(t, up.inputs, 3)
	for _, in := range up.inputs {
		assert.Equal(t, "owner-1", in.OwnerID)
		assert.Equal(t, mimeTypes[filepath.Ext(in.FileName)], in.MimeType)
	}
}

func TestIngestCancelled(t *testing.T) {
	logger.SetOutput(io.Discard)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	up := &fakeUploader{}
	succeeded, failed := ingest(ctx, up, "owner-1", []string{filepath.Join(dir, "a.pdf")}, 0)

	assert.Zero(t, succeeded)
	assert.Zero(t, failed)
	assert.Empty(t, up.inputs)
}
