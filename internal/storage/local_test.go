package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// fileHeader builds a multipart file header the way a real request would.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocal(dir, "/static/uploads/", 1024)

	rel, err := s.Save(context.Background(), "venues/photo", fileHeader(t, "hall.png", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "venues/photo/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.Equal(t, "/static/uploads/"+rel, s.URL(rel))

	abs := filepath.Join(dir, filepath.FromSlash(rel))
	got, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)

	require.NoError(t, s.Delete(rel))
	_, err = os.Stat(abs)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(rel))
}

func TestLocal_SaveSVG(t *testing.T) {
	s := NewLocal(t.TempDir(), "", 0)
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	rel, err := s.Save(context.Background(), "venues/floor_plan", fileHeader(t, "plan.svg", svg))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".svg"))
}

func TestLocal_SaveRejects(t *testing.T) {
	s := NewLocal(t.TempDir(), "", 8)

	_, err := s.Save(context.Background(), "venues/photo", fileHeader(t, "big.png", pngHeader))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	s = NewLocal(t.TempDir(), "", 1024)
	_, err = s.Save(context.Background(), "venues/photo", fileHeader(t, "notes.txt", []byte("hello world")))
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, err = s.Save(context.Background(), "../escape", fileHeader(t, "hall.png", pngHeader))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocal_DeleteRejectsEscapingPath(t *testing.T) {
	s := NewLocal(t.TempDir(), "", 0)
	assert.ErrorIs(t, s.Delete("../../etc/passwd"), ErrInvalidPath)
	assert.ErrorIs(t, s.Delete("/etc/passwd"), ErrInvalidPath)
	assert.NoError(t, s.Delete(""))
}

func TestLocal_URLEmpty(t *testing.T) {
	assert.Empty(t, NewLocal("", "", 0).URL(""))
}
