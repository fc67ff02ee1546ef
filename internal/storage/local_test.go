package storage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(uploadHeader(t, "avatar.PNG", "fake-png-bytes"), "profile")
	require.NoError(t, err)
	require.Contains(t, name, "profile-")
	require.Contains(t, name, ".png")

	reader, err := store.Open(name)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "fake-png-bytes", string(content))
}

func TestOpenRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../secret", "a/b.png", ".hidden", ""} {
		_, err := store.Open(name)
		require.ErrorIs(t, err, ErrInvalidFileName, "name %q", name)
	}
}

func TestOpenMissingFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("nope.png")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(uploadHeader(t, "cover.jpg", "bytes"), "cover")
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))
	require.NoError(t, store.Remove(name))
}
