package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		expected    string
	}{
		{name: "from file name", fileName: "Worksheet.PDF", contentType: "application/octet-stream", expected: "pdf"},
		{name: "from content type", fileName: "blob", contentType: "image/png", expected: "png"},
		{name: "content type with params", fileName: "", contentType: "image/jpeg; charset=binary", expected: "jpg"},
		{name: "weird extension ignored", fileName: "file.t@r", contentType: "application/pdf", expected: "pdf"},
		{name: "fallback", fileName: "noext", contentType: "", expected: "bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extension(tt.fileName, tt.contentType))
		})
	}
}

func TestGeneratePath(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	p := GeneratePath("user-1", "cover.png", "image/png", now)

	assert.Regexp(t, regexp.MustCompile(`^user-1/1700000000123-[0-9a-f]{12}\.png$`), p)
	assert.NotEqual(t, p, GeneratePath("user-1", "cover.png", "image/png", now))
}

func TestIsValidBucket(t *testing.T) {
	assert.True(t, IsValidBucket(BucketFiles))
	assert.True(t, IsValidBucket(BucketThumbnails))
	assert.False(t, IsValidBucket("avatars"))
	assert.False(t, IsValidBucket(""))
}

func TestLocalStorage_PutListDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "http://localhost:8080/media/")
	ctx := context.Background()

	n, err := store.Put(ctx, BucketFiles, "user-1/a.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	data, err := os.ReadFile(filepath.Join(dir, BucketFiles, "user-1", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Equal(t, "http://localhost:8080/media/resource-files/user-1/a.txt", store.PublicURL(BucketFiles, "user-1/a.txt"))

	objects, err := store.List(ctx, BucketFiles)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "user-1/a.txt", objects[0].Path)
	assert.Equal(t, int64(5), objects[0].Size)

	f, err := store.Open(BucketFiles, "user-1/a.txt")
	require.NoError(t, err)
	f.Close()

	require.NoError(t, store.Delete(ctx, BucketFiles, "user-1/a.txt"))
	require.NoError(t, store.Delete(ctx, BucketFiles, "user-1/a.txt"))

	objects, err = store.List(ctx, BucketFiles)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalStorage_PathTraversal(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "http://localhost/media")

	_, err := store.Put(context.Background(), BucketFiles, "../../escape.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, BucketFiles, "escape.txt"))
	assert.NoError(t, err)
}

func TestLocalStorage_ListMissingBucket(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "http://localhost/media")

	objects, err := store.List(context.Background(), BucketThumbnails)

	assert.NoError(t, err)
	assert.Empty(t, objects)
}

func TestSupabaseStorage_Put(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedError bool
		errorContains string
	}{
		{name: "success", status: http.StatusOK},
		{name: "rejected", status: http.StatusBadRequest, expectedError: true, errorContains: "status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotAuth, gotType, gotBody string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				gotType = r.Header.Get("Content-Type")
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message":"x"}`))
			}))
			defer srv.Close()

			store := NewSupabaseStorage(srv.URL+"/", "secret", srv.Client())
			n, err := store.Put(context.Background(), BucketThumbnails, "u/1-abc.png", strings.NewReader("png!"), "image/png")

			assert.Equal(t, "/storage/v1/object/resource-thumbnails/u/1-abc.png", gotPath)
			assert.Equal(t, "Bearer secret", gotAuth)
			assert.Equal(t, "image/png", gotType)
			assert.Equal(t, "png!", gotBody)
			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(4), n)
			}
		})
	}
}

func TestSupabaseStorage_DeleteAndPublicURL(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewSupabaseStorage(srv.URL, "secret", nil)

	assert.NoError(t, store.Delete(context.Background(), BucketFiles, "u/gone.pdf"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/resource-files/u/a.pdf", store.PublicURL(BucketFiles, "u/a.pdf"))
}
