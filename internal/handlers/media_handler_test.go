package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/resourcehub/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMediaHandler(t *testing.T) *MediaHandler {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, storage.BucketFiles, "user-1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheet.pdf"), []byte("0123456789"), 0o644))

	return NewMediaHandler(storage.NewLocalStorage(base, "http://localhost/media"), nopLogger())
}

func TestMediaHandler_Serve(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		rangeHeader    string
		expectedStatus int
		expectedBody   string
	}{
		{name: "whole file", path: "/media/resource-files/user-1/sheet.pdf", expectedStatus: http.StatusOK, expectedBody: "0123456789"},
		{name: "byte range", path: "/media/resource-files/user-1/sheet.pdf", rangeHeader: "bytes=2-4", expectedStatus: http.StatusPartialContent, expectedBody: "234"},
		{name: "missing file", path: "/media/resource-files/user-1/other.pdf", expectedStatus: http.StatusNotFound},
		{name: "unknown bucket", path: "/media/secrets/user-1/sheet.pdf", expectedStatus: http.StatusNotFound},
		{name: "directory", path: "/media/resource-files/user-1", expectedStatus: http.StatusNotFound},
		{name: "traversal stays in bucket", path: "/media/resource-files/..%2F..%2Fetc%2Fpasswd", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupMediaHandler(t)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.rangeHeader != "" {
				req.Header.Set("Range", tt.rangeHeader)
			}
			w := httptest.NewRecorder()
			newRouter(h).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			} else {
				assert.True(t, strings.Contains(w.Body.String(), "file not found"))
			}
		})
	}
}
