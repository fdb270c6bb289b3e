package storage

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Buckets
const (
	BucketFiles      = "resource-files"
	BucketThumbnails = "resource-thumbnails"
)

// IsValidBucket reports whether bucket is one uploads may target
func IsValidBucket(bucket string) bool {
	return bucket == BucketFiles || bucket == BucketThumbnails
}

var reExtension = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

var knownExtensions = map[string]string{
	"image/jpeg":         "jpg",
	"image/png":          "png",
	"image/webp":         "webp",
	"image/gif":          "gif",
	"image/svg+xml":      "svg",
	"application/pdf":    "pdf",
	"application/zip":    "zip",
	"audio/mpeg":         "mp3",
	"video/mp4":          "mp4",
	"text/plain":         "txt",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "docx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
}

// Extension returns the extension of fileName, or one inferred from contentType, or "bin"
func Extension(fileName, contentType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if reExtension.MatchString(ext) {
		return ext
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "bin"
	}
	if known, ok := knownExtensions[mediaType]; ok {
		return known
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		if ext := strings.TrimPrefix(exts[0], "."); reExtension.MatchString(ext) {
			return ext
		}
	}
	return "bin"
}

// GeneratePath builds an object path as {ownerID}/{unixMillis}-{token}.{ext}.
// The token is the first 12 hex digits of a random UUID.
func GeneratePath(ownerID, fileName, contentType string, now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s.%s", ownerID, now.UnixMilli(), token, Extension(fileName, contentType))
}

// sizeWriter tracks the total number of bytes written
type sizeWriter struct {
	size int64
}

// Write implements io.Writer interface
func (sw *sizeWriter) Write(p []byte) (int, error) {
	n := len(p)
	sw.size += int64(n)
	return n, nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a new sizeWriter instance
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
