// internal/app/system/storage/upload.go
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// UploadInfo contains metadata about an uploaded file.
type UploadInfo struct {
	Key         string
	URL         string
	FileName    string
	Size        int64
	ContentType string
}

// Upload stores a file under a unique key and returns its metadata.
// Keys are generated as: <kind>/YYYY/MM/<uuid8>-<sanitized filename>.
func Upload(ctx context.Context, store Store, kind, filename string, r io.Reader, size int64, contentType string) (UploadInfo, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", kind, now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], SanitizeFilename(filename))
	key := dateDir + "/" + uniqueName

	opts := &PutOptions{ContentType: contentType}
	if err := store.Put(ctx, key, r, opts); err != nil {
		return UploadInfo{}, fmt.Errorf("upload file: %w", err)
	}

	return UploadInfo{
		Key:         key,
		URL:         store.URL(key),
		FileName:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// SanitizeFilename strips path components and replaces characters that
// could be problematic in object keys.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but keep the extension if there is one.
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
