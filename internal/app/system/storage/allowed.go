// internal/app/system/storage/allowed.go
package storage

// Image content types accepted for banner, news, and logo uploads.
// SVG is excluded: it can embed script.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsImageType reports whether ct is an accepted image content type.
func IsImageType(ct string) bool {
	return imageTypes[ct]
}

// Document content types accepted for brochure uploads.
var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// IsDocumentType reports whether ct is an accepted document content type.
func IsDocumentType(ct string) bool {
	return documentTypes[ct]
}
