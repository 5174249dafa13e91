// internal/app/system/limits/limits.go
package limits

// Multipart form size limits for the upload endpoints. These keep
// oversized requests from exhausting memory before validation runs;
// JSON bodies are capped separately inside httpx.
const (
	// MaxImageForm caps forms carrying a single image (banners,
	// news/event images, the site logo).
	MaxImageForm = 10 << 20 // 10 MB

	// MaxDocumentForm caps forms carrying a brochure file.
	MaxDocumentForm = 25 << 20 // 25 MB
)
