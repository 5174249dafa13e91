// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSiteName is used when no settings document exists yet.
const DefaultSiteName = "ReliefHub"

// WebsiteSettings holds the public-site configuration edited by admins.
// At most one document exists; writes go through a fixed-key upsert so
// concurrent first writes cannot create duplicates.
type WebsiteSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	SiteName string `bson:"site_name" json:"site_name"`
	Tagline  string `bson:"tagline,omitempty" json:"tagline,omitempty"`

	ContactEmail string `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactPhone string `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address      string `bson:"address,omitempty" json:"address,omitempty"`

	// SocialLinks maps platform name to profile URL.
	SocialLinks map[string]string `bson:"social_links,omitempty" json:"social_links,omitempty"`

	// AboutHTML is sanitized before storage.
	AboutHTML string `bson:"about_html,omitempty" json:"about_html,omitempty"`

	// Logo (file upload)
	LogoKey string `bson:"logo_key,omitempty" json:"logo_key,omitempty"`
	LogoURL string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`

	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	UpdatedAt *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasLogo returns true if a logo has been uploaded.
func (s *WebsiteSettings) HasLogo() bool {
	return s.LogoKey != ""
}
