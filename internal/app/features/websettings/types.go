// internal/app/features/websettings/types.go
package websettings

// updateRequest is the JSON form of a settings update. The multipart
// form accepts the same field names plus a logo file; social links
// arrive flattened as social_<platform> fields there.
type updateRequest struct {
	SiteName     *string           `json:"site_name"`
	Tagline      *string           `json:"tagline"`
	ContactEmail *string           `json:"contact_email"`
	ContactPhone *string           `json:"contact_phone"`
	Address      *string           `json:"address"`
	SocialLinks  map[string]string `json:"social_links"`
	AboutHTML    *string           `json:"about_html"`
}
