// internal/app/store/sitesettings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// settingsID is the fixed id of the singleton settings document, so
// concurrent first writes upsert the same document instead of racing to
// create two.
var settingsID = primitive.ObjectID{'s', 'i', 't', 'e', '_', 's', 'e', 't', 't', 'i', 'n', 'g'}

// Store handles the website settings singleton.
type Store struct {
	c *mongo.Collection
}

// New creates a settings store bound to the site_settings collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// Get returns the current settings. When nothing has been saved yet it
// returns defaults rather than an error, so readers always have a
// renderable document.
func (s *Store) Get(ctx context.Context) (models.WebsiteSettings, error) {
	var out models.WebsiteSettings
	err := s.c.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return models.WebsiteSettings{
			ID:       settingsID,
			SiteName: models.DefaultSiteName,
		}, nil
	}
	if err != nil {
		return models.WebsiteSettings{}, err
	}
	return out, nil
}

// Update contains the editable settings fields. Nil pointers leave the
// stored value untouched; a nil SocialLinks map is untouched while an
// empty one clears the stored links.
type Update struct {
	SiteName     *string
	Tagline      *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	SocialLinks  map[string]string
	AboutHTML    *string
	LogoKey      *string
	LogoURL      *string
	UpdatedBy    *primitive.ObjectID
}

// Apply upserts the singleton with a partial update.
func (s *Store) Apply(ctx context.Context, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.SiteName != nil {
		set["site_name"] = *upd.SiteName
	}
	if upd.Tagline != nil {
		set["tagline"] = *upd.Tagline
	}
	if upd.ContactEmail != nil {
		set["contact_email"] = *upd.ContactEmail
	}
	if upd.ContactPhone != nil {
		set["contact_phone"] = *upd.ContactPhone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.SocialLinks != nil {
		set["social_links"] = upd.SocialLinks
	}
	if upd.AboutHTML != nil {
		set["about_html"] = *upd.AboutHTML
	}
	if upd.LogoKey != nil {
		set["logo_key"] = *upd.LogoKey
	}
	if upd.LogoURL != nil {
		set["logo_url"] = *upd.LogoURL
	}
	if upd.UpdatedBy != nil {
		set["updated_by"] = *upd.UpdatedBy
	}

	update := bson.M{"$set": set}
	if upd.SiteName == nil {
		// A brand-new document still needs a site name.
		update["$setOnInsert"] = bson.M{"site_name": models.DefaultSiteName}
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": settingsID}, update,
		options.Update().SetUpsert(true))
	return err
}
