// internal/app/store/users/fetcher.go
package userstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// NewFetcher adapts the store to auth.UserFetcher so the middleware can
// load a fresh user document on every authenticated request. A missing
// user reads as (nil, nil); the middleware turns that into a 401 rather
// than a server error.
func NewFetcher(s *Store) auth.UserFetcher {
	return func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		u, err := s.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, nil
			}
			return nil, err
		}
		return &u, nil
	}
}
