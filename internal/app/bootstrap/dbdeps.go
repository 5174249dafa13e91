// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and cache clients for the app.
// Extend this struct as the app evolves.
type DBDeps struct {
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
}
