// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Identity and access control
	ensure("users", usersSchema())
	ensure("roles", rolesSchema())
	ensure("permissions", permissionsSchema())
	ensure("role_assignments", roleAssignmentsSchema())

	// Authentication artifacts
	ensure("otp_verifications", otpVerificationsSchema())
	ensure("refresh_tokens", refreshTokensSchema())
	ensure("devices", nil)

	// Audit trail
	ensure("activity_logs", activityLogsSchema())

	// Content and delivery
	ensure("banners", bannersSchema())
	ensure("brochures", nil)
	ensure("news_events", newsEventsSchema())
	ensure("site_settings", nil)
	ensure("notifications", nil)

	// Welfare entities read by the dashboard
	ensure("aid_applications", aidApplicationsSchema())
	ensure("beneficiaries", nil)
	ensure("payments", paymentsSchema())
	ensure("aid_programs", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"phone", "full_name", "status"},
			"properties": bson.M{
				"phone":        bson.M{"bsonType": "string", "pattern": `^\+?[0-9]{8,15}$`},
				"full_name":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"full_name_ci": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":        bson.M{"bsonType": bson.A{"string", "null"}},
				"status":       bson.M{"enum": bson.A{"active", "disabled"}},
				"area":         bson.M{"bsonType": "string"},
				"district":     bson.M{"bsonType": "string"},
			},
		},
	}
}

func rolesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "level", "type", "is_active"},
			"properties": bson.M{
				"name":      bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"level":     bson.M{"bsonType": bson.A{"int", "long"}},
				"type":      bson.M{"enum": bson.A{"system", "custom"}},
				"is_active": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func permissionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "module", "is_active"},
			"properties": bson.M{
				"name":      bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"module":    bson.M{"bsonType": "string"},
				"is_active": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func roleAssignmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "role_id", "is_active"},
			"properties": bson.M{
				"user_id":         bson.M{"bsonType": "objectId"},
				"role_id":         bson.M{"bsonType": "objectId"},
				"is_active":       bson.M{"bsonType": "bool"},
				"approval_status": bson.M{"enum": bson.A{"pending", "approved", "rejected"}},
				"valid_until":     bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func otpVerificationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"phone", "purpose", "code_hash", "expires_at"},
			"properties": bson.M{
				"phone":      bson.M{"bsonType": "string"},
				"purpose":    bson.M{"enum": bson.A{"login", "change_phone"}},
				"code_hash":  bson.M{"bsonType": "string"},
				"expires_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func refreshTokensSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "token_hash", "expires_at"},
			"properties": bson.M{
				"user_id":    bson.M{"bsonType": "objectId"},
				"token_hash": bson.M{"bsonType": "string"},
				"expires_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func activityLogsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"timestamp", "action", "resource", "status", "severity"},
			"properties": bson.M{
				"timestamp": bson.M{"bsonType": "date"},
				"action":    bson.M{"bsonType": "string", "minLength": 1},
				"resource":  bson.M{"bsonType": "string", "minLength": 1},
				"status":    bson.M{"enum": bson.A{"success", "failed"}},
				"severity":  bson.M{"enum": bson.A{"low", "medium", "high"}},
			},
		},
	}
}

func bannersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "image_key", "is_active"},
			"properties": bson.M{
				"title":         bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"image_key":     bson.M{"bsonType": "string"},
				"display_order": bson.M{"bsonType": bson.A{"int", "long"}},
				"is_active":     bson.M{"bsonType": "bool"},
			},
		},
	}
}

func newsEventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"kind", "title", "status"},
			"properties": bson.M{
				"kind":   bson.M{"enum": bson.A{"news", "event"}},
				"title":  bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"status": bson.M{"enum": bson.A{"draft", "published"}},
			},
		},
	}
}

func aidApplicationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"beneficiary_id", "status"},
			"properties": bson.M{
				"beneficiary_id": bson.M{"bsonType": "objectId"},
				"status":         bson.M{"enum": bson.A{"pending", "approved", "rejected", "disbursed"}},
				"amount":         bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}},
			},
		},
	}
}

func paymentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"beneficiary_id", "amount", "status"},
			"properties": bson.M{
				"beneficiary_id": bson.M{"bsonType": "objectId"},
				"amount":         bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}},
				"status":         bson.M{"enum": bson.A{"pending", "completed", "failed"}},
			},
		},
	}
}
