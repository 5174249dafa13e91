// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureActivityLogs(ctx, db); err != nil {
		problems = append(problems, "activity_logs: "+err.Error())
	}
	if err := ensureRoles(ctx, db); err != nil {
		problems = append(problems, "roles: "+err.Error())
	}
	if err := ensurePermissions(ctx, db); err != nil {
		problems = append(problems, "permissions: "+err.Error())
	}
	if err := ensureRoleAssignments(ctx, db); err != nil {
		problems = append(problems, "role_assignments: "+err.Error())
	}
	if err := ensureOTPVerifications(ctx, db); err != nil {
		problems = append(problems, "otp_verifications: "+err.Error())
	}
	if err := ensureRefreshTokens(ctx, db); err != nil {
		problems = append(problems, "refresh_tokens: "+err.Error())
	}
	if err := ensureDevices(ctx, db); err != nil {
		problems = append(problems, "devices: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}
	if err := ensureBanners(ctx, db); err != nil {
		problems = append(problems, "banners: "+err.Error())
	}
	if err := ensureBrochures(ctx, db); err != nil {
		problems = append(problems, "brochures: "+err.Error())
	}
	if err := ensureNewsEvents(ctx, db); err != nil {
		problems = append(problems, "news_events: "+err.Error())
	}
	if err := ensureAidApplications(ctx, db); err != nil {
		problems = append(problems, "aid_applications: "+err.Error())
	}
	if err := ensureBeneficiaries(ctx, db); err != nil {
		problems = append(problems, "beneficiaries: "+err.Error())
	}
	if err := ensurePayments(ctx, db); err != nil {
		problems = append(problems, "payments: "+err.Error())
	}
	if err := ensureAidPrograms(ctx, db); err != nil {
		problems = append(problems, "aid_programs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

// duplicateHint returns extra guidance for known unique-index failures.
func duplicateHint(collName, desiredSig string) string {
	if collName == "users" && strings.Contains(desiredSig, "phone:1") {
		return ": duplicates exist on users.phone. Example finder:\n" +
			`db.users.aggregate([{ $group: { _id: "$phone", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`
	}
	return ""
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// --- Name alignment: if the name differs, drop & recreate with the desired name.
				if desiredName != "" && ex.Name != desiredName {
					zap.L().Info("renaming index to align with desired name",
						zap.String("collection", coll.Name()),
						zap.String("from", ex.Name),
						zap.String("to", desiredName),
						zap.String("keys", desiredSig))

					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						zap.L().Warn("drop existing index (rename) failed",
							zap.String("collection", coll.Name()),
							zap.String("name", ex.Name),
							zap.Error(err))
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						zap.L().Warn("create index (rename) failed",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.Error(err))
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("name", desiredName),
						zap.String("keys", desiredSig),
						zap.String("took", time.Since(start).String()))
					continue
				}

				// Names aligned (or we don't care) → reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), desiredName, duplicateHint(coll.Name(), desiredSig)))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				cur2, e2 := coll.Indexes().List(ctx)
				if e2 == nil {
					var match *existingIndex
					for cur2.Next(ctx) {
						var idx existingIndex
						if err := cur2.Decode(&idx); err != nil {
							zap.L().Warn("failed to decode existing index (post-conflict)",
								zap.String("collection", coll.Name()),
								zap.Error(err))
							continue
						}
						if keySig(idx.Key) == desiredSig {
							match = &idx
							break
						}
					}
					cur2.Close(ctx)
					if match != nil {
						if sameBoolPtr(desiredUnique, match.Unique) {
							zap.L().Info("reusing existing index (post-conflict)",
								zap.String("collection", coll.Name()),
								zap.String("name", match.Name),
								zap.String("keys", desiredSig),
								zap.Bool("unique", match.Unique != nil && *match.Unique),
								zap.String("took", time.Since(start).String()))
							continue
						}
						if _, dropErr := coll.Indexes().DropOne(ctx, match.Name); dropErr != nil {
							zap.L().Warn("failed to drop conflicting index",
								zap.String("collection", coll.Name()),
								zap.String("name", match.Name),
								zap.Error(dropErr))
						}
						if _, e3 := coll.Indexes().CreateOne(ctx, m); e3 != nil {
							if isDuplicateKeyErr(e3) && desiredUnique != nil && *desiredUnique {
								errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll.Name(), desiredName, duplicateHint(coll.Name(), desiredSig)))
							} else {
								errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, e3))
							}
							continue
						}
						zap.L().Info("index dropped and recreated (post-conflict)",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.String("keys", desiredSig),
							zap.Bool("unique", desiredUnique != nil && *desiredUnique),
							zap.String("took", time.Since(start).String()))
						continue
					}
				}

				zap.L().Warn("index ensure failed",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Bool("unique", desiredUnique != nil && *desiredUnique),
					zap.String("took", time.Since(start).String()),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Phone is the login identity and must be unique.
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_phone"),
		},

		// Admin user lists: filter by status, sort by case-folded name.
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_status_fullnameci_id"),
		},

		// Scoped lookups for area/district admins.
		{
			Keys: bson.D{
				{Key: "area", Value: 1},
				{Key: "district", Value: 1},
			},
			Options: options.Index().SetName("idx_users_area_district"),
		},
	})
}

func ensureActivityLogs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("activity_logs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Default list order and date-range scans.
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activity_timestamp_desc"),
		},
		{
			Keys: bson.D{
				{Key: "actor_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_actor_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "action", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_action_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "resource", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_resource_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "severity", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_severity_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_status_timestamp"),
		},
	})
}

func ensureRoles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("roles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_roles_name"),
		},
		// Hierarchy listing order.
		{
			Keys:    bson.D{{Key: "level", Value: -1}},
			Options: options.Index().SetName("idx_roles_level_desc"),
		},
	})
}

func ensurePermissions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("permissions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_permissions_name"),
		},
		{
			Keys: bson.D{
				{Key: "module", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetName("idx_permissions_module_name"),
		},
	})
}

func ensureRoleAssignments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("role_assignments")

	// The partial unique index backs the "no duplicate active assignment"
	// rule at the store level, closing the check-then-insert race. It only
	// covers active rows so history (deactivated rows) can repeat pairs.
	partial := options.Index().
		SetUnique(true).
		SetName("uniq_assignments_user_role_active").
		SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}})

	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "role_id", Value: 1},
			},
			Options: partial,
		},
		// Resolution: all active assignments for a user.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().SetName("idx_assignments_user_active"),
		},
		// Role deletion guard and role stats.
		{
			Keys: bson.D{
				{Key: "role_id", Value: 1},
				{Key: "is_active", Value: 1},
			},
			Options: options.Index().SetName("idx_assignments_role_active"),
		},
		// Expiry sweep.
		{
			Keys:    bson.D{{Key: "valid_until", Value: 1}},
			Options: options.Index().SetName("idx_assignments_valid_until"),
		},
	})
}

func ensureOTPVerifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("otp_verifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One pending code per phone and purpose.
		{
			Keys: bson.D{
				{Key: "phone", Value: 1},
				{Key: "purpose", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_otp_phone_purpose"),
		},
		// TTL cleanup of expired codes.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_otp_expires_at"),
		},
	})
}

func ensureRefreshTokens(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("refresh_tokens")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_refresh_token_hash"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_refresh_user"),
		},
		// TTL cleanup of expired tokens.
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_refresh_expires_at"),
		},
	})
}

func ensureDevices(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("devices")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Re-registering the same device updates the existing row.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "device_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_devices_user_device"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("notifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Recipient inbox, newest first.
		{
			Keys: bson.D{
				{Key: "recipient_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_notifications_recipient_created"),
		},
		// Unread count.
		{
			Keys: bson.D{
				{Key: "recipient_id", Value: 1},
				{Key: "is_read", Value: 1},
			},
			Options: options.Index().SetName("idx_notifications_recipient_read"),
		},
	})
}

func ensureBanners(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("banners")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "display_order", Value: 1},
			},
			Options: options.Index().SetName("idx_banners_active_order"),
		},
	})
}

func ensureBrochures(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("brochures")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_brochures_active_created"),
		},
	})
}

func ensureNewsEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("news_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "published_at", Value: -1},
			},
			Options: options.Index().SetName("idx_news_status_published"),
		},
		{
			Keys: bson.D{
				{Key: "kind", Value: 1},
				{Key: "status", Value: 1},
				{Key: "published_at", Value: -1},
			},
			Options: options.Index().SetName("idx_news_kind_status_published"),
		},
	})
}

func ensureAidApplications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("aid_applications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Dashboard recents and status breakdowns, scope-filtered.
		{
			Keys: bson.D{
				{Key: "area", Value: 1},
				{Key: "district", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_applications_scope_status"),
		},
		{
			Keys:    bson.D{{Key: "submitted_at", Value: -1}},
			Options: options.Index().SetName("idx_applications_submitted_desc"),
		},
	})
}

func ensureBeneficiaries(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("beneficiaries")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "area", Value: 1},
				{Key: "district", Value: 1},
			},
			Options: options.Index().SetName("idx_beneficiaries_scope"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_beneficiaries_status"),
		},
	})
}

func ensurePayments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("payments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "area", Value: 1},
				{Key: "district", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_payments_scope_status"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_payments_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "paid_at", Value: -1}},
			Options: options.Index().SetName("idx_payments_paid_desc"),
		},
	})
}

func ensureAidPrograms(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("aid_programs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "area", Value: 1},
			},
			Options: options.Index().SetName("idx_programs_status_area"),
		},
	})
}
