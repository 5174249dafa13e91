// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	activitylogsfeature "github.com/dalemusser/reliefhub/internal/app/features/activitylogs"
	authfeature "github.com/dalemusser/reliefhub/internal/app/features/auth"
	bannersfeature "github.com/dalemusser/reliefhub/internal/app/features/banners"
	brochuresfeature "github.com/dalemusser/reliefhub/internal/app/features/brochures"
	dashboardfeature "github.com/dalemusser/reliefhub/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/reliefhub/internal/app/features/health"
	newseventsfeature "github.com/dalemusser/reliefhub/internal/app/features/newsevents"
	notificationsfeature "github.com/dalemusser/reliefhub/internal/app/features/notifications"
	rbacfeature "github.com/dalemusser/reliefhub/internal/app/features/rbac"
	websettingsfeature "github.com/dalemusser/reliefhub/internal/app/features/websettings"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	bannerstore "github.com/dalemusser/reliefhub/internal/app/store/banners"
	brochurestore "github.com/dalemusser/reliefhub/internal/app/store/brochures"
	dashstore "github.com/dalemusser/reliefhub/internal/app/store/dashboard"
	devicestore "github.com/dalemusser/reliefhub/internal/app/store/devices"
	newseventstore "github.com/dalemusser/reliefhub/internal/app/store/newsevents"
	notifstore "github.com/dalemusser/reliefhub/internal/app/store/notifications"
	"github.com/dalemusser/reliefhub/internal/app/store/otp"
	"github.com/dalemusser/reliefhub/internal/app/store/permissions"
	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	settingsstore "github.com/dalemusser/reliefhub/internal/app/store/sitesettings"
	"github.com/dalemusser/reliefhub/internal/app/store/tokens"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"

	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpmetrics"
	"github.com/dalemusser/reliefhub/internal/app/system/ratelimit"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
	"github.com/dalemusser/reliefhub/internal/app/system/sms"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
)

// BuildHandler constructs the root HTTP handler for the API.
//
// Called after configuration, DB connections, schema setup, and Startup
// seeding have completed. It builds the stores, the auth middleware, the
// permission resolver, and the external collaborators (SMS, file
// storage), then mounts every feature router under /api/v1.
func BuildHandler(ctx context.Context, cfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokenMgr, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, logger)
	if err != nil {
		return nil, err
	}

	// Stores.
	users := userstore.New(deps.MongoDB)
	otpStore := otp.New(deps.MongoDB, cfg.OTPExpiry)
	tokenStore := tokens.New(deps.MongoDB, cfg.RefreshTokenTTL)
	devices := devicestore.New(deps.MongoDB)
	roleStore := roles.New(deps.MongoDB)
	permStore := permissions.New(deps.MongoDB)
	assignStore := roleassign.New(deps.MongoDB)
	logStore := activitylog.New(deps.MongoDB)
	bannerSt := bannerstore.New(deps.MongoDB)
	brochureSt := brochurestore.New(deps.MongoDB)
	newsSt := newseventstore.New(deps.MongoDB)
	settingsSt := settingsstore.New(deps.MongoDB)
	notifSt := notifstore.New(deps.MongoDB)
	dashSt := dashstore.New(deps.MongoDB)

	// The middleware re-fetches the user on every request so disabled
	// accounts lose access immediately.
	am := auth.NewMiddleware(tokenMgr, userstore.NewFetcher(users), logger)

	// Permission resolution with a Redis-backed cache.
	permCache := rbac.NewCache(deps.Redis, cfg.PermCacheTTL, logger)
	resolver := rbac.NewService(assignStore, roleStore, permStore, permCache, logger)

	recorder := activity.New(logStore, logger, activity.Config{Mode: cfg.ActivityLogMode})

	smsSender, err := sms.New(sms.Config{
		Provider:   cfg.SMSProvider,
		GatewayURL: cfg.SMSGatewayURL,
		APIKey:     cfg.SMSAPIKey,
		SenderID:   cfg.SMSSenderID,
	}, logger)
	if err != nil {
		return nil, err
	}

	files, err := storage.New(ctx, storage.Config{
		Type:      cfg.StorageType,
		LocalPath: cfg.StorageLocalPath,
		LocalURL:  cfg.StorageLocalURL,
		S3Region:  cfg.StorageS3Region,
		S3Bucket:  cfg.StorageS3Bucket,
		S3Prefix:  cfg.StorageS3Prefix,
		S3BaseURL: cfg.StorageS3BaseURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	otpLimiter := ratelimit.NewOTPLimiterWithConfig(
		cfg.OTPSendsPerIP, cfg.OTPIPWindow,
		cfg.OTPSendsPerPhone, cfg.OTPPhoneWindow,
	)

	// Feature handlers.
	authHandler := authfeature.NewHandler(authfeature.Deps{
		Users:    users,
		OTP:      otpStore,
		Tokens:   tokenStore,
		Devices:  devices,
		TokenMgr: tokenMgr,
		SMS:      smsSender,
		Perms:    resolver,
		Recorder: recorder,
		Limiter:  otpLimiter,
		Log:      logger,
	})
	logsHandler := activitylogsfeature.NewHandler(logStore, recorder, cfg.CleanHard, logger)
	rbacHandler := rbacfeature.NewHandler(rbacfeature.Deps{
		Roles:       roleStore,
		Perms:       permStore,
		Assignments: assignStore,
		Users:       users,
		Notifs:      notifSt,
		Resolver:    resolver,
		Recorder:    recorder,
		Log:         logger,
	})
	dashHandler := dashboardfeature.NewHandler(dashSt, logger)
	bannersHandler := bannersfeature.NewHandler(bannerSt, files, recorder, logger)
	brochuresHandler := brochuresfeature.NewHandler(brochureSt, files, recorder, logger)
	newsHandler := newseventsfeature.NewHandler(newsSt, files, recorder, logger)
	settingsHandler := websettingsfeature.NewHandler(settingsSt, files, recorder, logger)
	notifsHandler := notificationsfeature.NewHandler(notifSt, logger)
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)

	httpmetrics.Init()

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httpmetrics.Instrument)

	// Liveness and metrics stay outside /api/v1 for load balancers and
	// scrapers.
	r.Mount("/healthz", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", httpmetrics.Handler())

	// Local storage serves uploaded files directly; S3 serves its own.
	if cfg.StorageType == "local" || cfg.StorageType == "" {
		prefix := cfg.StorageLocalURL
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/",
			http.FileServer(http.Dir(cfg.StorageLocalPath))))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", authfeature.Routes(authHandler, am))
		api.Mount("/activity-logs", activitylogsfeature.Routes(logsHandler, am, resolver))
		api.Mount("/rbac", rbacfeature.Routes(rbacHandler, am))
		api.Mount("/dashboard", dashboardfeature.Routes(dashHandler, am, resolver))
		api.Mount("/banners", bannersfeature.Routes(bannersHandler, am, resolver))
		api.Mount("/brochures", brochuresfeature.Routes(brochuresHandler, am, resolver))
		api.Mount("/news-events", newseventsfeature.Routes(newsHandler, am, resolver))
		api.Mount("/website/settings", websettingsfeature.Routes(settingsHandler, am, resolver))
		api.Mount("/notifications", notificationsfeature.Routes(notifsHandler, am))
	})

	return r, nil
}
