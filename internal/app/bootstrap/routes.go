// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	coursesfeature "github.com/dalemusser/learnhub/internal/app/features/courses"
	educatorfeature "github.com/dalemusser/learnhub/internal/app/features/educator"
	healthfeature "github.com/dalemusser/learnhub/internal/app/features/health"
	idwebhookfeature "github.com/dalemusser/learnhub/internal/app/features/idwebhook"
	studentfeature "github.com/dalemusser/learnhub/internal/app/features/student"
	coursestore "github.com/dalemusser/learnhub/internal/app/store/courses"
	progressstore "github.com/dalemusser/learnhub/internal/app/store/progress"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/app/system/identity"
	"github.com/dalemusser/learnhub/internal/app/system/media"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The public catalog and the
// webhook mount without token middleware; the user and educator APIs sit
// behind the verifier.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := auth.NewVerifier(auth.Config{
		IssuerURL: appCfg.AuthIssuerURL,
		Audience:  appCfg.AuthAudience,
		DevSecret: appCfg.AuthDevSecret,
	}, logger)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(deps.MongoDatabase)
	courses := coursestore.New(deps.MongoDatabase)
	progress := progressstore.New(deps.MongoDatabase)

	var idc identity.Client = identity.Nop{}
	if appCfg.IdentitySecretKey != "" {
		idc = identity.NewHTTPClient(appCfg.IdentityAPIURL, appCfg.IdentitySecretKey, logger)
	} else {
		logger.Warn("identity secret not configured; educator roles will not mirror to the provider")
	}

	var mediaStore media.Store
	switch appCfg.MediaType {
	case "host":
		mediaStore = media.NewHost(appCfg.MediaUploadURL, appCfg.MediaUploadPreset, logger)
	default:
		mediaStore = media.NewLocal(appCfg.MediaLocalPath, appCfg.MediaLocalURL)
	}

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public course catalog
	catalogHandler := coursesfeature.NewHandler(courses, logger)
	r.Mount("/api/course", coursesfeature.Routes(catalogHandler))

	// Identity-provider webhook; authenticated by payload signature.
	webhookHandler := idwebhookfeature.NewHandler(users, appCfg.WebhookSecret, logger)
	r.Mount("/api/webhooks", idwebhookfeature.Routes(webhookHandler))

	// Authenticated user API
	studentHandler := studentfeature.NewHandler(users, courses, progress, logger)
	r.Route("/api/user", func(pr chi.Router) {
		pr.Use(verifier.RequireAuth)
		pr.Mount("/", studentfeature.Routes(studentHandler))
	})

	// Educator API (role gate applied inside the feature's routes)
	educatorHandler := educatorfeature.NewHandler(users, courses, idc, mediaStore, logger)
	r.Route("/api/educator", func(pr chi.Router) {
		pr.Use(verifier.RequireAuth)
		pr.Mount("/", educatorfeature.Routes(educatorHandler))
	})

	// Locally stored thumbnails, served with pre-compressed file support
	if appCfg.MediaType == "local" {
		r.Handle(appCfg.MediaLocalURL+"/*", fileserver.Handler(appCfg.MediaLocalURL, appCfg.MediaLocalPath))
	}

	return r, nil
}
