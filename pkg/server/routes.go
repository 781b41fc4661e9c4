package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/maslahah/nlpviz/internal"
	"github.com/maslahah/nlpviz/pkg/metrics"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/server/apihandlers"
	"github.com/maslahah/nlpviz/pkg/server/webhandlers"
	"github.com/maslahah/nlpviz/pkg/web"
)

var log = internal.GetLogger()

const (
	ReadHeaderTimeout = 5 * time.Second
	RouterName        = "nlpviz"
)

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	cfg := appState.Config.Server
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

// @title			nlpviz REST API
// @version		0.x
// @license.name	MIT
// @BasePath		/api/v1
// @schemes		http https
func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.CleanPath)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	if appState.Config.Telemetry.Enabled {
		router.Use(otelchi.Middleware(
			RouterName,
			otelchi.WithChiRoutes(router),
			otelchi.WithRequestMethodInSpanName(true),
		))
	}

	router.NotFound(webhandlers.NotFoundHandler())

	if appState.Config.Metrics.Enabled {
		log.Infof("Serving metrics at %s", appState.Config.Metrics.Path)
		router.Handle(appState.Config.Metrics.Path, metrics.Handler())
	}

	router.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))
	router.Get("/", webhandlers.IndexHandler(appState))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/models", apihandlers.GetModelListHandler(appState))
		r.Route("/models/{model}", func(r chi.Router) {
			r.Get("/meta", apihandlers.GetModelMetaHandler(appState))
			r.Post("/process", apihandlers.ProcessTextHandler(appState))
		})
		r.Post("/visualize", apihandlers.VisualizeHandler(appState))
	})

	return router
}
