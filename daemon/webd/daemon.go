package webd

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"
	"github.com/olahol/melody"

	"github.com/mikkohei13/biotools/api"
	"github.com/mikkohei13/biotools/params"
)

type WebDaemon struct {
	Config         *params.WebDaemonConfig
	logger         *slog.Logger
	started        time.Time
	melodyInstance *melody.Melody
	feedAnalyzed   event.FeedOf[*api.Result]

	// resultCache serves repeated analyze requests without touching
	// the score store, and replays recent results to new websocket
	// subscribers.
	resultCache *ttlcache.Cache[string, *api.Result]
}

func NewWebDaemon(config *params.WebDaemonConfig) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	cache := ttlcache.New[string, *api.Result](
		ttlcache.WithTTL[string, *api.Result](config.ResultCacheTTL))
	go cache.Start()
	return &WebDaemon{
		Config:       config,
		logger:       slog.With("d", "web"),
		started:      time.Now(),
		feedAnalyzed: event.FeedOf[*api.Result]{},
		resultCache:  cache,
	}
}

// Run starts the HTTP server and waits for it, returning any server error.
func (s *WebDaemon) Run() error {
	router := s.NewRouter()
	http.Handle("/", router)
	listener, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	s.logger.Info("Starting web daemon", "network", s.Config.Network, "address", s.Config.Address)
	return http.Serve(listener, nil)
}

func (s *WebDaemon) NewRouter() *mux.Router {

	// Handle websocket.
	s.initMelody()
	http.HandleFunc("/sobio", func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/methods").HandlerFunc(handleMethods).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(tokenAuthenticationMiddleware)

	authenticatedAPIRoutes.Path("/upload").HandlerFunc(s.handleUpload).Methods(http.MethodPost)
	authenticatedAPIRoutes.Path("/analyze").HandlerFunc(s.handleAnalyze).Methods(http.MethodPost)

	return router
}
