package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/gymlog/internal/catalog"
	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/db"
	"github.com/2beens/gymlog/internal/geocode"
	"github.com/2beens/gymlog/internal/gymlog/favorites"
	"github.com/2beens/gymlog/internal/gymlog/logsession"
	"github.com/2beens/gymlog/internal/gymlog/search"
	"github.com/2beens/gymlog/internal/gymlog/sets"
	"github.com/2beens/gymlog/internal/middleware"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"
)

const (
	sessionsCleanupInterval = 5 * time.Minute
	lookupsRefreshInterval  = 6 * time.Hour
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	catalogClient *catalog.Client
	lookups       *catalog.Lookups
	locator       *geocode.Locator

	setsService      *sets.Service
	favoritesService *favorites.Service
	searchStore      *search.Store
	logStore         *logsession.Store

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	IpInfoAPIKey            string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymlog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymlog-backend", rdb)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	catalogClient := catalog.NewClient(
		cfg.CatalogBaseURL,
		cfg.CatalogLanguage,
		&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.CatalogTimeout(),
		},
		metricsManager,
	)
	lookups := catalog.NewLookups()
	catalog.RefreshLookups(ctx, catalogClient, lookups)

	geocodeHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.GeocodeTimeout(),
	}
	locator := geocode.NewLocator(
		geocode.NewClient(cfg.GeocodeBaseURL, geocodeHttpClient, rdb, metricsManager),
		geocode.NewIPInfoResolver(geocodeHttpClient, params.IpInfoAPIKey),
	)

	setsService := sets.NewService(sets.NewRepo(dbPool), metricsManager)
	favoritesService := favorites.NewService(favorites.NewRepo(dbPool), metricsManager)

	s := &Server{
		versionInfo: params.VersionInfo,
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,

		catalogClient: catalogClient,
		lookups:       lookups,
		locator:       locator,

		setsService:      setsService,
		favoritesService: favoritesService,
		searchStore: search.NewStore(
			cfg.SessionTTL(), sessionsCleanupInterval,
			catalogClient, favoritesService, metricsManager,
		),
		logStore: logsession.NewStore(
			cfg.SessionTTL(), sessionsCleanupInterval,
			locator, setsService, metricsManager,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	go s.refreshLookupsPeriodically(ctx)

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymlog-router"))

	r.HandleFunc("/", handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	allowedPerMin := s.config.CatalogRateLimitAllowedPerMin

	catalogHandler := catalog.NewHandler(s.catalogClient, s.lookups)
	catalogRouter := r.PathPrefix("/catalog").Subrouter()
	catalogRouter.HandleFunc("/categories", catalogHandler.HandleCategories).Methods("GET", "OPTIONS").Name("catalog-categories")
	catalogRouter.HandleFunc("/equipment", catalogHandler.HandleEquipment).Methods("GET", "OPTIONS").Name("catalog-equipment")
	// catalog routes proxy a public api, keep clients from hammering it through us
	catalogRouter.Use(middleware.RateLimit(reqRateLimiter, "catalog", allowedPerMin, s.metricsManager))

	searchHandler := search.NewHandler(s.searchStore)
	searchRouter := r.PathPrefix("/search").Subrouter()
	searchRouter.HandleFunc("/sessions", searchHandler.HandleCreate).Methods("POST", "OPTIONS").Name("search-create")
	searchRouter.HandleFunc("/sessions/{id}", searchHandler.HandleGet).Methods("GET", "OPTIONS").Name("search-get")
	searchRouter.HandleFunc("/sessions/{id}", searchHandler.HandleDrop).Methods("DELETE", "OPTIONS").Name("search-drop")
	searchRouter.HandleFunc("/sessions/{id}/query", searchHandler.HandleQuery).Methods("POST", "OPTIONS").Name("search-query")
	searchRouter.HandleFunc("/sessions/{id}/more", searchHandler.HandleMore).Methods("POST", "OPTIONS").Name("search-more")
	searchRouter.HandleFunc("/sessions/{id}/results", searchHandler.HandleClear).Methods("DELETE", "OPTIONS").Name("search-clear")
	searchRouter.Use(middleware.RateLimit(reqRateLimiter, "search", allowedPerMin, s.metricsManager))

	favoritesHandler := favorites.NewHandler(s.favoritesService, s.lookups, s.searchStore)
	r.HandleFunc("/favorites", favoritesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-favorites")
	r.HandleFunc("/favorites", favoritesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("add-favorite")
	r.HandleFunc("/favorites/{exerciseId}", favoritesHandler.HandleRemove).Methods("DELETE", "OPTIONS").Name("remove-favorite")

	logHandler := logsession.NewHandler(s.logStore)
	r.HandleFunc("/log/sessions", logHandler.HandleOpen).Methods("POST", "OPTIONS").Name("log-open")
	r.HandleFunc("/log/sessions/{id}", logHandler.HandleGet).Methods("GET", "OPTIONS").Name("log-get")
	r.HandleFunc("/log/sessions/{id}", logHandler.HandleSetFields).Methods("PUT", "OPTIONS").Name("log-set-fields")
	r.HandleFunc("/log/sessions/{id}", logHandler.HandleClose).Methods("DELETE", "OPTIONS").Name("log-close")
	r.HandleFunc("/log/sessions/{id}/save", logHandler.HandleSave).Methods("POST", "OPTIONS").Name("log-save")

	setsHandler := sets.NewHandler(s.setsService)
	r.HandleFunc("/sets", setsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sets")
	r.HandleFunc("/sets", setsHandler.HandleImport).Methods("POST", "OPTIONS").Name("import-set")
	r.HandleFunc("/sets/export", setsHandler.HandleExport).Methods("GET", "OPTIONS").Name("export-sets")
	r.HandleFunc("/sets/find", setsHandler.HandleFind).Methods("GET", "OPTIONS").Name("find-set")
	r.HandleFunc("/sets/{id}/weight", setsHandler.HandleUpdateWeightLog).Methods("PUT", "OPTIONS").Name("update-set-weight")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests first, they still need the db and redis
	var err error
	if s.httpServer != nil {
		err = multierr.Append(err, s.httpServer.Shutdown(ctx))
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		err = multierr.Append(err, s.metricsHttpServer.Shutdown(ctx))
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	for _, shutdownErr := range multierr.Errors(err) {
		log.Errorf(" >>> graceful shutdown: %s", shutdownErr)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) refreshLookupsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(lookupsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			catalog.RefreshLookups(ctx, s.catalogClient, s.lookups)
		}
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}
