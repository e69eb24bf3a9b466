package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	batch "Buckling/internal/calc/batch"
	buckling "Buckling/internal/calc/buckling"
	column "Buckling/internal/calc/column"
	importer "Buckling/internal/calc/importer"
	report "Buckling/internal/calc/report"
	config "Buckling/internal/config"
	httpjson "Buckling/internal/httpjson"
	logging "Buckling/internal/logging"
	metrics "Buckling/internal/metrics"
	model "Buckling/internal/model"
	ratelimit "Buckling/internal/ratelimit"
	repo "Buckling/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// Instrument tags each request with an id and counts it per route.
func Instrument(rec *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
				r.Header.Set("X-Request-ID", id)
			}
			w.Header().Set("X-Request-ID", id)

			sw := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			rec.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
		})
	}
}

type Deps struct {
	Config   *config.Config
	Arbiter  *buckling.Arbiter
	Store    repo.Repository
	Logger   *zap.Logger
	Metrics  *metrics.Recorder
	Registry *prometheus.Registry
}

func HandleList(mux *mux.Router, d Deps) {
	limiter := ratelimit.NewIPRateLimiter(rate.Limit(d.Config.RateLimitRPS), d.Config.RateLimitBurst)

	mux.Use(Instrument(d.Metrics))

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	predictH := &buckling.Handler{Arbiter: d.Arbiter, Logger: d.Logger}
	columnH := &column.Handler{}
	batchH := &batch.Handler{Arbiter: d.Arbiter, Workers: d.Config.BatchWorkers, Logger: d.Logger}
	importH := &importer.Handler{Arbiter: d.Arbiter, Workers: d.Config.BatchWorkers, Logger: d.Logger}
	if d.Store != nil {
		predictH.Store = d.Store
		batchH.Store = d.Store
		importH.Store = d.Store
	}
	reportH := &report.Handler{Arbiter: d.Arbiter}

	api.HandleFunc("/predict", predictH.Predict).Methods("POST")
	api.HandleFunc("/explain", predictH.Explain).Methods("POST")
	api.HandleFunc("/tools/column/calc", columnH.Calc).Methods("POST")
	api.HandleFunc("/tools/batch/predict", batchH.Predict).Methods("POST")
	api.HandleFunc("/tools/import/xlsx", importH.Workbook).Methods("POST")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	if d.Store != nil {
		historyH := &repo.Handler{Repo: d.Store}
		api.HandleFunc("/predictions", historyH.List).Methods("GET")
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"model_loaded": d.Arbiter.HasModel(),
			"policy":       d.Arbiter.Policy(),
		})
	}).Methods("GET")
	mux.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})).Methods("GET")
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sql.DB, repo.Repository) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, prediction log disabled")
		return nil, nil
	}
	db, err := repo.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	store := repo.NewPostgresPredictionDB(db)
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	return db, store
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.Must(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer logger.Sync()

	policy, err := buckling.ParsePolicy(cfg.Policy)
	if err != nil {
		logger.Fatal("bad BUCKLING_POLICY", zap.Error(err))
	}

	loader := &model.Loader{Region: cfg.AWSRegion}
	predictor, err := loader.Load(ctx, cfg.ModelPath)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", cfg.ModelPath), zap.Error(err))
	}
	if predictor != nil {
		logger.Info("model loaded", zap.String("path", cfg.ModelPath))
	} else {
		logger.Warn("model not found, using Euler formula only", zap.String("path", cfg.ModelPath))
	}

	registry := prometheus.NewRegistry()
	rec := metrics.New(registry)
	arbiter := buckling.NewArbiter(predictor, policy, logger, rec)

	db, store := openStore(ctx, cfg, logger)
	if db != nil {
		defer db.Close()
	}

	mux := mux.NewRouter()
	HandleList(mux, Deps{
		Config:   cfg,
		Arbiter:  arbiter,
		Store:    store,
		Logger:   logger,
		Metrics:  rec,
		Registry: registry,
	})
	handler := CORS(mux)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("policy", string(policy)))
		var err error
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	wg.Wait()
	logger.Info("server stopped")
}
