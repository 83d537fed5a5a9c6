package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	cmdinternal "github.com/agenda-tarefas/agenda-api/cmd/internal"
	"github.com/agenda-tarefas/agenda-api/internal/envvar"
	"github.com/agenda-tarefas/agenda-api/internal/memcached"
	"github.com/agenda-tarefas/agenda-api/internal/mysql"
	"github.com/agenda-tarefas/agenda-api/internal/rabbitmq"
	"github.com/agenda-tarefas/agenda-api/internal/rest"
	"github.com/agenda-tarefas/agenda-api/internal/service"
)

func main() {
	var env, address string

	flag.StringVar(&env, "env", "", "Environment Variables filename")
	flag.StringVar(&address, "address", ":8000", "HTTP Server Address")
	flag.Parse()

	errC, err := run(env, address)
	if err != nil {
		log.Fatalf("Couldn't run: %s", err)
	}

	if err := <-errC; err != nil {
		log.Fatalf("Error while running: %s", err)
	}
}

func run(env, address string) (<-chan error, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("zap.NewProduction: %w", err)
	}

	if err := envvar.Load(env); err != nil {
		return nil, fmt.Errorf("envvar.Load: %w", err)
	}

	var provider envvar.Provider

	if os.Getenv("VAULT_ADDRESS") != "" {
		vault, err := cmdinternal.NewVaultProvider()
		if err != nil {
			return nil, fmt.Errorf("internal.NewVaultProvider: %w", err)
		}

		provider = vault
	}

	conf := envvar.New(provider)

	db, err := cmdinternal.NewMySQL(conf)
	if err != nil {
		return nil, fmt.Errorf("internal.NewMySQL: %w", err)
	}

	// The exporter registers itself on the default prometheus registerer,
	// which /metrics serves below.
	if _, err := cmdinternal.NewOTExporter(conf); err != nil {
		return nil, fmt.Errorf("internal.NewOTExporter: %w", err)
	}

	sconf := serverConfig{
		Address:     address,
		DB:          db,
		Metrics:     promhttp.Handler(),
		Logger:      logger,
		Debug:       os.Getenv("API_DEBUG") == "true",
		Middlewares: []func(next http.Handler) http.Handler{otelchi.Middleware("agenda-api")},
	}

	var rmq *cmdinternal.RabbitMQ

	if os.Getenv("RABBITMQ_URL") != "" {
		rmq, err = cmdinternal.NewRabbitMQ(conf)
		if err != nil {
			return nil, fmt.Errorf("internal.NewRabbitMQ: %w", err)
		}

		sconf.RabbitMQ = rmq
	}

	if os.Getenv("MEMCACHED_HOST") != "" {
		mc, err := cmdinternal.NewMemcached(conf)
		if err != nil {
			return nil, fmt.Errorf("internal.NewMemcached: %w", err)
		}

		sconf.Memcached = mc
	}

	logging := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info(r.Method,
				zap.Time("time", time.Now()),
				zap.String("url", r.URL.String()),
			)

			h.ServeHTTP(w, r)
		})
	}

	sconf.Middlewares = append(sconf.Middlewares, logging)

	srv := newServer(sconf)

	errC := make(chan error, 1)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)

		defer func() {
			_ = logger.Sync()

			db.Close()

			if rmq != nil {
				rmq.Close()
			}

			stop()
			cancel()
			close(errC)
		}()

		srv.SetKeepAlivesEnabled(false)

		if err := srv.Shutdown(ctxTimeout); err != nil {
			errC <- err
		}

		logger.Info("Shutdown completed")
	}()

	go func() {
		logger.Info("Listening and serving", zap.String("address", address))

		// "ListenAndServe always returns a non-nil error. After Shutdown or
		// Close, the returned error is ErrServerClosed."
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- err
		}
	}()

	return errC, nil
}

type serverConfig struct {
	Address     string
	DB          *sql.DB
	Memcached   *memcache.Client
	RabbitMQ    *cmdinternal.RabbitMQ
	Metrics     http.Handler
	Middlewares []func(next http.Handler) http.Handler
	Logger      *zap.Logger
	Debug       bool
}

func newServer(conf serverConfig) *http.Server {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	router.Use(render.SetContentType(render.ContentTypeJSON))

	for _, mw := range conf.Middlewares {
		router.Use(mw)
	}

	store := mysql.NewTask(conf.DB, conf.Logger)

	var repo service.TaskRepository = store

	if conf.Memcached != nil {
		repo = memcached.NewTask(conf.Memcached, store, conf.Logger)
	}

	var msgBroker service.TaskMessageBrokerRepository

	if conf.RabbitMQ != nil {
		msgBroker = rabbitmq.NewTask(conf.RabbitMQ.Channel)
	}

	svc := service.NewTask(conf.Logger, repo, msgBroker)

	rest.RegisterOpenAPI(router)
	rest.NewTaskHandler(svc, conf.Debug).Register(router)

	router.Handle("/metrics", conf.Metrics)

	// Plain OPTIONS requests without an Origin header bypass the CORS
	// middleware, answer them with an empty 200.
	router.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.NotFound(rest.RouteNotFound)
	router.MethodNotAllowed(rest.RouteNotFound)

	lmt := tollbooth.NewLimiter(100, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Second})
	lmtmw := tollbooth.LimitHandler(lmt, router)

	return &http.Server{
		Handler:           lmtmw,
		Addr:              conf.Address,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
