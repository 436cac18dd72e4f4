package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studynotes-server/internal/config"
	"studynotes-server/internal/handler"
	"studynotes-server/internal/middleware"
	"studynotes-server/internal/repository"
	"studynotes-server/internal/service"
	"studynotes-server/internal/session"
	"studynotes-server/internal/storage"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := newLogger(cfg.Logging.Level)

	// The database is optional: with none configured, or one that cannot be
	// reached, the server keeps working on its in-memory stores.
	client := connectDatabase(cfg, log)

	var noteBackend repository.NoteRepository
	var userBackend repository.UserRepository
	if client != nil {
		noteBackend = repository.NewCouchNoteRepository(client, cfg.Database.Name)
		userBackend = repository.NewCouchUserRepository(client, cfg.Database.Name)
	}

	noteRepo := repository.NewFallbackNoteRepository(noteBackend, log)
	userRepo := repository.NewFallbackUserRepository(userBackend, log)

	var blobs storage.BlobStore
	if !cfg.Storage.Inline() {
		diskStore, err := storage.NewDiskStore(cfg.Storage.Dir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("failed to prepare uploads directory")
		}
		blobs = diskStore
	}

	sessions := session.NewStore(cfg.Session.TTL)

	authService := service.NewAuthService(userRepo, noteRepo, sessions, log)
	noteService := service.NewNoteService(noteRepo, userRepo, blobs, cfg.Storage.Inline(), log)

	authHandler := handler.NewAuthHandler(authService)
	noteHandler := handler.NewNoteHandler(noteService, cfg.Storage.MaxUpload)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.OptionalAuth(sessions))

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/validate", authHandler.Validate).Methods("POST", "OPTIONS")

	requireAuth := middleware.RequireAuth(sessions)

	// /notes/user must be registered before /notes/{id}.
	api.Handle("/notes/user", requireAuth(http.HandlerFunc(noteHandler.ListMine))).Methods("GET", "OPTIONS")
	api.HandleFunc("/notes", noteHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/notes", noteHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/notes/{id}", noteHandler.Get).Methods("GET", "OPTIONS")
	api.Handle("/notes/{id}", requireAuth(http.HandlerFunc(noteHandler.Update))).Methods("PUT", "OPTIONS")
	api.Handle("/notes/{id}", requireAuth(http.HandlerFunc(noteHandler.Delete))).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/notes/{id}/download", noteHandler.Download).Methods("GET", "OPTIONS")
	api.HandleFunc("/notes/{id}/download", noteHandler.VerifyPassword).Methods("POST", "OPTIONS")
	api.HandleFunc("/notes/{id}/preview", noteHandler.Preview).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	addr := cfg.Server.Host + ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Server.Env).Bool("database", client != nil).Msg("starting study notes server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped gracefully")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

// connectDatabase returns a ready CouchDB client, or nil when no database is
// configured or it cannot be prepared. Failures are warnings, not fatal: the
// in-memory stores take over.
func connectDatabase(cfg *config.Config, log zerolog.Logger) *kivik.Client {
	if !cfg.Database.Configured() {
		log.Warn().Msg("no database configured, using in-memory storage")
		return nil
	}

	client, err := kivik.New("couch", cfg.Database.URL())
	if err != nil {
		log.Warn().Err(err).Msg("database connection failed, using in-memory storage")
		return nil
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		log.Warn().Err(err).Msg("database unreachable, using in-memory storage")
		return nil
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			log.Warn().Err(err).Msg("failed to create database, using in-memory storage")
			return nil
		}
		log.Info().Str("name", cfg.Database.Name).Msg("created database")
	}

	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("connected to CouchDB")
	return client
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"studynotes-server"}`))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Study Notes API","version":"1.0.0","endpoints":{"/api/v1/auth/register":"POST","/api/v1/auth/login":"POST","/api/v1/notes":"GET, POST","/api/v1/notes/user":"GET (session required)"}}`))
}
