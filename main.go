package main

import (
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/username/spendfolio/src/config"
	"github.com/username/spendfolio/src/database"
	"github.com/username/spendfolio/src/handlers"
	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/parsers"
	"github.com/username/spendfolio/src/security"
	"github.com/username/spendfolio/src/services"
	"github.com/username/spendfolio/src/utils"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(allowed []string) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allowedOrigins[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
				w.Header().Set("Access-Control-Expose-Headers", "ETag, Content-Disposition")
			} else if origin == "" {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			if r.Method == http.MethodOptions {
				logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Spendfolio server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing run cache...", "expiry", config.Cfg.RunCacheExpiry)
	runStore := services.NewRunStore(services.NewRunCache(config.Cfg.RunCacheExpiry))

	logger.L.Info("Initializing services and handlers...")
	sessionService := security.NewSessionService(config.Cfg.SessionSecret, config.Cfg.SessionTokenExpiry)
	compileService := services.NewCompileService(parsers.NewCSVReader())
	auditService := services.NewAuditService(database.DB)
	exportService := services.NewExportService(config.Cfg.ExportSanitizeFormulas)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	compileHandler := handlers.NewCompileHandler(compileService, runStore, auditService, handlers.CompileSettings{
		DefaultSpender:     config.Cfg.DefaultSpender,
		FailurePolicy:      models.ParseFailurePolicy(config.Cfg.FailurePolicy),
		MaxUploadSizeBytes: config.Cfg.MaxUploadSizeBytes,
	})
	recordsHandler := handlers.NewRecordsHandler(runStore, auditService)
	exportHandler := handlers.NewExportHandler(runStore, exportService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	requireSession := handlers.SessionMiddleware(sessionService)
	withSession := func(handler http.HandlerFunc) http.Handler {
		return requireSession(handler)
	}

	apiRouter.HandleFunc("POST /api/session", sessionHandler.HandleCreateSession)
	apiRouter.Handle("GET /api/formats", withSession(compileHandler.HandleListFormats))
	apiRouter.Handle("POST /api/compile", withSession(compileHandler.HandleCompile))
	apiRouter.Handle("GET /api/records", withSession(recordsHandler.HandleGetRecords))
	apiRouter.Handle("PATCH /api/records/{id}/category", withSession(recordsHandler.HandleOverrideCategory))
	apiRouter.Handle("DELETE /api/records", withSession(recordsHandler.HandleClearRecords))
	apiRouter.Handle("GET /api/runs", withSession(recordsHandler.HandleListRuns))
	apiRouter.Handle("GET /api/runs/{id}", withSession(recordsHandler.HandleGetRun))
	apiRouter.Handle("GET /api/export", withSession(exportHandler.HandleExport))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			utils.SendJSON(w, map[string]string{"message": "Spendfolio backend is running"}, http.StatusOK)
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(config.Cfg.AllowedOrigins)(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
