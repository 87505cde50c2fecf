package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vidtube/internal/common"
	"vidtube/internal/config"
	"vidtube/internal/wire"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using system environment variables")
	}

	logrus.Info("initializing application...")
	app, err := wire.InitializeApplication()
	if err != nil {
		logrus.Fatalf("failed to initialize application: %v", err)
	}

	configureLogging(app.Config)

	router := setupRouter(app)

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", app.Config.Server.Host, app.Config.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(app.Config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("server forced to shutdown: %v", err)
	}

	logrus.Info("server gracefully stopped")
}

func configureLogging(cnf *config.Config) {
	if level, err := logrus.ParseLevel(cnf.Logging.Level); err == nil {
		logrus.SetLevel(level)
	}
	if cnf.Logging.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// setupRouter configures the middleware stack and all API routes.
func setupRouter(app *wire.Application) *mux.Router {
	router := mux.NewRouter()

	router.Use(common.RequestID)
	router.Use(common.RequestLogger)
	router.Use(common.CORS)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", healthCheckHandler).Methods("GET")

	protect := app.Auth.Protect
	optional := app.Auth.OptionalAuth

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", app.UserHandler.Register).Methods("POST")
	auth.HandleFunc("/login", app.UserHandler.Login).Methods("POST")

	// Video routes
	videos := api.PathPrefix("/videos").Subrouter()
	videos.Handle("", optional(http.HandlerFunc(app.VideoHandler.Recommended))).Methods("GET")
	videos.Handle("", protect(http.HandlerFunc(app.VideoHandler.Publish))).Methods("POST")
	videos.Handle("/trending", optional(http.HandlerFunc(app.VideoHandler.Trending))).Methods("GET")
	videos.Handle("/search", optional(http.HandlerFunc(app.VideoHandler.Search))).Methods("GET")
	videos.Handle("/{videoID}", optional(http.HandlerFunc(app.VideoHandler.Get))).Methods("GET")
	videos.Handle("/{videoID}", protect(http.HandlerFunc(app.VideoHandler.Delete))).Methods("DELETE")
	videos.Handle("/{videoID}/view", optional(http.HandlerFunc(app.VideoHandler.RecordView))).Methods("GET")
	videos.Handle("/{videoID}/like", protect(http.HandlerFunc(app.VideoHandler.Like))).Methods("POST")
	videos.Handle("/{videoID}/dislike", protect(http.HandlerFunc(app.VideoHandler.Dislike))).Methods("POST")
	videos.Handle("/{videoID}/comments", optional(http.HandlerFunc(app.VideoHandler.ListComments))).Methods("GET")
	videos.Handle("/{videoID}/comments", protect(http.HandlerFunc(app.VideoHandler.AddComment))).Methods("POST")
	videos.Handle("/{videoID}/comments/{commentID}", protect(http.HandlerFunc(app.VideoHandler.DeleteComment))).Methods("DELETE")

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.Handle("/me", protect(http.HandlerFunc(app.UserHandler.Me))).Methods("GET")
	users.Handle("/liked-videos", protect(http.HandlerFunc(app.UserHandler.LikedVideos))).Methods("GET")
	users.Handle("/history", protect(http.HandlerFunc(app.UserHandler.History))).Methods("GET")
	users.Handle("/{userID}/toggle-subscribe", protect(http.HandlerFunc(app.UserHandler.ToggleSubscribe))).Methods("GET")

	return router
}

// healthCheckHandler provides basic health check
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"vidtube"}`))
}
