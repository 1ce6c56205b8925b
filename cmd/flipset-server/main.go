package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/flipset/internal/bootstrap"
	"github.com/at-ishikawa/flipset/internal/config"
	"github.com/at-ishikawa/flipset/internal/database"
	"github.com/at-ishikawa/flipset/internal/flashcard"
	"github.com/at-ishikawa/flipset/internal/server"
	"github.com/at-ishikawa/flipset/internal/session"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "flipset-server",
		Short:         "Flipset review service HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	app := bootstrap.New(bootstrap.WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second))

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Connect() > %w", err)
	}
	app.AddShutdownHook("database", func(context.Context) error {
		return db.Close()
	})

	store, closeStore, err := session.NewStoreFromConfig(cfg.Session, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("session.NewStoreFromConfig() > %w", err)
	}
	app.AddShutdownHook("session store", func(context.Context) error {
		return closeStore()
	})

	cards := flashcard.NewDBCardRepository(db)
	engine := session.NewEngine(cards, store)
	if _, err := engine.Load(ctx); err != nil {
		return errors.Join(fmt.Errorf("engine.Load() > %w", err), closeStore(), db.Close())
	}

	handler, err := newHTTPHandler(engine, cards, flashcard.NewDBCategoryRepository(db), cfg.Server.CORS.AllowedOrigins)
	if err != nil {
		return errors.Join(err, closeStore(), db.Close())
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server",
			"addr", srv.Addr,
			"session_store", cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

// newHTTPHandler serves the review service over HTTP/1.1 and cleartext HTTP/2.
func newHTTPHandler(
	engine *session.Engine,
	cards flashcard.CardRepository,
	categories flashcard.CategoryRepository,
	allowedOrigins []string,
) (http.Handler, error) {
	reviewHandler, err := server.NewReviewHandler(engine, cards, categories)
	if err != nil {
		return nil, fmt.Errorf("server.NewReviewHandler() > %w", err)
	}
	path, h := server.NewReviewServiceHandler(reviewHandler)

	mux := http.NewServeMux()
	mux.Handle(path, h)
	return corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), allowedOrigins), nil
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
