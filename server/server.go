package server

import (
	"cafes/auth"
	"cafes/config"
	"cafes/controller"
	"cafes/database"
	"cafes/metrics"
	"cafes/route"
	"cafes/templates"
	"cafes/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New builds the engine with every route wired to db.
func New(cfg config.Config, db *gorm.DB) (*gin.Engine, error) {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), utils.RequestMetrics(m))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	users := auth.NewService(database.NewUserStore(db))
	sessions := auth.NewSessions(cfg.SecretKey, cfg.SessionMaxAge, cfg.SecureCookies)
	tokens := auth.NewTokens(cfg.SecretKey, auth.AccessTokenTTL)
	ctl := controller.New(database.NewCafeStore(db), users, sessions, tokens, m)
	route.CafeRoutes(router, ctl, m.Handler(), route.Guards{
		Sessions:   sessions,
		Users:      users,
		Tokens:     tokens,
		CSRF:       auth.CSRF(cfg.SecretKey, cfg.SecureCookies, cfg.AllowedOrigins, ctl.CSRFRejected),
		OpenAccess: cfg.OpenAccess,
	})

	return router, nil
}

// Run serves handler on the configured port until ctx is cancelled, then
// drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
