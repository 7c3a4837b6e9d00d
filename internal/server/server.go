package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ericoliveiras/artkey-store/internal/config"
	"github.com/ericoliveiras/artkey-store/internal/handler"
	"github.com/ericoliveiras/artkey-store/internal/metrics"
	"github.com/ericoliveiras/artkey-store/internal/portal"
)

type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	log     *logrus.Logger
	limiter *RateLimiter
}

// NewServer wires handlers, middleware and routes.
func NewServer(cfg *config.Config, db *gorm.DB, log *logrus.Logger) (*Server, error) {
	router := gin.New()
	// Client IPs key the rate limiter, so forwarded headers are only
	// honoured from configured proxies.
	var proxies []string
	if len(cfg.Server.TrustedProxies) > 0 {
		proxies = cfg.Server.TrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("invalid server.trusted_proxies: %w", err)
	}
	router.Use(gin.Recovery(), RequestLogger(log), metrics.Middleware())
	router.MaxMultipartMemory = 32 << 20

	store := sessions.NewCookieStore([]byte(cfg.Server.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	portalSvc := &portal.Service{DB: db, TTL: cfg.Portal.TokenTTL}

	s := &Server{
		router:  router,
		cfg:     cfg,
		log:     log,
		limiter: NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log),
	}
	s.setupRoutes(
		&handler.CatalogHandler{DB: db, Log: log},
		&handler.CartHandler{DB: db, Store: store, Portal: portalSvc, Log: log, PublicURL: cfg.Server.PublicURL},
		&handler.DesignHandler{DB: db, Log: log, UploadDir: cfg.Uploads.Dir, PublicURL: cfg.Server.PublicURL},
		&handler.PortalHandler{Portal: portalSvc, Log: log, PublicURL: cfg.Server.PublicURL},
	)
	return s, nil
}

func (s *Server) setupRoutes(catalog *handler.CatalogHandler, cart *handler.CartHandler, designs *handler.DesignHandler, portals *handler.PortalHandler) {
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.Static("/uploads", s.cfg.Uploads.Dir)

	limited := s.limiter.Handler()

	api := s.router.Group("/api")
	{
		api.GET("/health", catalog.Health)

		api.GET("/categories", catalog.ListCategories)
		api.GET("/products", catalog.ListProducts)
		api.GET("/products/:id", catalog.ShowProduct)
		api.GET("/products/:id/printspec", catalog.ShowPrintSpec)
		api.GET("/printspec/presets", catalog.ListPresets)
		api.GET("/artists/:id", catalog.ShowArtist)

		api.GET("/cart", cart.ShowCart)
		api.POST("/cart/items/:id", cart.AddToCart)
		api.POST("/cart/items/:id/decrease", cart.DecreaseQuantity)
		api.DELETE("/cart/items/:id", cart.RemoveFromCart)
		api.DELETE("/cart", cart.ClearCart)
		api.POST("/checkout", limited, cart.Checkout)
		api.GET("/orders/:ref", cart.ShowOrder)

		api.POST("/designs/place", designs.Place)
		api.POST("/designs", designs.CreateDraft)
		api.GET("/designs/:id", designs.GetDraft)
		api.PUT("/designs/:id", designs.UpdateDraft)
		api.POST("/designs/:id/image", limited, designs.UploadImage)
		api.GET("/designs/:id/preview.png", designs.Preview)
		api.GET("/designs/:id/export.pdf", designs.ExportPDF)

		api.GET("/portal/:slug", portals.Show)
		api.PUT("/portal/:slug", portals.Update)
		api.POST("/portal/:slug/guestbook", limited, portals.AddEntry)
		api.GET("/portal/:slug/qr.png", portals.QRCode)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan struct{})
	defer close(stop)
	s.limiter.StartCleanup(time.Minute, stop)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
