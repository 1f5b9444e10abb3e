package web

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"geoeconomia/connectors/config"
	csvc "geoeconomia/connectors/csv"
	"geoeconomia/connectors/geojson"
	"geoeconomia/connectors/metrics"
	"geoeconomia/domain/dashboard"
	"geoeconomia/domain/economy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
)

// Run loads the dataset once and serves the dashboard API and an optional
// SPA build.
//
// Usage:
//
//	geoeconomia web [-addr :8080] [-ui ./ui/dist] [-territorial file] [-activities file] [-geojson file]
//
// Endpoints:
//
//	GET  /api/health
//	GET  /api/options/:page?dimension=
//	GET  /api/views/:page?dimension=&metric=&selected=a&selected=b
//	POST /api/views/:page                 (JSON body with dimension, selected, metric)
//	GET  /api/views/:page/export.xlsx     (same parameters as GET /api/views/:page)
//	GET  /api/map?metric=companies|profit&department=
//	GET  /api/geojson
//	GET  /metrics
//
// When -ui points to a built Vite app (index.html exists), static files are served at / and
// unknown routes fall back to index.html for SPA routing.
func Run(args []string) error {
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Web.Addr, "http listen address (host:port)")
	uiDir := fs.String("ui", cfg.Web.UI, "directory containing built UI (Vite dist)")
	fs.StringVar(&cfg.Data.Territorial, "territorial", cfg.Data.Territorial, "territorial fact table (CSV)")
	fs.StringVar(&cfg.Data.Activities, "activities", cfg.Data.Activities, "activities fact table (CSV)")
	fs.StringVar(&cfg.Data.GeoJSON, "geojson", cfg.Data.GeoJSON, "department boundaries (GeoJSON), empty to disable the map")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	var (
		data *economy.Dataset
		geo  *geojson.Boundaries
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = csvc.LoadDataset(gctx, cfg)
		return err
	})
	if cfg.Data.GeoJSON != "" {
		g.Go(func() error {
			var err error
			geo, err = geojson.Load(cfg.Data.GeoJSON, cfg.Data.GeoJSONKey)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	m.DatasetRows(string(economy.Territorial), data.Territorial.Len())
	m.DatasetRows(string(economy.Activities), data.Activities.Len())
	if geo != nil {
		if missing := geo.Missing(data.Territorial.Values(economy.MapKey)); len(missing) > 0 {
			slog.Warn("geojson.unmatched", "keys", missing)
		}
	}

	s := NewServer(dashboard.NewService(data, cfg.Dashboard), geo, m, data)
	e := s.Echo(*uiDir)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("web.shutdown", "err", err)
		}
	}()

	slog.Info("web.start", "addr", *addr)
	if err := e.Start(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("web.stop")
	return nil
}

// Server holds the read-only state shared by all requests.
type Server struct {
	dash    *dashboard.Service
	geo     *geojson.Boundaries
	metrics *metrics.Metrics
	data    *economy.Dataset
}

func NewServer(dash *dashboard.Service, geo *geojson.Boundaries, m *metrics.Metrics, data *economy.Dataset) *Server {
	return &Server{dash: dash, geo: geo, metrics: m, data: data}
}

// Echo builds the router. uiDir may be empty or point to a missing
// directory, in which case only the API is served.
func (s *Server) Echo(uiDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.metrics.Request(v.Method, c.Path(), v.Status)
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID}
			if v.Error != nil {
				slog.Error("web.request", append(attrs, "err", v.Error)...)
				return nil
			}
			slog.Info("web.request", attrs...)
			return nil
		},
	}))

	// APIs
	e.GET("/api/health", s.health)
	e.GET("/api/options/:page", s.options)
	e.GET("/api/views/:page", s.view)
	e.POST("/api/views/:page", s.view)
	e.GET("/api/views/:page/export.xlsx", s.export)
	e.GET("/api/map", s.mapView)
	e.GET("/api/geojson", s.geojson)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	serveUI(e, uiDir)
	return e
}

// serveUI mounts a built single-page app. Unknown browser routes render
// index.html; the API, /metrics and missing asset files keep their 404.
func serveUI(e *echo.Echo, dir string) {
	index := filepath.Join(dir, "index.html")
	if fi, err := os.Stat(index); dir == "" || err != nil || fi.IsDir() {
		return
	}
	e.Static("/", dir)
	e.GET("/", func(c echo.Context) error { return c.File(index) })

	next := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// the request logger already handed this error over
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusNotFound && clientRoute(c.Request()) {
			if c.File(index) == nil {
				return
			}
		}
		next(err, c)
	}
}

// clientRoute reports whether r looks like a page navigation handled by
// the front-end router.
func clientRoute(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	p := r.URL.Path
	for _, reserved := range []string{"/api", "/metrics"} {
		if p == reserved || strings.HasPrefix(p, reserved+"/") {
			return false
		}
	}
	return path.Ext(p) == ""
}
