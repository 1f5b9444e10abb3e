package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"geoeconomia/connectors/xlsx"
	"geoeconomia/domain/dashboard"
	"geoeconomia/domain/economy"

	"github.com/labstack/echo/v4"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"territorial": s.data.Territorial.Len(),
		"activities":  s.data.Activities.Len(),
		"map":         s.geo != nil,
	})
}

func (s *Server) options(c echo.Context) error {
	o, err := s.dash.Options(economy.Source(c.Param("page")), economy.Column(c.QueryParam("dimension")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// query reads a view query from the URL, or from a JSON body on POST. The
// page always comes from the path.
func query(c echo.Context) (dashboard.Query, error) {
	var q dashboard.Query
	if c.Request().Method == http.MethodPost {
		if err := c.Bind(&q); err != nil {
			return q, fmt.Errorf("%w: %v", dashboard.ErrInvalidQuery, err)
		}
	} else {
		q.Dimension = economy.Column(c.QueryParam("dimension"))
		q.Metric = dashboard.Metric(c.QueryParam("metric"))
		q.Selected = c.QueryParams()["selected"]
	}
	q.Page = economy.Source(c.Param("page"))
	return q, nil
}

func (s *Server) render(c echo.Context) (dashboard.Query, dashboard.Result, error) {
	q, err := query(c)
	if err != nil {
		return q, dashboard.Result{}, err
	}
	start := time.Now()
	res, err := s.dash.Render(c.Request().Context(), q)
	if err != nil {
		return q, res, err
	}
	s.metrics.Render(string(q.Page), string(q.Metric), time.Since(start))
	return q, res, nil
}

func (s *Server) view(c echo.Context) error {
	_, res, err := s.render(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) export(c echo.Context) error {
	q, res, err := s.render(c)
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, string(q.Page)+" "+string(q.Metric), res.Columns, res.Rows); err != nil {
		return fail(c, err)
	}
	name := fmt.Sprintf("%s_%s_%s.xlsx", q.Page, q.Dimension, q.Metric)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, xlsx.ContentType, buf.Bytes())
}

func (s *Server) mapView(c echo.Context) error {
	var q dashboard.MapQuery
	q.Metric = dashboard.MapMetric(c.QueryParam("metric"))
	if q.Metric == "" {
		q.Metric = dashboard.MapCompanies
	}
	q.Department = c.QueryParam("department")
	res, err := s.dash.Map(c.Request().Context(), q)
	if err != nil {
		return fail(c, err)
	}
	key := ""
	if s.geo != nil {
		key = s.geo.FeatureIDKey()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"featureidkey": key,
		"map":          res,
	})
}

func (s *Server) geojson(c echo.Context) error {
	if s.geo == nil {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error":   "no boundary file",
			"path":    c.Request().URL.Path,
			"message": "GeoJSON is not configured",
		})
	}
	return c.Blob(http.StatusOK, "application/geo+json", s.geo.Raw)
}

// fail maps an error onto a JSON error body.
func fail(c echo.Context, err error) error {
	path := c.Request().URL.Path
	switch {
	case errors.Is(err, dashboard.ErrInvalidQuery),
		errors.Is(err, dashboard.ErrUnsupportedDimension),
		errors.Is(err, dashboard.ErrUnknownMetric):
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":   err.Error(),
			"path":    path,
			"message": "invalid query",
		})
	case errors.Is(err, context.Canceled):
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"error":   err.Error(),
			"path":    path,
			"message": "request cancelled",
		})
	}
	slog.Error("web.fail", "path", path, "err", err)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error":   err.Error(),
		"path":    path,
		"message": "failed to compute view",
	})
}
