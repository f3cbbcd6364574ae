package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/config"
	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
	"github.com/yanqian/surf-forecast/pkg/util"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	locationSvc location.Service
	forecastSvc forecast.Service
	app         config.AppConfig
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(locationSvc location.Service, forecastSvc forecast.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		locationSvc: locationSvc,
		forecastSvc: forecastSvc,
		app:         cfg.App,
		logger:      logger.With("component", "http.handler"),
	}
}

// ListLocations returns the whole hierarchy.
func (h *Handler) ListLocations(c *gin.Context) {
	tree, err := h.locationSvc.Tree(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// NearestLocations returns spots around lat/long, nearest first.
func (h *Handler) NearestLocations(c *gin.Context) {
	lat, err := requiredFloat(c, "lat")
	if err != nil {
		abortWithError(c, err)
		return
	}
	long, err := requiredFloat(c, "long")
	if err != nil {
		abortWithError(c, err)
		return
	}
	rangeKm := location.DefaultRangeKm
	if raw := strings.TrimSpace(c.Query("range")); raw != "" {
		if rangeKm, err = strconv.ParseFloat(raw, 64); err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.CodeInvalidArgument, "range must be a number", err))
			return
		}
	}

	matches, err := h.locationSvc.Nearest(c.Request.Context(), location.NearestQuery{Latitude: lat, Longitude: long, RangeKm: rangeKm})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// SearchLocations ranks locations by name.
func (h *Handler) SearchLocations(c *gin.Context) {
	results, err := h.locationSvc.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetForecast composes the forecast of one location.
func (h *Handler) GetForecast(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, apperrors.Wrap(apperrors.CodeInvalidArgument, "id must be a positive integer", err))
		return
	}
	h.composeFor(c, id)
}

// GetForecastByPath resolves country/state/city[/spot] names before composing.
func (h *Handler) GetForecastByPath(c *gin.Context) {
	segments := []string{c.Param("country"), c.Param("state"), c.Param("city")}
	if spot := c.Param("spot"); spot != "" {
		segments = append(segments, spot)
	}
	loc, err := h.locationSvc.ResolvePath(c.Request.Context(), segments)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.composeFor(c, loc.ID)
}

// GetForecastByName composes the forecast of the best match for ?name=.
func (h *Handler) GetForecastByName(c *gin.Context) {
	loc, err := h.locationSvc.ResolveName(c.Request.Context(), c.Query("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.composeFor(c, loc.ID)
}

func (h *Handler) composeFor(c *gin.Context, id int64) {
	start, err := util.ParseDate(c.Query("start"))
	if err != nil {
		abortWithError(c, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid start", err))
		return
	}
	end, err := util.ParseDate(c.Query("end"))
	if err != nil {
		abortWithError(c, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid end", err))
		return
	}

	resp, err := h.forecastSvc.Compose(c.Request.Context(), forecast.Request{LocationID: id, Start: start, End: end})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MockForecast returns the fixed contract-testing forecast.
func (h *Handler) MockForecast(c *gin.Context) {
	resp, err := h.forecastSvc.Mock(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health reports the application identity.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"application": h.app.Name,
		"message":     "OK",
		"region":      h.app.Region,
	})
}

// Liveness always succeeds while the process serves requests.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness succeeds once the location index is loaded.
func (h *Handler) Readiness(c *gin.Context) {
	if err := h.locationSvc.CheckReadiness(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func requiredFloat(c *gin.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, apperrors.Wrap(apperrors.CodeInvalidArgument, name+" is required", nil)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidArgument, name+" must be a number", err)
	}
	return v, nil
}
