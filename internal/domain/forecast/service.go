package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/yanqian/surf-forecast/internal/domain/location"
	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
	"github.com/yanqian/surf-forecast/pkg/metrics"
	"github.com/yanqian/surf-forecast/pkg/util"
)

// Service composes forecasts for known locations.
type Service interface {
	Compose(ctx context.Context, req Request) (Response, error)
	Mock(ctx context.Context) (Response, error)
}

// LocationResolver resolves a location id. Unknown ids must fail with location_not_found.
type LocationResolver interface {
	Get(ctx context.Context, id int64) (location.Location, error)
}

// WindowReader yields the raw streams of a location.
type WindowReader interface {
	ReadWindow(ctx context.Context, src Source, start, end time.Time) (RawWindow, error)
}

type service struct {
	cfg       Config
	locations LocationResolver
	reader    WindowReader
	aligner   Aligner
	model     EnergyModel
	cache     Cache
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option customises the service.
type Option func(*service)

// WithEnergyModel swaps the energy model used for the summary.
func WithEnergyModel(m EnergyModel) Option {
	return func(s *service) { s.model = m.withDefaults() }
}

// WithCache enables response caching. A zero ttl in Config disables it.
func WithCache(c Cache) Option {
	return func(s *service) { s.cache = c }
}

// NewService wires the forecast assembler.
func NewService(cfg Config, locations LocationResolver, reader WindowReader, m *metrics.Metrics, logger *slog.Logger, opts ...Option) Service {
	cfg = cfg.withDefaults()
	s := &service{
		cfg:       cfg,
		locations: locations,
		reader:    reader,
		aligner:   NewAligner(cfg.Tolerance, cfg.DefaultTolerance),
		model:     DefaultEnergyModel(),
		metrics:   m,
		logger:    logger.With("component", "forecast.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compose resolves the location, reads both raw streams and runs them through
// alignment, composition and reduction.
func (s *service) Compose(ctx context.Context, req Request) (resp Response, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveForecast(outcome(err), time.Since(started))
	}()

	start, end, err := s.window(req.Start, req.End)
	if err != nil {
		return Response{}, err
	}
	loc, err := s.locations.Get(ctx, req.LocationID)
	if err != nil {
		return Response{}, err
	}

	key := cacheKey(loc.ID, start, end)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	src := Source{LocationID: loc.ID, SourceID: loc.SourceID(), Surf: loc.IsSpot()}
	raw, err := s.reader.ReadWindow(ctx, src, start, end)
	if err != nil {
		return Response{}, err
	}

	resp = s.assemble(loc, raw, start, end)
	s.store(ctx, key, resp)
	return resp, nil
}

func (s *service) assemble(loc location.Location, raw RawWindow, start, end time.Time) Response {
	spot := SpotProfile{Surf: loc.IsSpot(), Orientation: loc.Orientation}
	days := ComposeDays(s.aligner.Align(raw, start, end), spot)

	resp := Response{
		ID:   strconv.FormatInt(loc.ID, 10),
		Date: start.Format(util.DateLayout),
		Type: TypeOceanic,
		Name: loc.Name,
		Forecast: Body{
			Summary: Reduce(days, s.model),
			Days:    days,
		},
	}
	if spot.Surf {
		resp.Type = TypeSurf
	}
	if loc.Orientation != nil {
		resp.Orientation = *loc.Orientation
	}
	if loc.MapName != "" && s.cfg.MapBaseURL != "" {
		resp.Forecast.ForecastMapURL = s.cfg.MapBaseURL + loc.MapName + loc.MapUpdatedAt + ".png"
	}
	return resp
}

// window applies the defaults and bounds to a requested date range.
func (s *service) window(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() {
		start = util.TodayUTC()
	}
	start = util.StartOfDay(start)
	if end.IsZero() {
		end = start.AddDate(0, 0, s.cfg.DefaultDays)
	}
	end = util.StartOfDay(end)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "end must not be before start", nil)
	}
	if days := int(end.Sub(start)/(24*time.Hour)) + 1; days > s.cfg.MaxDays {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("window spans %d days, at most %d allowed", days, s.cfg.MaxDays), nil)
	}
	return start, end, nil
}

func (s *service) lookup(ctx context.Context, key string) (Response, bool) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return Response{}, false
	}
	resp, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.ObserveCache("error")
		s.logger.Warn("forecast cache read failed", "key", key, "error", err)
		return Response{}, false
	case ok:
		s.metrics.ObserveCache("hit")
		return resp, true
	default:
		s.metrics.ObserveCache("miss")
		return Response{}, false
	}
}

func (s *service) store(ctx context.Context, key string, resp Response) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("forecast cache write failed", "key", key, "error", err)
	}
}

func (s *service) Mock(_ context.Context) (Response, error) {
	return MockResponse(s.model), nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return apperrors.CodeInternal
}
