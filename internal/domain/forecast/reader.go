package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
	"github.com/yanqian/surf-forecast/pkg/metrics"
)

// SourceKind names one raw stream.
type SourceKind string

const (
	SourceAtmospheric SourceKind = "atmospheric"
	SourceOceanic     SourceKind = "oceanic"
)

// BlobRepository is key-based access to raw forecast files.
// Missing keys must be reported with ErrBlobNotFound.
type BlobRepository interface {
	ReadBlob(ctx context.Context, key string) ([]byte, error)
}

// Source identifies whose raw files to read.
type Source struct {
	LocationID int64
	SourceID   int64
	Surf       bool
}

// windowMargin keeps samples just outside the window so edge hours can still match.
const windowMargin = 24 * time.Hour

// Reader fetches both raw streams concurrently and decodes them.
type Reader struct {
	blobs        BlobRepository
	keys         KeyLayout
	fetchTimeout time.Duration
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewReader constructs a Reader. A zero fetchTimeout relies on the caller's deadline only.
func NewReader(blobs BlobRepository, keys KeyLayout, fetchTimeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Reader {
	return &Reader{
		blobs:        blobs,
		keys:         keys,
		fetchTimeout: fetchTimeout,
		metrics:      m,
		logger:       logger.With("component", "forecast.reader"),
	}
}

// Keys returns the blob keys read for src.
func (r *Reader) Keys(src Source) (atmospheric, oceanic string) {
	oceanPattern := r.keys.Oceanic
	if src.Surf {
		oceanPattern = r.keys.Beach
	}
	return fmt.Sprintf(r.keys.Atmospheric, src.SourceID), fmt.Sprintf(oceanPattern, src.SourceID)
}

// ReadWindow returns both streams sorted by time and covering [start, end]
// where data exists. It fails with data_unavailable when neither stream has
// any usable sample, or when a fetch fails or outlives the shared deadline.
func (r *Reader) ReadWindow(ctx context.Context, src Source, start, end time.Time) (RawWindow, error) {
	if r.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
	}
	atmosKey, oceanKey := r.Keys(src)

	var atmosData, oceanData []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := r.fetch(gctx, SourceAtmospheric, atmosKey)
		atmosData = data
		return err
	})
	g.Go(func() error {
		data, err := r.fetch(gctx, SourceOceanic, oceanKey)
		oceanData = data
		return err
	})
	if err := g.Wait(); err != nil {
		return RawWindow{}, apperrors.Wrap(apperrors.CodeDataUnavailable, fmt.Sprintf("raw data fetch failed for location %d", src.LocationID), err)
	}
	if atmosData == nil && oceanData == nil {
		return RawWindow{}, apperrors.Wrap(apperrors.CodeDataUnavailable, fmt.Sprintf("no raw data for location %d", src.LocationID), nil)
	}

	w := RawWindow{Tides: map[string][]Tide{}}
	if atmosData != nil {
		records, skipped, err := parseAtmospheric(src.LocationID, atmosData)
		if err != nil {
			r.logger.Warn("atmospheric blob unreadable", "location_id", src.LocationID, "key", atmosKey, "error", err)
		}
		r.reportSkipped(SourceAtmospheric, src.LocationID, skipped)
		w.Atmospheric = records
	}
	if oceanData != nil {
		records, tides, skipped, err := parseOceanic(src.LocationID, oceanData)
		if err != nil {
			r.logger.Warn("oceanic blob unreadable", "location_id", src.LocationID, "key", oceanKey, "error", err)
		}
		r.reportSkipped(SourceOceanic, src.LocationID, skipped)
		w.Oceanic = records
		if tides != nil {
			w.Tides = tides
		}
	}
	if len(w.Atmospheric) == 0 && len(w.Oceanic) == 0 {
		return RawWindow{}, apperrors.Wrap(apperrors.CodeDataUnavailable, fmt.Sprintf("raw data for location %d has no usable samples", src.LocationID), nil)
	}

	from, to := start.Add(-windowMargin), end.Add(24*time.Hour+windowMargin)
	w.Atmospheric = trimAtmospheric(w.Atmospheric, from, to)
	w.Oceanic = trimOceanic(w.Oceanic, from, to)
	return w, nil
}

type blobResult struct {
	data []byte
	err  error
}

// fetch returns nil data for a missing blob. The select keeps the deadline
// binding even if the repository ignores ctx.
func (r *Reader) fetch(ctx context.Context, kind SourceKind, key string) ([]byte, error) {
	started := time.Now()
	ch := make(chan blobResult, 1)
	go func() {
		data, err := r.blobs.ReadBlob(ctx, key)
		ch <- blobResult{data: data, err: err}
	}()

	var res blobResult
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-ch:
	}

	switch {
	case res.err == nil:
		r.metrics.ObserveBlobFetch(string(kind), "ok", time.Since(started))
		if res.data == nil {
			res.data = []byte{}
		}
		return res.data, nil
	case errors.Is(res.err, ErrBlobNotFound):
		r.metrics.ObserveBlobFetch(string(kind), "not_found", time.Since(started))
		r.logger.Debug("raw blob missing", "kind", kind, "key", key)
		return nil, nil
	default:
		r.metrics.ObserveBlobFetch(string(kind), "error", time.Since(started))
		return nil, fmt.Errorf("read %s blob %q: %w", kind, key, res.err)
	}
}

func (r *Reader) reportSkipped(kind SourceKind, locationID int64, skipped int) {
	if skipped == 0 {
		return
	}
	r.metrics.AddSkippedSamples(string(kind), skipped)
	r.logger.Warn("raw samples skipped", "kind", kind, "location_id", locationID, "count", skipped)
}

func trimAtmospheric(records []RawAtmosphericRecord, from, to time.Time) []RawAtmosphericRecord {
	out := make([]RawAtmosphericRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Timestamp.Before(from) && rec.Timestamp.Before(to) {
			out = append(out, rec)
		}
	}
	return out
}

func trimOceanic(records []RawOceanicRecord, from, to time.Time) []RawOceanicRecord {
	out := make([]RawOceanicRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Timestamp.Before(from) && rec.Timestamp.Before(to) {
			out = append(out, rec)
		}
	}
	return out
}
