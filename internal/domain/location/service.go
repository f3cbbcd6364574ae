package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
	"github.com/yanqian/surf-forecast/pkg/metrics"
)

// Service answers location queries against the current index snapshot.
type Service interface {
	Tree(ctx context.Context) ([]TreeNode, error)
	Nearest(ctx context.Context, q NearestQuery) ([]Match, error)
	Search(ctx context.Context, query string) ([]Location, error)
	Get(ctx context.Context, id int64) (Location, error)
	ResolvePath(ctx context.Context, segments []string) (Location, error)
	ResolveName(ctx context.Context, name string) (Location, error)
	Refresh(ctx context.Context, trigger string) error
	CheckReadiness(ctx context.Context) error
}

type service struct {
	repo    Repository
	index   atomic.Pointer[Index]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService wires the location domain. The index is empty until the first Refresh.
func NewService(repo Repository, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		metrics: m,
		logger:  logger.With("component", "location.service"),
	}
}

// Refresh rebuilds the index from the repository and swaps it in atomically.
// In-flight readers keep the snapshot they started with.
func (s *service) Refresh(ctx context.Context, trigger string) error {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.metrics.ObserveIndexRefresh(trigger, 0, err)
		return apperrors.Wrap(apperrors.CodeLocationError, "failed to load locations", err)
	}
	idx := NewIndex(records)
	for _, r := range idx.Rejected() {
		s.logger.Warn("location rejected from index", "id", r.ID, "reason", r.Reason)
	}
	s.index.Store(idx)
	s.metrics.ObserveIndexRefresh(trigger, idx.Size(), nil)
	s.logger.Info("location index refreshed", "trigger", trigger, "locations", idx.Size(), "rejected", len(idx.Rejected()))
	return nil
}

func (s *service) current() (*Index, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, apperrors.Wrap(apperrors.CodeLocationError, "location index not loaded", nil)
	}
	return idx, nil
}

func (s *service) CheckReadiness(_ context.Context) error {
	_, err := s.current()
	return err
}

func (s *service) Tree(_ context.Context) ([]TreeNode, error) {
	idx, err := s.current()
	if err != nil {
		return nil, err
	}
	return idx.Tree(), nil
}

func (s *service) Nearest(_ context.Context, q NearestQuery) ([]Match, error) {
	idx, err := s.current()
	if err != nil {
		return nil, err
	}
	return idx.FindNearest(q)
}

func (s *service) Search(_ context.Context, query string) ([]Location, error) {
	idx, err := s.current()
	if err != nil {
		return nil, err
	}
	return idx.SearchByName(query)
}

func (s *service) Get(_ context.Context, id int64) (Location, error) {
	idx, err := s.current()
	if err != nil {
		return Location{}, err
	}
	loc, ok := idx.Lookup(id)
	if !ok {
		return Location{}, apperrors.Wrap(apperrors.CodeLocationNotFound, fmt.Sprintf("location %d not found", id), nil)
	}
	return loc, nil
}

func (s *service) ResolvePath(_ context.Context, segments []string) (Location, error) {
	idx, err := s.current()
	if err != nil {
		return Location{}, err
	}
	return idx.ResolvePath(segments)
}

func (s *service) ResolveName(_ context.Context, name string) (Location, error) {
	idx, err := s.current()
	if err != nil {
		return Location{}, err
	}
	return idx.BestMatch(name)
}
