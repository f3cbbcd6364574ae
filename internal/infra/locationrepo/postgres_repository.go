package locationrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/surf-forecast/internal/domain/location"
)

// PostgresRepository implements location.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListAll returns every location ordered by id.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]location.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var out []location.Location
	for rows.Next() {
		rec, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
