package location

import "context"

// Repository is the read-only source of location records.
type Repository interface {
	ListAll(ctx context.Context) ([]Location, error)
}
