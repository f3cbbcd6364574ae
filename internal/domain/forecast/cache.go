package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/yanqian/surf-forecast/pkg/util"
)

// Cache stores composed responses. Implementations live in infra.
type Cache interface {
	Get(ctx context.Context, key string) (Response, bool, error)
	Set(ctx context.Context, key string, resp Response, ttl time.Duration) error
}

func cacheKey(locationID int64, start, end time.Time) string {
	return fmt.Sprintf("%d:%s:%s", locationID, start.Format(util.DateLayout), end.Format(util.DateLayout))
}
