package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// ExpiredTokenPruner deletes blacklist rows whose token has expired.
type ExpiredTokenPruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// FlushExpiredTokensJob keeps the Postgres token blacklist from growing
// without bound. The Redis blacklist expires keys on its own.
func FlushExpiredTokensJob(store ExpiredTokenPruner, interval time.Duration) Job {
	return Job{
		Name:     "flush_expired_tokens",
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("flushed expired blacklisted tokens")
			}
			return nil
		},
	}
}
