package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v5"

	models "shop-backend/model"
)

// mutateProduct runs fn through the store's version-checked mutation and
// retries lost races with exponential backoff. Errors other than
// models.ErrConflict stop the loop at once; once the attempts are used up the
// conflict is reported to the caller.
func (s *Service) mutateProduct(ctx context.Context, op string, id int64, fn func(*models.Product) error) (models.Product, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retry.InitialInterval
	b.MaxInterval = s.retry.MaxInterval

	attempts := 0
	p, err := backoff.Retry(ctx, func() (models.Product, error) {
		attempts++
		p, err := s.store.MutateProduct(ctx, id, fn)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return models.Product{}, backoff.Permanent(err)
		}
		s.log.Debug().Str("op", op).Int64("product_id", id).Int("attempt", attempts).Msg("product write conflict, retrying")
		return models.Product{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(s.retry.MaxAttempts)))
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.log.Warn().Str("op", op).Int64("product_id", id).Int("attempts", attempts).Msg("giving up on contended product")
			return models.Product{}, fmt.Errorf("%s: %d attempts: %w", op, attempts, err)
		}
		return models.Product{}, err
	}

	if s.cache != nil {
		if cerr := s.cache.Invalidate(ctx); cerr != nil {
			s.log.Warn().Err(cerr).Msg("top-rated cache invalidation failed")
		}
	}
	return p, nil
}
