package storage

import (
	"context"
	"errors"
)

// Healthcheck returns a closure that validates bucket access for health endpoints.
// Compatible with health.CheckFunc and other func(context.Context) error signatures.
func Healthcheck(s *R2Storage) func(context.Context) error {
	return func(ctx context.Context) error {
		if s == nil {
			return ErrHealthcheckFailed
		}
		if err := s.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
