// Package health runs named dependency checks in parallel and aggregates
// their status.
//
// Checks share the func(context.Context) error signature, so closures such as
// storage.Healthcheck plug in directly:
//
//	resp := health.Run(ctx, health.Checks{
//		"r2": storage.Healthcheck(store),
//	}, health.WithTimeout(3*time.Second))
//	if !resp.Healthy() {
//		return resp.Err()
//	}
//
// All checks run under one timeout (default 5s). A check that returns nil
// after the deadline passed is still reported as [ErrCheckTimeout].
package health
