package gateway

import (
	"context"
	"errors"

	"pdv_desk/internal/remote"
	"pdv_desk/pkg/utils"
)

// Outcome tells the caller where an operation landed.
type Outcome string

const (
	// CommittedRemote means the Remote Store served the operation.
	CommittedRemote Outcome = "committed_remote"
	// CommittedLocalOnly means only the Local Store has it; the server never saw it.
	CommittedLocalOnly Outcome = "committed_local_only"
	// Failed means neither store completed the operation.
	Failed Outcome = "failed"
)

func fallbackReason(err error) string {
	var se *remote.StatusError
	switch {
	case err == nil:
		return "no session token"
	case errors.Is(err, remote.ErrCircuitOpen):
		return "circuit open"
	case errors.As(err, &se):
		return se.Error()
	default:
		return "server unreachable: " + err.Error()
	}
}

// run tries remoteFn when a token is held, then falls back to localFn. No retries.
func run[T any](ctx context.Context, g *Gateway, op string,
	remoteFn func(ctx context.Context, token string) (T, error),
	localFn func(ctx context.Context) (T, error),
) (T, Outcome, error) {
	token := g.Token()
	var remoteErr error
	if token != "" && remoteFn != nil {
		v, err := remoteFn(ctx, token)
		if err == nil {
			return v, CommittedRemote, nil
		}
		remoteErr = err
	}

	utils.LogWarn(remoteErr, "Falling back to local store", map[string]interface{}{
		"op":     op,
		"reason": fallbackReason(remoteErr),
	})

	v, err := localFn(ctx)
	if err != nil {
		return v, Failed, err
	}
	return v, CommittedLocalOnly, nil
}

// do is run for operations without a value.
func do(ctx context.Context, g *Gateway, op string,
	remoteFn func(ctx context.Context, token string) error,
	localFn func(ctx context.Context) error,
) (Outcome, error) {
	_, outcome, err := run(ctx, g, op,
		func(ctx context.Context, token string) (struct{}, error) { return struct{}{}, remoteFn(ctx, token) },
		func(ctx context.Context) (struct{}, error) { return struct{}{}, localFn(ctx) },
	)
	return outcome, err
}
