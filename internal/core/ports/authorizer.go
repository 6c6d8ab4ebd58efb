package ports

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/actor"
)

// ErrUnauthenticated is returned by Authorizer.Validate for missing, unknown or expired credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

type Authorizer interface {
	Validate(ctx context.Context, bearerToken string) (actor.Actor, error)
}
