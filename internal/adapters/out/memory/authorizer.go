package memory

import (
	"context"
	"fmt"
	"strings"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// StaticAuthorizer resolves bearer tokens from a fixed table. It backs local runs and tests.
type StaticAuthorizer struct {
	actors map[string]actor.Actor
}

var _ ports.Authorizer = (*StaticAuthorizer)(nil)

func NewStaticAuthorizer(actors map[string]actor.Actor) *StaticAuthorizer {
	table := make(map[string]actor.Actor, len(actors))
	for token, a := range actors {
		table[token] = a
	}
	return &StaticAuthorizer{actors: table}
}

// ParseStaticTokens reads "token:role:actorID" entries separated by commas.
func ParseStaticTokens(spec string) (*StaticAuthorizer, error) {
	actors, err := ParseTokenTable(spec)
	if err != nil {
		return nil, err
	}
	return NewStaticAuthorizer(actors), nil
}

// ParseTokenTable parses the AUTH_STATIC_TOKENS format into bearer token to actor pairs. The
// postgres authorizer is seeded from the same table.
func ParseTokenTable(spec string) (map[string]actor.Actor, error) {
	actors := make(map[string]actor.Actor)
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return nil, errs.NewValueIsInvalidErrorWithCause("AUTH_STATIC_TOKENS", fmt.Errorf("entry %q is not token:role:actorID", raw))
		}
		role, err := actor.ParseRole(parts[1])
		if err != nil {
			return nil, err
		}
		a, err := actor.NewActor(parts[2], role)
		if err != nil {
			return nil, err
		}
		actors[parts[0]] = a
	}
	return actors, nil
}

func (s *StaticAuthorizer) Validate(_ context.Context, bearerToken string) (actor.Actor, error) {
	a, ok := s.actors[bearerToken]
	if !ok || bearerToken == "" {
		return actor.Actor{}, ports.ErrUnauthenticated
	}
	return a, nil
}
