package service

import (
	"context"
	"fmt"
	"time"

	"github.com/northsea/kiteschool/internal/access"
	"github.com/northsea/kiteschool/internal/model"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func validClock(s string) bool {
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// resolveActor loads the acting user. A missing or unresolvable actor is an
// authorization failure, not a lookup failure.
func resolveActor(ctx context.Context, users UserStore, actorID string) (*model.User, error) {
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	if actor == nil {
		return nil, &model.ForbiddenError{Reason: "unknown acting user"}
	}
	return actor, nil
}

// authorize evaluates the permission table for one operation.
func authorize(actor *model.User, op access.Operation, rel access.Relation) error {
	if !access.Allowed(actor.Role, op, rel) {
		return &model.ForbiddenError{}
	}
	return nil
}
