package service

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-catalog-cache/repository"
)

// IDFilter is the slice of the repository contract a uniqueness check needs.
type IDFilter interface {
	GetIDByFilter(ctx context.Context, filters map[string]any) (uuid.UUID, bool, error)
}

// UniquenessChecker verifies that no record already holds a value for one
// unique field, so a create can be rejected with a domain-specific conflict
// instead of a raw constraint violation. Attach one checker per unique field.
type UniquenessChecker struct {
	repo   IDFilter
	entity string
	field  string
}

// NewUniquenessChecker creates a checker for one entity field.
func NewUniquenessChecker(repo IDFilter, entity, field string) *UniquenessChecker {
	return &UniquenessChecker{repo: repo, entity: entity, field: field}
}

// Check fails with *repository.ConflictError when a record other than the
// ignored ids already holds value for the checked field. Passing the record's
// own id lets updates keep their current value.
func (c *UniquenessChecker) Check(ctx context.Context, value any, ignore ...uuid.UUID) error {
	id, found, err := c.repo.GetIDByFilter(ctx, map[string]any{c.field: value})
	if err != nil {
		return err
	}
	if found && !slices.Contains(ignore, id) {
		return &repository.ConflictError{Entity: c.entity, Field: c.field, Value: value}
	}
	return nil
}
