package templates

import "context"

// System defines the public contract for template domain operations.
type System interface {
	Handler() *Handler

	// List returns every template, system partition first, then user,
	// each in partition enumeration order. Missing partitions are empty.
	List(ctx context.Context) ([]Template, error)

	// Find resolves a template by id across both partitions.
	// Returns ErrNotFound when the id is absent; callers treat this as
	// an ordinary result, not a failure.
	Find(ctx context.Context, id string) (*Template, error)

	// Create persists a new user template, assigning an id when the
	// caller supplies none and filling defaults for missing fields.
	// Returns ErrDuplicate when a supplied id already exists.
	Create(ctx context.Context, cmd CreateCommand) (*Template, error)

	// Update merges partial fields over an existing user template.
	// Returns ErrForbidden for system ids, ErrNotFound for unknown ids,
	// and ErrConflict when the command's expected version is stale.
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Template, error)

	// Delete removes a user template. Returns ErrForbidden for system
	// ids and ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}
