package submissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/pagination"
)

// System defines the submission store and dashboard operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Submission], error)

	Export(ctx context.Context, filters Filters) ([]Submission, error)
	Find(ctx context.Context, id uuid.UUID) (*Submission, error)
	Create(ctx context.Context, cmd CreateCommand) (*Submission, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) (*Submission, error)
	Trash(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}
