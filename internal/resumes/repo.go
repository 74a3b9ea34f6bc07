package resumes

import "context"

// Repo persists resume aggregates. Implementations load the full aggregate
// (experiences, education, skills) on every read.
type Repo interface {
	Create(ctx context.Context, userID int64, in CreateInput) (Resume, error)
	Get(ctx context.Context, id int64) (Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]Resume, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Resume, error)
	Delete(ctx context.Context, id int64) error
}
