package jobapplications

import "context"

type Repo interface {
	Create(ctx context.Context, job JobApplication) (JobApplication, error)
	Get(ctx context.Context, id int64) (JobApplication, error)
	ListByUser(ctx context.Context, userID int64) ([]JobApplication, error)
	Update(ctx context.Context, job JobApplication) (JobApplication, error)
	Delete(ctx context.Context, id int64) error
}
