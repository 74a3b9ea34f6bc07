package jobapplications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"resume-tracker/internal/resumes"
)

// MemoryRepo keeps job applications in process. Resume ownership and the
// delete cascade are resolved through the resumes repo, mirroring the
// foreign key in Postgres.
type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	jobs    map[int64]JobApplication
	resumes resumes.Repo
	now     func() time.Time
}

func NewMemoryRepo(resumeRepo resumes.Repo) *MemoryRepo {
	return &MemoryRepo{
		jobs:    make(map[int64]JobApplication),
		resumes: resumeRepo,
		now:     time.Now,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, job JobApplication) (JobApplication, error) {
	if err := ctx.Err(); err != nil {
		return JobApplication{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.now().UTC()
	job.ID = r.nextID
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (JobApplication, error) {
	if err := ctx.Err(); err != nil {
		return JobApplication{}, err
	}
	r.mu.RLock()
	job, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return JobApplication{}, ErrNotFound
	}
	if _, err := r.owner(ctx, job.ResumeID); err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			return JobApplication{}, ErrNotFound
		}
		return JobApplication{}, err
	}
	return job, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]JobApplication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]JobApplication, 0, len(r.jobs))
	for _, job := range r.jobs {
		all = append(all, job)
	}
	r.mu.RUnlock()

	out := make([]JobApplication, 0)
	for _, job := range all {
		owner, err := r.owner(ctx, job.ResumeID)
		if errors.Is(err, resumes.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if owner == userID {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, job JobApplication) (JobApplication, error) {
	if err := ctx.Err(); err != nil {
		return JobApplication{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok {
		return JobApplication{}, ErrNotFound
	}
	job.CreatedAt = existing.CreatedAt
	job.UpdatedAt = r.now().UTC()
	r.jobs[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *MemoryRepo) owner(ctx context.Context, resumeID int64) (int64, error) {
	if r.resumes == nil {
		return 0, resumes.ErrNotFound
	}
	res, err := r.resumes.Get(ctx, resumeID)
	if err != nil {
		return 0, err
	}
	return res.UserID, nil
}
