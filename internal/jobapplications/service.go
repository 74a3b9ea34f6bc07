package jobapplications

import (
	"context"
	"errors"

	"resume-tracker/internal/resumes"
)

// ResumeReader resolves a resume on behalf of a user. *resumes.Service
// satisfies it.
type ResumeReader interface {
	Get(ctx context.Context, userID, id int64) (resumes.Resume, error)
}

type Service struct {
	Repo    Repo
	Resumes ResumeReader
}

func NewService(repo Repo, resumeReader ResumeReader) *Service {
	return &Service{Repo: repo, Resumes: resumeReader}
}

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (JobApplication, error) {
	if err := s.checkResume(ctx, userID, in.ResumeID); err != nil {
		return JobApplication{}, err
	}
	return s.Repo.Create(ctx, in.toJobApplication())
}

// Get returns the job application if its resume belongs to userID.
func (s *Service) Get(ctx context.Context, userID, id int64) (JobApplication, error) {
	job, err := s.Repo.Get(ctx, id)
	if err != nil {
		return JobApplication{}, err
	}
	if _, err := s.Resumes.Get(ctx, userID, job.ResumeID); err != nil {
		switch {
		case errors.Is(err, resumes.ErrForbidden):
			return JobApplication{}, ErrForbidden
		case errors.Is(err, resumes.ErrNotFound):
			return JobApplication{}, ErrNotFound
		}
		return JobApplication{}, err
	}
	return job, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]JobApplication, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies a partial update. Moving the application to another
// resume requires owning that resume too.
func (s *Service) Update(ctx context.Context, userID, id int64, in UpdateInput) (JobApplication, error) {
	job, err := s.Get(ctx, userID, id)
	if err != nil {
		return JobApplication{}, err
	}
	if in.ResumeID != nil && *in.ResumeID != job.ResumeID {
		if err := s.checkResume(ctx, userID, *in.ResumeID); err != nil {
			return JobApplication{}, err
		}
	}
	in.apply(&job)
	return s.Repo.Update(ctx, job)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func (s *Service) checkResume(ctx context.Context, userID, resumeID int64) error {
	_, err := s.Resumes.Get(ctx, userID, resumeID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, resumes.ErrForbidden):
		return ErrResumeForbidden
	case errors.Is(err, resumes.ErrNotFound):
		return ErrResumeMissing
	default:
		return err
	}
}
