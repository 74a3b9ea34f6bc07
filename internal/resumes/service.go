package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

var errNotConfigured = errors.New("resumes service not configured")

func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (Resume, error) {
	if s == nil || s.Repo == nil {
		return Resume{}, errNotConfigured
	}
	if err := validateEntries(in.Experiences, in.Education, in.Skills); err != nil {
		return Resume{}, err
	}
	return s.Repo.Create(ctx, userID, in)
}

// Get loads a resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, id int64) (Resume, error) {
	if s == nil || s.Repo == nil {
		return Resume{}, errNotConfigured
	}
	res, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if res.UserID != userID {
		return Resume{}, ErrForbidden
	}
	return res, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]Resume, error) {
	if s == nil || s.Repo == nil {
		return nil, errNotConfigured
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies a partial update. Entries carrying an id must already
// belong to this resume.
func (s *Service) Update(ctx context.Context, userID, id int64, in UpdateInput) (Resume, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	if err := validateEntries(in.Experiences, in.Education, in.Skills); err != nil {
		return Resume{}, err
	}
	for i, e := range in.Experiences {
		if e.ID != nil && indexOfExperience(existing.Experiences, *e.ID) < 0 {
			return Resume{}, &FieldError{Field: fmt.Sprintf("experiences[%d].id", i), Issue: "does not belong to this resume"}
		}
	}
	for i, e := range in.Education {
		if e.ID != nil && indexOfEducation(existing.Education, *e.ID) < 0 {
			return Resume{}, &FieldError{Field: fmt.Sprintf("education[%d].id", i), Issue: "does not belong to this resume"}
		}
	}
	return s.Repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func validateEntries(experiences []ExperienceInput, education []EducationInput, skills []SkillInput) error {
	for i, e := range experiences {
		field := fmt.Sprintf("experiences[%d]", i)
		if err := validateRange(field, e.StartDate, e.EndDate); err != nil {
			return err
		}
	}
	for i, e := range education {
		field := fmt.Sprintf("education[%d]", i)
		if err := validateRange(field, e.StartDate, e.EndDate); err != nil {
			return err
		}
	}
	for i, sk := range skills {
		if strings.TrimSpace(sk.Name) == "" {
			return &FieldError{Field: fmt.Sprintf("skills[%d].name", i), Issue: "required"}
		}
	}
	return nil
}

func validateRange(field string, start Date, end *Date) error {
	if start.IsZero() {
		return &FieldError{Field: field + ".start_date", Issue: "required"}
	}
	if end != nil && !end.IsZero() && end.Before(start) {
		return &FieldError{Field: field + ".end_date", Issue: "must be on or after start_date"}
	}
	return nil
}
