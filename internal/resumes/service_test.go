package resumes

import (
	"context"
	"errors"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func sampleInput() CreateInput {
	end := NewDate(2022, time.June, 30)
	return CreateInput{
		Title:   "Backend Engineer",
		Summary: "Go and Postgres",
		Experiences: []ExperienceInput{{
			Title:     "Engineer",
			Company:   "Acme",
			StartDate: NewDate(2020, time.January, 1),
			EndDate:   &end,
		}},
		Education: []EducationInput{{
			Institution: "State University",
			Degree:      "BSc",
			StartDate:   NewDate(2015, time.September, 1),
		}},
		Skills: []SkillInput{{Name: "Go", Proficiency: "expert"}, {Name: "SQL"}},
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	res, err := svc.Create(ctx, 7, sampleInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.UserID != 7 || len(res.Experiences) != 1 || len(res.Education) != 1 || len(res.Skills) != 2 {
		t.Fatalf("unexpected resume %+v", res)
	}

	got, err := svc.Get(ctx, 7, res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Backend Engineer" {
		t.Fatalf("expected title, got %q", got.Title)
	}

	if _, err := svc.Get(ctx, 8, res.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, 7, res.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRejectsBadDates(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	in := sampleInput()
	in.Experiences[0].StartDate = Date{}
	_, err := svc.Create(context.Background(), 1, in)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "experiences[0].start_date" {
		t.Fatalf("expected start_date field error, got %v", err)
	}

	in = sampleInput()
	before := NewDate(2014, time.January, 1)
	in.Education[0].EndDate = &before
	_, err = svc.Create(context.Background(), 1, in)
	if !errors.As(err, &fieldErr) || fieldErr.Field != "education[0].end_date" {
		t.Fatalf("expected end_date field error, got %v", err)
	}
}

func TestServiceUpdateMergesChildren(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	res, err := svc.Create(ctx, 1, sampleInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	expID := res.Experiences[0].ID

	updated, err := svc.Update(ctx, 1, res.ID, UpdateInput{
		Title: ptr("Staff Engineer"),
		Experiences: []ExperienceInput{
			{ID: &expID, Title: "Senior Engineer", Company: "Acme", StartDate: NewDate(2020, time.January, 1)},
			{Title: "Lead", Company: "Initech", StartDate: NewDate(2023, time.January, 1)},
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Staff Engineer" || updated.Summary != "Go and Postgres" {
		t.Fatalf("unexpected header fields %+v", updated)
	}
	if len(updated.Experiences) != 2 || updated.Experiences[0].Title != "Senior Engineer" {
		t.Fatalf("unexpected experiences %+v", updated.Experiences)
	}
	if len(updated.Education) != 1 {
		t.Fatalf("expected education to be kept, got %+v", updated.Education)
	}
	if len(updated.Skills) != 2 {
		t.Fatalf("expected skills untouched when omitted, got %+v", updated.Skills)
	}

	updated, err = svc.Update(ctx, 1, res.ID, UpdateInput{Skills: []SkillInput{{Name: "Rust"}}})
	if err != nil {
		t.Fatalf("Update skills: %v", err)
	}
	if len(updated.Skills) != 1 || updated.Skills[0].Name != "Rust" {
		t.Fatalf("expected skills replaced, got %+v", updated.Skills)
	}
}

func TestServiceUpdateRejectsForeignChildID(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	first, _ := svc.Create(ctx, 1, sampleInput())
	second, _ := svc.Create(ctx, 1, sampleInput())

	foreign := second.Experiences[0].ID
	_, err := svc.Update(ctx, 1, first.ID, UpdateInput{
		Experiences: []ExperienceInput{{ID: &foreign, Title: "x", Company: "y", StartDate: NewDate(2020, time.January, 1)}},
	})
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "experiences[0].id" {
		t.Fatalf("expected experiences[0].id field error, got %v", err)
	}
}

func TestSkillsAreSharedAndKeepFirstProficiency(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	first, _ := svc.Create(ctx, 1, CreateInput{Title: "a", Skills: []SkillInput{{Name: "Go", Proficiency: "expert"}}})
	second, _ := svc.Create(ctx, 2, CreateInput{Title: "b", Skills: []SkillInput{{Name: "Go", Proficiency: "beginner"}}})

	if first.Skills[0].ID != second.Skills[0].ID {
		t.Fatalf("expected shared skill row")
	}
	if second.Skills[0].Proficiency != "expert" {
		t.Fatalf("expected proficiency from first creation, got %q", second.Skills[0].Proficiency)
	}

	if err := svc.Delete(ctx, 1, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := svc.Get(ctx, 2, second.ID)
	if err != nil || len(got.Skills) != 1 {
		t.Fatalf("expected skill to survive delete, got %+v err=%v", got.Skills, err)
	}
}

func TestServiceDeleteChecksOwnership(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	res, _ := svc.Create(ctx, 1, sampleInput())

	if err := svc.Delete(ctx, 2, res.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	list, _ := svc.List(ctx, 1)
	if len(list) != 1 {
		t.Fatalf("expected resume to remain, got %d", len(list))
	}
}
