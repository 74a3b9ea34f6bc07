package resumes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-process Repo used in development and tests.
type MemoryRepo struct {
	mu sync.RWMutex

	nextID      int64
	resumes     map[int64]Resume
	skillsByKey map[string]Skill
	now         func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes:     make(map[int64]Resume),
		skillsByKey: make(map[string]Skill),
		now:         time.Now,
	}
}

func (r *MemoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepo) Create(ctx context.Context, userID int64, in CreateInput) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	res := Resume{
		ID:          r.id(),
		UserID:      userID,
		Title:       in.Title,
		Summary:     in.Summary,
		Experiences: []Experience{},
		Education:   []Education{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, e := range in.Experiences {
		res.Experiences = append(res.Experiences, r.newExperience(res.ID, e))
	}
	for _, e := range in.Education {
		res.Education = append(res.Education, r.newEducation(res.ID, e))
	}
	res.Skills = r.attachSkills(in.Skills)
	r.resumes[res.ID] = res
	return cloneResume(res), nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return cloneResume(res), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resume, 0)
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, cloneResume(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, in UpdateInput) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	res = cloneResume(res)

	if in.Title != nil {
		res.Title = *in.Title
	}
	if in.Summary != nil {
		res.Summary = *in.Summary
	}
	for _, e := range in.Experiences {
		if e.ID == nil {
			res.Experiences = append(res.Experiences, r.newExperience(id, e))
			continue
		}
		idx := indexOfExperience(res.Experiences, *e.ID)
		if idx < 0 {
			return Resume{}, ErrNotFound
		}
		updated := experienceFromInput(id, e)
		updated.ID = *e.ID
		res.Experiences[idx] = updated
	}
	for _, e := range in.Education {
		if e.ID == nil {
			res.Education = append(res.Education, r.newEducation(id, e))
			continue
		}
		idx := indexOfEducation(res.Education, *e.ID)
		if idx < 0 {
			return Resume{}, ErrNotFound
		}
		updated := educationFromInput(id, e)
		updated.ID = *e.ID
		res.Education[idx] = updated
	}
	if in.Skills != nil {
		res.Skills = r.attachSkills(in.Skills)
	}
	res.UpdatedAt = r.now().UTC()
	r.resumes[id] = res
	return cloneResume(res), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[id]; !ok {
		return ErrNotFound
	}
	// Skills stay in skillsByKey: deleting a resume only detaches them.
	delete(r.resumes, id)
	return nil
}

func (r *MemoryRepo) newExperience(resumeID int64, in ExperienceInput) Experience {
	e := experienceFromInput(resumeID, in)
	e.ID = r.id()
	return e
}

func (r *MemoryRepo) newEducation(resumeID int64, in EducationInput) Education {
	e := educationFromInput(resumeID, in)
	e.ID = r.id()
	return e
}

// attachSkills resolves each input to a shared skill, creating it on first
// use. Proficiency is only recorded when the skill is created.
func (r *MemoryRepo) attachSkills(in []SkillInput) []Skill {
	out := make([]Skill, 0, len(in))
	seen := make(map[int64]struct{}, len(in))
	for _, s := range in {
		key := strings.TrimSpace(s.Name)
		skill, ok := r.skillsByKey[key]
		if !ok {
			skill = Skill{ID: r.id(), Name: key, Proficiency: s.Proficiency}
			r.skillsByKey[key] = skill
		}
		if _, dup := seen[skill.ID]; dup {
			continue
		}
		seen[skill.ID] = struct{}{}
		out = append(out, skill)
	}
	return out
}

func experienceFromInput(resumeID int64, in ExperienceInput) Experience {
	return Experience{
		ResumeID:    resumeID,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     cloneDate(in.EndDate),
		Description: in.Description,
	}
}

func educationFromInput(resumeID int64, in EducationInput) Education {
	return Education{
		ResumeID:     resumeID,
		Institution:  in.Institution,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		StartDate:    in.StartDate,
		EndDate:      cloneDate(in.EndDate),
		Grade:        in.Grade,
		Description:  in.Description,
	}
}

func indexOfExperience(list []Experience, id int64) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func indexOfEducation(list []Education, id int64) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneResume(r Resume) Resume {
	out := r
	out.Experiences = append([]Experience{}, r.Experiences...)
	out.Education = append([]Education{}, r.Education...)
	out.Skills = append([]Skill{}, r.Skills...)
	for i := range out.Experiences {
		out.Experiences[i].EndDate = cloneDate(out.Experiences[i].EndDate)
	}
	for i := range out.Education {
		out.Education[i].EndDate = cloneDate(out.Education[i].EndDate)
	}
	return out
}
