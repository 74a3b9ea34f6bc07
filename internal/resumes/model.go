package resumes

import "time"

// Resume is the aggregate root: a user's resume with its experiences,
// education and skills.
type Resume struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
	Skills      []Skill      `json:"skills"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Experience struct {
	ID          int64  `json:"id"`
	ResumeID    int64  `json:"resume_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   Date   `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Description string `json:"description"`
}

type Education struct {
	ID           int64  `json:"id"`
	ResumeID     int64  `json:"resume_id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    Date   `json:"start_date"`
	EndDate      *Date  `json:"end_date"`
	Grade        string `json:"grade"`
	Description  string `json:"description"`
}

// Skill rows are shared between resumes and deduplicated by name.
type Skill struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// ExperienceInput creates an experience, or updates one in place when ID is set.
type ExperienceInput struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	StartDate   Date   `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Description string `json:"description"`
}

// EducationInput creates an education entry, or updates one in place when ID is set.
type EducationInput struct {
	ID           *int64 `json:"id"`
	Institution  string `json:"institution" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    Date   `json:"start_date"`
	EndDate      *Date  `json:"end_date"`
	Grade        string `json:"grade"`
	Description  string `json:"description"`
}

type SkillInput struct {
	Name        string `json:"name" binding:"required"`
	Proficiency string `json:"proficiency"`
}

// CreateInput is the payload for a new resume.
type CreateInput struct {
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	Experiences []ExperienceInput `json:"experiences" binding:"dive"`
	Education   []EducationInput  `json:"education" binding:"dive"`
	Skills      []SkillInput      `json:"skills" binding:"dive"`
}

// UpdateInput is a partial update. Nil fields are left untouched. A non-nil
// Skills slice replaces the resume's skill set.
type UpdateInput struct {
	Title       *string           `json:"title"`
	Summary     *string           `json:"summary"`
	Experiences []ExperienceInput `json:"experiences" binding:"dive"`
	Education   []EducationInput  `json:"education" binding:"dive"`
	Skills      []SkillInput      `json:"skills" binding:"dive"`
}
