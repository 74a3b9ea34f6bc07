package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"resume-tracker/internal/shared/storage/db"
)

// PGRepo stores resumes in Postgres.
type PGRepo struct {
	DB *sql.DB
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *PGRepo) Create(ctx context.Context, userID int64, in CreateInput) (Resume, error) {
	var id int64
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const query = `
INSERT INTO resumes (user_id, title, summary, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
RETURNING id`
		if err := tx.QueryRowContext(ctx, query, userID, in.Title, in.Summary).Scan(&id); err != nil {
			return fmt.Errorf("insert resume: %w", err)
		}
		for _, e := range in.Experiences {
			if err := insertExperience(ctx, tx, id, e); err != nil {
				return err
			}
		}
		for _, e := range in.Education {
			if err := insertEducation(ctx, tx, id, e); err != nil {
				return err
			}
		}
		return attachSkills(ctx, tx, id, in.Skills)
	})
	if err != nil {
		return Resume{}, err
	}
	return r.Get(ctx, id)
}

func (r *PGRepo) Get(ctx context.Context, id int64) (Resume, error) {
	const query = `
SELECT id, user_id, title, summary, created_at, updated_at
FROM resumes
WHERE id = $1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if err := loadChildren(ctx, r.DB, &res); err != nil {
		return Resume{}, err
	}
	return res, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Resume, error) {
	const query = `
SELECT id, user_id, title, summary, created_at, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		if err := loadChildren(ctx, r.DB, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PGRepo) Update(ctx context.Context, id int64, in UpdateInput) (Resume, error) {
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const query = `
UPDATE resumes
SET title = COALESCE($2, title),
    summary = COALESCE($3, summary),
    updated_at = now()
WHERE id = $1`
		result, err := tx.ExecContext(ctx, query, id, nullableString(in.Title), nullableString(in.Summary))
		if err != nil {
			return fmt.Errorf("update resume: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}

		for _, e := range in.Experiences {
			if e.ID == nil {
				err = insertExperience(ctx, tx, id, e)
			} else {
				err = updateExperience(ctx, tx, id, e)
			}
			if err != nil {
				return err
			}
		}
		for _, e := range in.Education {
			if e.ID == nil {
				err = insertEducation(ctx, tx, id, e)
			} else {
				err = updateEducation(ctx, tx, id, e)
			}
			if err != nil {
				return err
			}
		}
		if in.Skills != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM resume_skills WHERE resume_id = $1`, id); err != nil {
				return fmt.Errorf("detach skills: %w", err)
			}
			return attachSkills(ctx, tx, id, in.Skills)
		}
		return nil
	})
	if err != nil {
		return Resume{}, err
	}
	return r.Get(ctx, id)
}

// Delete removes the resume. Experiences, education and skill links cascade;
// skill rows are shared and kept.
func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertExperience(ctx context.Context, q queryer, resumeID int64, e ExperienceInput) error {
	const query = `
INSERT INTO experiences (resume_id, title, company, location, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := q.ExecContext(ctx, query,
		resumeID, e.Title, e.Company, e.Location, e.StartDate.Time, nullableDate(e.EndDate), e.Description,
	); err != nil {
		return fmt.Errorf("insert experience: %w", err)
	}
	return nil
}

func updateExperience(ctx context.Context, q queryer, resumeID int64, e ExperienceInput) error {
	const query = `
UPDATE experiences
SET title = $3, company = $4, location = $5, start_date = $6, end_date = $7, description = $8, updated_at = now()
WHERE id = $1 AND resume_id = $2`
	result, err := q.ExecContext(ctx, query,
		*e.ID, resumeID, e.Title, e.Company, e.Location, e.StartDate.Time, nullableDate(e.EndDate), e.Description,
	)
	if err != nil {
		return fmt.Errorf("update experience: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertEducation(ctx context.Context, q queryer, resumeID int64, e EducationInput) error {
	const query = `
INSERT INTO education (resume_id, institution, degree, field_of_study, start_date, end_date, grade, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := q.ExecContext(ctx, query,
		resumeID, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate.Time, nullableDate(e.EndDate), e.Grade, e.Description,
	); err != nil {
		return fmt.Errorf("insert education: %w", err)
	}
	return nil
}

func updateEducation(ctx context.Context, q queryer, resumeID int64, e EducationInput) error {
	const query = `
UPDATE education
SET institution = $3, degree = $4, field_of_study = $5, start_date = $6, end_date = $7, grade = $8, description = $9, updated_at = now()
WHERE id = $1 AND resume_id = $2`
	result, err := q.ExecContext(ctx, query,
		*e.ID, resumeID, e.Institution, e.Degree, e.FieldOfStudy, e.StartDate.Time, nullableDate(e.EndDate), e.Grade, e.Description,
	)
	if err != nil {
		return fmt.Errorf("update education: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// attachSkills links each named skill, creating it first if no skill with
// that name exists yet.
func attachSkills(ctx context.Context, q queryer, resumeID int64, skills []SkillInput) error {
	const upsertSkill = `
WITH ins AS (
  INSERT INTO skills (name, proficiency) VALUES ($1, $2)
  ON CONFLICT (name) DO NOTHING
  RETURNING id
)
SELECT id FROM ins
UNION ALL
SELECT id FROM skills WHERE name = $1
LIMIT 1`
	const link = `
INSERT INTO resume_skills (resume_id, skill_id, position)
VALUES ($1, $2, $3)
ON CONFLICT (resume_id, skill_id) DO NOTHING`

	for i, s := range skills {
		var skillID int64
		if err := q.QueryRowContext(ctx, upsertSkill, strings.TrimSpace(s.Name), s.Proficiency).Scan(&skillID); err != nil {
			return fmt.Errorf("upsert skill %q: %w", s.Name, err)
		}
		if _, err := q.ExecContext(ctx, link, resumeID, skillID, i); err != nil {
			return fmt.Errorf("attach skill %q: %w", s.Name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	err := row.Scan(&res.ID, &res.UserID, &res.Title, &res.Summary, &res.CreatedAt, &res.UpdatedAt)
	return res, err
}

func loadChildren(ctx context.Context, q queryer, res *Resume) error {
	var err error
	if res.Experiences, err = loadExperiences(ctx, q, res.ID); err != nil {
		return err
	}
	if res.Education, err = loadEducation(ctx, q, res.ID); err != nil {
		return err
	}
	if res.Skills, err = loadSkills(ctx, q, res.ID); err != nil {
		return err
	}
	return nil
}

func loadExperiences(ctx context.Context, q queryer, resumeID int64) ([]Experience, error) {
	const query = `
SELECT id, resume_id, title, company, location, start_date, end_date, description
FROM experiences
WHERE resume_id = $1
ORDER BY id`
	rows, err := q.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("load experiences: %w", err)
	}
	defer rows.Close()

	out := make([]Experience, 0)
	for rows.Next() {
		var (
			e     Experience
			start sql.NullTime
			end   sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.Title, &e.Company, &e.Location, &start, &end, &e.Description); err != nil {
			return nil, err
		}
		e.StartDate = dateFromNull(start)
		e.EndDate = datePtrFromNull(end)
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadEducation(ctx context.Context, q queryer, resumeID int64) ([]Education, error) {
	const query = `
SELECT id, resume_id, institution, degree, field_of_study, start_date, end_date, grade, description
FROM education
WHERE resume_id = $1
ORDER BY id`
	rows, err := q.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("load education: %w", err)
	}
	defer rows.Close()

	out := make([]Education, 0)
	for rows.Next() {
		var (
			e     Education
			start sql.NullTime
			end   sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.Institution, &e.Degree, &e.FieldOfStudy, &start, &end, &e.Grade, &e.Description); err != nil {
			return nil, err
		}
		e.StartDate = dateFromNull(start)
		e.EndDate = datePtrFromNull(end)
		out = append(out, e)
	}
	return out, rows.Err()
}

func loadSkills(ctx context.Context, q queryer, resumeID int64) ([]Skill, error) {
	const query = `
SELECT s.id, s.name, s.proficiency
FROM skills s
JOIN resume_skills rs ON rs.skill_id = s.id
WHERE rs.resume_id = $1
ORDER BY rs.position, s.id`
	rows, err := q.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Proficiency); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableDate(d *Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}

func dateFromNull(t sql.NullTime) Date {
	if !t.Valid {
		return Date{}
	}
	return DateOf(t.Time)
}

func datePtrFromNull(t sql.NullTime) *Date {
	if !t.Valid {
		return nil
	}
	d := DateOf(t.Time)
	return &d
}
