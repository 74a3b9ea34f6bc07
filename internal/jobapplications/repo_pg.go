package jobapplications

import (
	"context"
	"database/sql"
	"errors"

	"resume-tracker/internal/resumes"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, resume_id, company, position, status, date_applied, description, notes, link, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, job JobApplication) (JobApplication, error) {
	const query = `
INSERT INTO job_applications (resume_id, company, position, status, date_applied, description, notes, link, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
RETURNING ` + jobColumns
	row := r.DB.QueryRowContext(ctx, query,
		job.ResumeID, job.Company, job.Position, string(job.Status), nullableDate(job.DateApplied),
		job.Description, job.Notes, job.Link,
	)
	return scanJob(row)
}

func (r *PGRepo) Get(ctx context.Context, id int64) (JobApplication, error) {
	query := `SELECT ` + jobColumns + ` FROM job_applications WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return JobApplication{}, ErrNotFound
	}
	return job, err
}

// ListByUser returns applications linked to any resume owned by userID.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]JobApplication, error) {
	const query = `
SELECT j.id, j.resume_id, j.company, j.position, j.status, j.date_applied, j.description, j.notes, j.link, j.created_at, j.updated_at
FROM job_applications j
JOIN resumes r ON r.id = j.resume_id
WHERE r.user_id = $1
ORDER BY j.id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobApplication, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, job JobApplication) (JobApplication, error) {
	const query = `
UPDATE job_applications
SET resume_id = $2, company = $3, position = $4, status = $5, date_applied = $6,
    description = $7, notes = $8, link = $9, updated_at = now()
WHERE id = $1
RETURNING ` + jobColumns
	updated, err := scanJob(r.DB.QueryRowContext(ctx, query,
		job.ID, job.ResumeID, job.Company, job.Position, string(job.Status), nullableDate(job.DateApplied),
		job.Description, job.Notes, job.Link,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return JobApplication{}, ErrNotFound
	}
	return updated, err
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM job_applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (JobApplication, error) {
	var (
		job         JobApplication
		status      string
		dateApplied sql.NullTime
	)
	if err := row.Scan(
		&job.ID, &job.ResumeID, &job.Company, &job.Position, &status, &dateApplied,
		&job.Description, &job.Notes, &job.Link, &job.CreatedAt, &job.UpdatedAt,
	); err != nil {
		return JobApplication{}, err
	}
	job.Status = Status(status)
	if dateApplied.Valid {
		d := resumes.DateOf(dateApplied.Time)
		job.DateApplied = &d
	}
	return job, nil
}

func nullableDate(d *resumes.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}
