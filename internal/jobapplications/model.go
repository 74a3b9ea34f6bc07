package jobapplications

import (
	"time"

	"resume-tracker/internal/resumes"
)

type Status string

const (
	StatusApplying     Status = "applying"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffered      Status = "offered"
	StatusRejected     Status = "rejected"
)

// JobApplication is a position the user applied to with one of their resumes.
type JobApplication struct {
	ID          int64         `json:"id"`
	ResumeID    int64         `json:"resume_id"`
	Company     string        `json:"company"`
	Position    string        `json:"position"`
	Status      Status        `json:"status"`
	DateApplied *resumes.Date `json:"date_applied"`
	Description string        `json:"description"`
	Notes       string        `json:"notes"`
	Link        string        `json:"link"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreateInput struct {
	ResumeID    int64         `json:"resume_id" binding:"required,gt=0"`
	Company     string        `json:"company" binding:"required,max=255"`
	Position    string        `json:"position" binding:"required,max=255"`
	Status      Status        `json:"status" binding:"required,oneof=applying applied interviewing offered rejected"`
	DateApplied *resumes.Date `json:"date_applied"`
	Description string        `json:"description" binding:"required"`
	Notes       string        `json:"notes"`
	Link        string        `json:"link" binding:"required,url"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	ResumeID    *int64        `json:"resume_id" binding:"omitempty,gt=0"`
	Company     *string       `json:"company" binding:"omitempty,max=255"`
	Position    *string       `json:"position" binding:"omitempty,max=255"`
	Status      *Status       `json:"status" binding:"omitempty,oneof=applying applied interviewing offered rejected"`
	DateApplied *resumes.Date `json:"date_applied"`
	Description *string       `json:"description"`
	Notes       *string       `json:"notes"`
	Link        *string       `json:"link" binding:"omitempty,url"`
}

func (in CreateInput) toJobApplication() JobApplication {
	return JobApplication{
		ResumeID:    in.ResumeID,
		Company:     in.Company,
		Position:    in.Position,
		Status:      in.Status,
		DateApplied: in.DateApplied,
		Description: in.Description,
		Notes:       in.Notes,
		Link:        in.Link,
	}
}

func (in UpdateInput) apply(job *JobApplication) {
	if in.ResumeID != nil {
		job.ResumeID = *in.ResumeID
	}
	if in.Company != nil {
		job.Company = *in.Company
	}
	if in.Position != nil {
		job.Position = *in.Position
	}
	if in.Status != nil {
		job.Status = *in.Status
	}
	if in.DateApplied != nil {
		job.DateApplied = in.DateApplied
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.Notes != nil {
		job.Notes = *in.Notes
	}
	if in.Link != nil {
		job.Link = *in.Link
	}
}
