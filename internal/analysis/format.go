package analysis

import (
	"strings"

	"resume-tracker/internal/jobapplications"
	"resume-tracker/internal/resumes"
)

// FormatResume renders a resume aggregate as the plain-text block the
// analysis prompt embeds. Entries keep the aggregate's order.
func FormatResume(r resumes.Resume) string {
	var b strings.Builder
	b.WriteString("Title: " + r.Title + "\n")
	b.WriteString("Summary: " + r.Summary + "\n")

	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	b.WriteString("Skills: " + strings.Join(names, ", ") + "\n")

	b.WriteString("Experiences:\n")
	for _, e := range r.Experiences {
		b.WriteString("- " + e.Title + " at " + e.Company +
			" (" + e.StartDate.String() + " to " + endDate(e.EndDate) + "): " + e.Description + "\n")
	}

	b.WriteString("Education:\n")
	for _, e := range r.Education {
		b.WriteString("- " + e.Degree + " in " + e.FieldOfStudy + " at " + e.Institution +
			" (" + e.StartDate.String() + " to " + endDate(e.EndDate) + ")\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatJobApplication renders a job application for the analysis prompt.
func FormatJobApplication(j jobapplications.JobApplication) string {
	return "Position: " + j.Position + "\n" +
		"Company: " + j.Company + "\n" +
		"Description: " + j.Description + "\n" +
		"\n" +
		"Notes: " + j.Notes + "\n" +
		"Link: " + j.Link
}

func endDate(d *resumes.Date) string {
	if d == nil || d.IsZero() {
		return "Present"
	}
	return d.String()
}
