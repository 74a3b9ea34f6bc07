package jobapplications

import "errors"

var (
	ErrNotFound  = errors.New("job application not found")
	ErrForbidden = errors.New("job application belongs to another user")
	// ErrResumeForbidden rejects linking a job application to a resume the
	// caller does not own.
	ErrResumeForbidden = errors.New("resume belongs to another user")
	ErrResumeMissing   = errors.New("resume does not exist")
)
