package services

import (
	"errors"

	"github.com/fivetoolhq/fivetool-backend/internal/repos"
)

// HasNotFound reports whether err is one of the repo-level not-found
// sentinels, so callers can map it to a 404 outcome.
func HasNotFound(err error) bool {
	return errors.Is(err, repos.ErrSessionNotFound) || errors.Is(err, repos.ErrAssessmentNotFound)
}
