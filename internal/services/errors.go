package services

import (
	"review-backend/internal/apperr"
	"review-backend/internal/metrics"
	"review-backend/internal/policy"
)

var (
	ErrInvalidScore = apperr.ValidationCode("INVALID_SCORE", "Score must be between 1 and 10",
		apperr.FieldError{Field: "score", Message: "Must be between 1 and 10"})
	ErrDuplicateReview = apperr.Conflict("DUPLICATE_REVIEW", "Only one review per title is allowed")
	ErrUsernameTaken   = apperr.Conflict("USERNAME_TAKEN", "A user with this username already exists")
	ErrEmailTaken      = apperr.Conflict("EMAIL_TAKEN", "A user with this email already exists")
	ErrSlugTaken       = apperr.Conflict("SLUG_TAKEN", "An object with this slug already exists")
	ErrInvalidCode     = apperr.InvalidCode("Confirmation code is invalid or expired")
)

// authorize runs the policy check and counts denials.
func authorize(m *metrics.Metrics, actor policy.Actor, action policy.Action, target policy.Target) error {
	decision := policy.Can(actor, action, target)
	if !decision.Allowed() {
		m.AuthzDenials.WithLabelValues(string(target.Resource), string(action), decision.String()).Inc()
	}
	return decision.Err()
}
