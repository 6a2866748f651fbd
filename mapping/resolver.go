package mapping

import (
	"context"

	"lever2lever/migrator/appcontext"
	"lever2lever/migrator/leverapi"
)

// Resolver answers on-demand lookups against the target tenant. The three
// lookup modes are mutually exclusive: a call resolves exactly one of user,
// archive reason, or stage. No match is not an error; callers treat the
// empty result as "mapping unresolved" and apply their own fallback.
type Resolver struct {
	target *leverapi.Client
}

// NewResolver creates a Resolver backed by the target-tenant client.
func NewResolver(target *leverapi.Client) *Resolver {
	return &Resolver{target: target}
}

// ResolveUser translates a source owner email to a target user identifier.
func (r *Resolver) ResolveUser(ctx context.Context, email string) (string, bool) {
	if email == "" {
		return "", false
	}

	users, err := r.target.GetUsers(ctx, email)
	if err != nil {
		logLookupFailure(ctx, "user", email, err)
		return "", false
	}

	for _, user := range users {
		if user.Email == email {
			return user.ID, true
		}
	}

	return "", false
}

// ResolveArchiveReason translates archive reason text to a target archive
// reason identifier.
func (r *Resolver) ResolveArchiveReason(ctx context.Context, text string) (string, bool) {
	if text == "" {
		return "", false
	}

	reasons, err := r.target.GetArchiveReasons(ctx)
	if err != nil {
		logLookupFailure(ctx, "archiveReason", text, err)
		return "", false
	}

	for _, reason := range reasons {
		if reason.Text == text {
			return reason.ID, true
		}
	}

	return "", false
}

// ResolveStage translates stage text to a target stage identifier.
func (r *Resolver) ResolveStage(ctx context.Context, text string) (string, bool) {
	if text == "" {
		return "", false
	}

	stages, err := r.target.GetStages(ctx)
	if err != nil {
		logLookupFailure(ctx, "stage", text, err)
		return "", false
	}

	for _, stage := range stages {
		if stage.Text == text {
			return stage.ID, true
		}
	}

	return "", false
}

// logLookupFailure records a failed remote lookup; the caller still receives
// "no value" rather than an error.
func logLookupFailure(ctx context.Context, kind string, key string, err error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "Unable to fetch mapping data", "kind", kind, "key", key, "error", err)
}
