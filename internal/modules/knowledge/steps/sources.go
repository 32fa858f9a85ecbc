package steps

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

// Collaborator boundaries. Progress and role data are owned by other
// services; steps consume them through these interfaces and never cache the
// results between requests.

type ProgressSource interface {
	// UserProgress resolves completed course ids and the user's current level.
	// A fetch failure propagates to the caller; steps never substitute default
	// progress.
	UserProgress(ctx context.Context, userID uuid.UUID) (*types.UserProgress, error)

	// HeldSkills lists the skills the user currently holds.
	HeldSkills(ctx context.Context, userID uuid.UUID) ([]types.GraphSkill, error)
}

type RoleSource interface {
	// RequiredSkills returns the skill names a role requires, and false when
	// the role is not mapped at all (distinct from a role with no skills).
	RequiredSkills(role string) ([]string, bool)
}
