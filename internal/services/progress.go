package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// ProgressService resolves per-user progress fresh on every call. It is the
// engine's view of the progress collaborator; nothing here is cached or
// written back.
type ProgressService interface {
	UserProgress(ctx context.Context, userID uuid.UUID) (*types.UserProgress, error)
	HeldSkills(ctx context.Context, userID uuid.UUID) ([]types.GraphSkill, error)
}

type progressService struct {
	log         *logger.Logger
	enrollments repos.EnrollmentRepo
	profiles    repos.LearningProfileRepo
	userSkills  repos.UserSkillRepo
}

func NewProgressService(
	baseLog *logger.Logger,
	enrollments repos.EnrollmentRepo,
	profiles repos.LearningProfileRepo,
	userSkills repos.UserSkillRepo,
) ProgressService {
	return &progressService{
		log:         baseLog.With("service", "ProgressService"),
		enrollments: enrollments,
		profiles:    profiles,
		userSkills:  userSkills,
	}
}

func (s *progressService) UserProgress(ctx context.Context, userID uuid.UUID) (*types.UserProgress, error) {
	var (
		completions []*types.Enrollment
		profile     *types.LearningProfile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		completions, err = s.enrollments.GetCompletedByUserID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.profiles.GetByUserID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user progress for %s: %w", userID, err)
	}

	progress := &types.UserProgress{
		CompletedCourseIDs: make([]string, 0, len(completions)),
		CurrentLevel:       1,
	}
	for _, e := range completions {
		progress.CompletedCourseIDs = append(progress.CompletedCourseIDs, e.CourseID)
		if e.Course != nil {
			progress.CompletedCourses = append(progress.CompletedCourses, e.Course)
		}
	}
	if profile != nil && profile.Level > 0 {
		progress.CurrentLevel = profile.Level
	}
	return progress, nil
}

func (s *progressService) HeldSkills(ctx context.Context, userID uuid.UUID) ([]types.GraphSkill, error) {
	rows, err := s.userSkills.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("held skills for %s: %w", userID, err)
	}
	out := make([]types.GraphSkill, 0, len(rows))
	for _, r := range rows {
		gs := types.GraphSkill{ID: r.SkillID, Level: r.ProficiencyLevel}
		if r.Skill != nil {
			gs.Name = r.Skill.Name
			gs.Category = r.Skill.Category
		}
		out = append(out, gs)
	}
	return out, nil
}
