package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/modules/knowledge/steps"
	"github.com/yungbote/learnpath-backend/internal/platform/apierr"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// ErrRebuildInProgress rejects a rebuild request that would overlap a running
// one. The rebuild is the sole graph writer and never interleaves with
// itself; callers retry once the current rebuild finishes.
var ErrRebuildInProgress = errors.New("graph rebuild already in progress")

// KnowledgeGraphService is the engine facade the HTTP layer talks to. All
// read operations work off whatever graph the store currently serves and can
// run concurrently with each other and with a rebuild.
type KnowledgeGraphService interface {
	RebuildGraph(ctx context.Context) (steps.GraphBuildOutput, error)
	RecommendNext(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, error)
	GenerateLearningPath(ctx context.Context, userID uuid.UUID, targetCourseID string) (*types.LearningPath, error)
	FindSkillGaps(ctx context.Context, userID uuid.UUID) (*types.SkillGapReport, error)
	AnalyzeCareerPath(ctx context.Context, userID uuid.UUID, targetRole string) (*types.CareerPlan, error)
}

type knowledgeGraphService struct {
	log       *logger.Logger
	store     graph.Store
	skills    repos.SkillRepo
	courses   repos.CourseRepo
	progress  ProgressService
	roles     RoleSkillService
	hierarchy []steps.HierarchyPair
	cache     *RecommendationCache
	now       func() time.Time

	rebuildMu sync.Mutex
}

func NewKnowledgeGraphService(
	baseLog *logger.Logger,
	store graph.Store,
	skills repos.SkillRepo,
	courses repos.CourseRepo,
	progress ProgressService,
	roles RoleSkillService,
	hierarchy []steps.HierarchyPair,
	cache *RecommendationCache,
) KnowledgeGraphService {
	return &knowledgeGraphService{
		log:       baseLog.With("service", "KnowledgeGraphService"),
		store:     store,
		skills:    skills,
		courses:   courses,
		progress:  progress,
		roles:     roles,
		hierarchy: hierarchy,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *knowledgeGraphService) RebuildGraph(ctx context.Context) (steps.GraphBuildOutput, error) {
	if !s.rebuildMu.TryLock() {
		return steps.GraphBuildOutput{}, apierr.New(http.StatusConflict, "rebuild_in_progress", ErrRebuildInProgress)
	}
	defer s.rebuildMu.Unlock()

	started := s.now()
	out, err := steps.GraphBuild(ctx, steps.GraphBuildDeps{
		Log:       s.log,
		Skills:    s.skills,
		Courses:   s.courses,
		Store:     s.store,
		Hierarchy: s.hierarchy,
	})
	if err != nil {
		s.log.Error("graph rebuild failed, previous graph still serving", "error", err)
		return out, apierr.New(http.StatusInternalServerError, "rebuild_failed", err)
	}

	s.cache.Invalidate(ctx)
	s.log.Info("graph rebuild complete",
		"took", s.now().Sub(started).String(),
		"skills", out.Skills,
		"courses", out.Courses,
		"skipped_mappings", out.SkippedMappings,
		"skipped_hierarchy", out.SkippedHierarchy,
	)
	return out, nil
}

func (s *knowledgeGraphService) RecommendNext(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, error) {
	if recs, ok := s.cache.Get(ctx, userID, limit); ok {
		return recs, nil
	}

	recs, err := steps.Recommend(ctx, steps.RecommendDeps{
		Log:      s.log,
		Store:    s.store,
		Progress: s.progress,
		Now:      s.now,
	}, steps.RecommendInput{UserID: userID, Limit: limit})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, userID, limit, recs)
	return recs, nil
}

func (s *knowledgeGraphService) GenerateLearningPath(ctx context.Context, userID uuid.UUID, targetCourseID string) (*types.LearningPath, error) {
	return steps.LearningPath(ctx, steps.LearningPathDeps{
		Log:      s.log,
		Store:    s.store,
		Progress: s.progress,
	}, userID, targetCourseID)
}

func (s *knowledgeGraphService) FindSkillGaps(ctx context.Context, userID uuid.UUID) (*types.SkillGapReport, error) {
	return steps.SkillGaps(ctx, steps.SkillGapDeps{
		Log:      s.log,
		Store:    s.store,
		Progress: s.progress,
	}, userID)
}

func (s *knowledgeGraphService) AnalyzeCareerPath(ctx context.Context, userID uuid.UUID, targetRole string) (*types.CareerPlan, error) {
	return steps.CareerPath(ctx, steps.CareerPathDeps{
		Log:      s.log,
		Store:    s.store,
		Progress: s.progress,
		Roles:    s.roles,
	}, userID, targetRole)
}
