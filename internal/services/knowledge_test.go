package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

type stubSkillRepo struct{}

func (stubSkillRepo) GetAll(rc dbctx.Context) ([]*types.Skill, error) {
	return []*types.Skill{{ID: "s1", Name: "s1", Level: 1}}, nil
}

func (stubSkillRepo) Upsert(rc dbctx.Context, skills []*types.Skill) error { return nil }

type stubCourseRepo struct{}

func (stubCourseRepo) GetAllPublished(rc dbctx.Context) ([]*types.Course, error) {
	return []*types.Course{{ID: "c1", Title: "c1", Level: types.CourseLevelBeginner, Duration: 60, IsPublished: true}}, nil
}

func (stubCourseRepo) GetSkillMappings(rc dbctx.Context) ([]*types.CourseSkill, error) {
	return []*types.CourseSkill{{CourseID: "c1", SkillID: "s1", Level: 1}}, nil
}

func (stubCourseRepo) GetPrerequisiteMappings(rc dbctx.Context) ([]*types.CoursePrerequisite, error) {
	return nil, nil
}

func (stubCourseRepo) Upsert(rc dbctx.Context, courses []*types.Course) error { return nil }

func (stubCourseRepo) UpsertSkillMappings(rc dbctx.Context, rows []*types.CourseSkill) error {
	return nil
}

func (stubCourseRepo) UpsertPrerequisiteMappings(rc dbctx.Context, rows []*types.CoursePrerequisite) error {
	return nil
}

type stubProgressService struct{}

func (stubProgressService) UserProgress(ctx context.Context, userID uuid.UUID) (*types.UserProgress, error) {
	return &types.UserProgress{CurrentLevel: 1}, nil
}

func (stubProgressService) HeldSkills(ctx context.Context, userID uuid.UUID) ([]types.GraphSkill, error) {
	return nil, nil
}

type stubRoleService map[string][]string

func (s stubRoleService) RequiredSkills(role string) ([]string, bool) {
	skills, ok := s[role]
	return skills, ok
}

func (s stubRoleService) Roles() []string { return nil }
func (s stubRoleService) Reload() error   { return nil }

// gateStore blocks Rebuild until released, so overlap is deterministic.
type gateStore struct {
	*graph.MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (s *gateStore) Rebuild(ctx context.Context, b graph.Build) error {
	close(s.entered)
	<-s.release
	return s.MemoryStore.Rebuild(ctx, b)
}

func newService(tb testing.TB, store graph.Store) KnowledgeGraphService {
	tb.Helper()
	return NewKnowledgeGraphService(
		testLogger(tb),
		store,
		stubSkillRepo{},
		stubCourseRepo{},
		stubProgressService{},
		stubRoleService{},
		nil,
		&RecommendationCache{},
	)
}

func TestRebuildGraphSingleFlight(t *testing.T) {
	store := &gateStore{
		MemoryStore: graph.NewMemoryStore(testLogger(t)),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	svc := newService(t, store)

	var wg sync.WaitGroup
	wg.Add(1)
	firstErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := svc.RebuildGraph(context.Background())
		firstErr <- err
	}()

	<-store.entered
	_, err := svc.RebuildGraph(context.Background())
	if !errors.Is(err, ErrRebuildInProgress) {
		t.Fatalf("overlapping rebuild error = %v, want ErrRebuildInProgress", err)
	}

	close(store.release)
	wg.Wait()
	if err := <-firstErr; err != nil {
		t.Fatalf("first rebuild: %v", err)
	}

	// Lock released: rebuild works again.
	store.entered = make(chan struct{})
	store.release = make(chan struct{})
	close(store.release)
	out, err := svc.RebuildGraph(context.Background())
	if err != nil {
		t.Fatalf("follow-up rebuild: %v", err)
	}
	if out.Skills != 1 || out.Courses != 1 {
		t.Fatalf("rebuild output = %+v", out)
	}
}

func TestRecommendNextServesFromStore(t *testing.T) {
	store := graph.NewMemoryStore(testLogger(t))
	svc := newService(t, store)

	if _, err := svc.RebuildGraph(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	recs, err := svc.RecommendNext(context.Background(), uuid.New(), 5)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].Course.ID != "c1" {
		t.Fatalf("recommendations = %+v", recs)
	}
}

func TestAnalyzeCareerPathUnknownRole(t *testing.T) {
	store := graph.NewMemoryStore(testLogger(t))
	svc := newService(t, store)

	plan, err := svc.AnalyzeCareerPath(context.Background(), uuid.New(), "astronaut")
	if err != nil {
		t.Fatalf("career path: %v", err)
	}
	if !plan.UnknownRole {
		t.Fatal("unmapped role not flagged")
	}
}
