package steps

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	types "github.com/yungbote/learnpath-backend/internal/domain"
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

func newStore(tb testing.TB, b graph.Build) *graph.MemoryStore {
	tb.Helper()
	store := graph.NewMemoryStore(testLogger(tb))
	if err := store.Rebuild(context.Background(), b); err != nil {
		tb.Fatalf("rebuild: %v", err)
	}
	return store
}

// stubProgress serves fixed progress data; the zero value is a brand-new
// learner at level 1.
type stubProgress struct {
	completed []string
	level     int
	held      []types.GraphSkill
	err       error
}

func (s *stubProgress) UserProgress(ctx context.Context, userID uuid.UUID) (*types.UserProgress, error) {
	if s.err != nil {
		return nil, s.err
	}
	level := s.level
	if level <= 0 {
		level = 1
	}
	return &types.UserProgress{CompletedCourseIDs: s.completed, CurrentLevel: level}, nil
}

func (s *stubProgress) HeldSkills(ctx context.Context, userID uuid.UUID) ([]types.GraphSkill, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.held, nil
}

type stubRoles map[string][]string

func (s stubRoles) RequiredSkills(role string) ([]string, bool) {
	skills, ok := s[role]
	return skills, ok
}

func gSkill(id, name string, level int) types.GraphSkill {
	return types.GraphSkill{ID: id, Name: name, Category: "programming", Level: level}
}

func gCourse(id string, difficulty, duration int) types.GraphCourse {
	return types.GraphCourse{ID: id, Title: id, Category: "programming", Duration: duration, Difficulty: difficulty}
}
