package steps

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type LearningPathDeps struct {
	Log      *logger.Logger
	Store    graph.Store
	Progress ProgressSource
}

// LearningPath computes the ordered set of not-yet-completed prerequisites
// leading to the target course, target included. An unknown target or an
// already-completed target yields a defined empty result, not an error.
func LearningPath(ctx context.Context, deps LearningPathDeps, userID uuid.UUID, targetCourseID string) (*types.LearningPath, error) {
	if deps.Log == nil || deps.Store == nil || deps.Progress == nil {
		return nil, fmt.Errorf("learning_path: missing deps")
	}

	progress, err := deps.Progress.UserProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("learning_path: fetch progress: %w", err)
	}

	return buildLearningPath(ctx, deps.Store, progress.CompletedSet(), targetCourseID)
}

// buildLearningPath is shared with the recommendation scorer, which attaches
// a path to every surviving recommendation.
func buildLearningPath(ctx context.Context, store graph.Store, completed map[string]bool, targetCourseID string) (*types.LearningPath, error) {
	empty := &types.LearningPath{
		Courses:               []types.GraphCourse{},
		SkillsCovered:         []string{},
		DifficultyProgression: []int{},
	}

	target, err := store.Course(ctx, targetCourseID)
	if err != nil {
		return nil, fmt.Errorf("learning_path: load target: %w", err)
	}
	if target == nil {
		return empty, nil
	}
	empty.TargetFound = true
	if completed[target.ID] {
		return empty, nil
	}

	closure, err := store.PrerequisiteClosure(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("learning_path: prerequisite closure: %w", err)
	}

	var courses []types.GraphCourse
	for _, id := range closure {
		if completed[id] {
			continue
		}
		c, err := store.Course(ctx, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			courses = append(courses, *c)
		}
	}
	courses = append(courses, *target)

	// Easier courses first; the stable sort keeps closure order within a
	// difficulty tier.
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Difficulty < courses[j].Difficulty
	})

	path := &types.LearningPath{
		Courses:               courses,
		SkillsCovered:         []string{},
		DifficultyProgression: make([]int, 0, len(courses)),
		TargetFound:           true,
	}
	seenSkills := map[string]bool{}
	for _, c := range courses {
		path.TotalDuration += c.Duration
		path.DifficultyProgression = append(path.DifficultyProgression, c.Difficulty)

		skills, err := store.TaughtSkills(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, s := range skills {
			if seenSkills[s.Name] {
				continue
			}
			seenSkills[s.Name] = true
			path.SkillsCovered = append(path.SkillsCovered, s.Name)
		}
	}
	return path, nil
}
