package graph

import (
	"context"
	"sort"
	"sync/atomic"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// MemoryStore keeps the whole graph in one immutable snapshot behind an
// atomic pointer. Rebuild assembles a fresh snapshot off to the side and
// swaps it in, so readers never take a lock and never see a partial graph.
type MemoryStore struct {
	snap atomic.Pointer[snapshot]
	log  *logger.Logger
}

type snapshot struct {
	skillOrder  []string
	skills      map[string]types.GraphSkill
	courseOrder []string
	courses     map[string]types.GraphCourse

	teaches       map[string][]string // course -> skill ids, build order
	teachesLevel  map[string]int      // "course|skill" -> proficiency level
	taughtBy      map[string][]string // skill -> course ids, build order
	requires      map[string][]string // course -> prerequisite course ids
	skillBuildsOn map[string][]string // skill -> prerequisite skill ids
}

func NewMemoryStore(log *logger.Logger) *MemoryStore {
	s := &MemoryStore{log: log.With("store", "MemoryGraph")}
	s.snap.Store(emptySnapshot())
	return s
}

func emptySnapshot() *snapshot {
	return &snapshot{
		skills:        map[string]types.GraphSkill{},
		courses:       map[string]types.GraphCourse{},
		teaches:       map[string][]string{},
		teachesLevel:  map[string]int{},
		taughtBy:      map[string][]string{},
		requires:      map[string][]string{},
		skillBuildsOn: map[string][]string{},
	}
}

func (s *MemoryStore) Rebuild(ctx context.Context, b Build) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateBuild(b); err != nil {
		return err
	}

	next := emptySnapshot()
	for _, sk := range b.Skills {
		if _, ok := next.skills[sk.ID]; ok {
			continue
		}
		next.skills[sk.ID] = sk
		next.skillOrder = append(next.skillOrder, sk.ID)
	}
	for _, c := range b.Courses {
		if _, ok := next.courses[c.ID]; ok {
			continue
		}
		next.courses[c.ID] = c
		next.courseOrder = append(next.courseOrder, c.ID)
	}
	for _, e := range b.Teaches {
		next.teaches[e.From] = append(next.teaches[e.From], e.To)
		next.taughtBy[e.To] = append(next.taughtBy[e.To], e.From)
		level := e.Level
		if level <= 0 {
			level = 1
		}
		next.teachesLevel[e.From+"|"+e.To] = level
	}
	for _, e := range b.Requires {
		next.requires[e.From] = append(next.requires[e.From], e.To)
	}
	for _, e := range b.BuildsOn {
		next.skillBuildsOn[e.From] = append(next.skillBuildsOn[e.From], e.To)
	}

	s.snap.Store(next)
	s.log.Info("graph snapshot swapped",
		"skills", len(next.skillOrder),
		"courses", len(next.courseOrder),
		"teaches", len(b.Teaches),
		"requires", len(b.Requires),
		"builds_on", len(b.BuildsOn),
	)
	return nil
}

func (s *MemoryStore) Skills(ctx context.Context) ([]types.GraphSkill, error) {
	snap := s.snap.Load()
	out := make([]types.GraphSkill, 0, len(snap.skillOrder))
	for _, id := range snap.skillOrder {
		out = append(out, snap.skills[id])
	}
	return out, nil
}

func (s *MemoryStore) Courses(ctx context.Context) ([]types.GraphCourse, error) {
	snap := s.snap.Load()
	out := make([]types.GraphCourse, 0, len(snap.courseOrder))
	for _, id := range snap.courseOrder {
		out = append(out, snap.courses[id])
	}
	return out, nil
}

func (s *MemoryStore) Course(ctx context.Context, id string) (*types.GraphCourse, error) {
	snap := s.snap.Load()
	c, ok := snap.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) TaughtSkills(ctx context.Context, courseID string) ([]types.GraphSkill, error) {
	snap := s.snap.Load()
	ids := snap.teaches[courseID]
	out := make([]types.GraphSkill, 0, len(ids))
	for _, id := range ids {
		if sk, ok := snap.skills[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (s *MemoryStore) Prerequisites(ctx context.Context, courseID string) ([]string, error) {
	snap := s.snap.Load()
	ids := snap.requires[courseID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

// PrerequisiteClosure walks REQUIRES breadth-first up to MaxTraversalDepth
// hops, so prerequisite cycles terminate. Result order: hop distance
// ascending, course id ascending within a hop.
func (s *MemoryStore) PrerequisiteClosure(ctx context.Context, courseID string) ([]string, error) {
	snap := s.snap.Load()

	visited := map[string]bool{courseID: true}
	frontier := []string{courseID}
	var out []string

	for depth := 0; depth < MaxTraversalDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, pre := range snap.requires[id] {
				if visited[pre] {
					continue
				}
				if _, ok := snap.courses[pre]; !ok {
					continue
				}
				visited[pre] = true
				next = append(next, pre)
			}
		}
		sort.Strings(next)
		for _, id := range next {
			if len(out) >= MaxClosureNodes {
				return out, nil
			}
			out = append(out, id)
		}
		frontier = next
	}
	return out, nil
}

func (s *MemoryStore) CoursesTeaching(ctx context.Context, skillID string) ([]types.GraphCourse, error) {
	snap := s.snap.Load()
	ids := snap.taughtBy[skillID]
	out := make([]types.GraphCourse, 0, len(ids))
	for _, id := range ids {
		if c, ok := snap.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) SkillPrerequisites(ctx context.Context, skillID string) ([]types.GraphSkill, error) {
	snap := s.snap.Load()
	ids := snap.skillBuildsOn[skillID]
	out := make([]types.GraphSkill, 0, len(ids))
	for _, id := range ids {
		if sk, ok := snap.skills[id]; ok {
			out = append(out, sk)
		}
	}
	return out, nil
}
