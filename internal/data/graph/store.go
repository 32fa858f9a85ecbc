package graph

import (
	"context"
	"errors"
	"fmt"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

// MaxTraversalDepth bounds REQUIRES expansion. The catalog does not guarantee
// an acyclic prerequisite graph, so every closure walk stops here.
const MaxTraversalDepth = 5

// MaxClosureNodes caps the size of a prerequisite closure result on densely
// connected or cyclic graphs.
const MaxClosureNodes = 256

// ErrMissingEndpoint is returned by Rebuild when an edge references a node
// absent from the same build. The store must not invent phantom nodes, and a
// failed rebuild leaves the previous graph authoritative.
var ErrMissingEndpoint = errors.New("graph: edge endpoint missing")

type EdgeKind string

const (
	EdgeTeaches  EdgeKind = "TEACHES"
	EdgeRequires EdgeKind = "REQUIRES"
	EdgeBuildsOn EdgeKind = "BUILDS_ON"
)

// Edge is a directed labeled edge. Level carries the TEACHES proficiency
// level and is zero for the other kinds.
type Edge struct {
	From  string
	To    string
	Level int
}

// Build is a complete graph image. Rebuild replaces the stored graph with it
// atomically: concurrent readers observe either the previous graph or this
// one, never a mix.
type Build struct {
	Skills   []types.GraphSkill
	Courses  []types.GraphCourse
	Teaches  []Edge // course -> skill
	Requires []Edge // course -> course
	BuildsOn []Edge // skill -> skill
}

// Store is the knowledge graph. Reads are safe to run concurrently with each
// other and with Rebuild.
//
// Ordering contract, identical across backends: Skills/Courses and the
// adjacency reads return rows in catalog (build) order;
// PrerequisiteClosure returns course ids ordered by hop distance ascending,
// ties by course id ascending. Lookups for unknown ids return empty results,
// not errors.
type Store interface {
	Rebuild(ctx context.Context, b Build) error

	Skills(ctx context.Context) ([]types.GraphSkill, error)
	Courses(ctx context.Context) ([]types.GraphCourse, error)
	Course(ctx context.Context, id string) (*types.GraphCourse, error)
	TaughtSkills(ctx context.Context, courseID string) ([]types.GraphSkill, error)
	Prerequisites(ctx context.Context, courseID string) ([]string, error)
	PrerequisiteClosure(ctx context.Context, courseID string) ([]string, error)
	CoursesTeaching(ctx context.Context, skillID string) ([]types.GraphCourse, error)
	SkillPrerequisites(ctx context.Context, skillID string) ([]types.GraphSkill, error)
}

// validateBuild enforces the endpoint invariant for every edge kind before
// any backend mutation happens, so a bad build fails the same way everywhere.
func validateBuild(b Build) error {
	skills := make(map[string]bool, len(b.Skills))
	for _, s := range b.Skills {
		skills[s.ID] = true
	}
	courses := make(map[string]bool, len(b.Courses))
	for _, c := range b.Courses {
		courses[c.ID] = true
	}

	for _, e := range b.Teaches {
		if !courses[e.From] || !skills[e.To] {
			return fmt.Errorf("%w: TEACHES %s -> %s", ErrMissingEndpoint, e.From, e.To)
		}
	}
	for _, e := range b.Requires {
		if !courses[e.From] || !courses[e.To] {
			return fmt.Errorf("%w: REQUIRES %s -> %s", ErrMissingEndpoint, e.From, e.To)
		}
	}
	for _, e := range b.BuildsOn {
		if !skills[e.From] || !skills[e.To] {
			return fmt.Errorf("%w: BUILDS_ON %s -> %s", ErrMissingEndpoint, e.From, e.To)
		}
	}
	return nil
}
