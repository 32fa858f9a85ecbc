package steps

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// HierarchyPair is one BUILDS_ON seed row: From builds on To, both by skill
// name. The table is configuration, not derived from courses.
type HierarchyPair struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

type GraphBuildDeps struct {
	Log       *logger.Logger
	Skills    repos.SkillRepo
	Courses   repos.CourseRepo
	Store     graph.Store
	Hierarchy []HierarchyPair
}

type GraphBuildOutput struct {
	Skills           int `json:"skills"`
	Courses          int `json:"courses"`
	Teaches          int `json:"teaches"`
	Requires         int `json:"requires"`
	BuildsOn         int `json:"builds_on"`
	SkippedMappings  int `json:"skipped_mappings"`
	SkippedHierarchy int `json:"skipped_hierarchy"`
}

// GraphBuild projects the catalog into a full graph image and swaps it into
// the store. Courses without skills and skills without courses are valid
// inputs, and so is a mapping whose endpoint is missing from this build
// (unpublished prerequisite, removed skill): the edge is skipped and logged,
// the same as unknown hierarchy pairs. The builder therefore never hands the
// store a dangling edge; store-level endpoint validation stays as the guard
// against other producers.
func GraphBuild(ctx context.Context, deps GraphBuildDeps) (GraphBuildOutput, error) {
	out := GraphBuildOutput{}
	if deps.Log == nil || deps.Skills == nil || deps.Courses == nil || deps.Store == nil {
		return out, fmt.Errorf("graph_build: missing deps")
	}

	var (
		skillRows  []*types.Skill
		courseRows []*types.Course
		skillMaps  []*types.CourseSkill
		prereqMaps []*types.CoursePrerequisite
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skillRows, err = deps.Skills.GetAll(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		courseRows, err = deps.Courses.GetAllPublished(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		skillMaps, err = deps.Courses.GetSkillMappings(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		prereqMaps, err = deps.Courses.GetPrerequisiteMappings(dbctx.Context{Ctx: gctx})
		return err
	})
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("graph_build: load catalog: %w", err)
	}

	b := graph.Build{}
	skillIDs := make(map[string]bool, len(skillRows))
	skillIDByName := make(map[string]string, len(skillRows))
	for _, s := range skillRows {
		b.Skills = append(b.Skills, types.GraphSkill{
			ID:       s.ID,
			Name:     s.Name,
			Category: s.Category,
			Level:    s.Level,
		})
		skillIDs[s.ID] = true
		skillIDByName[s.Name] = s.ID
	}
	courseIDs := make(map[string]bool, len(courseRows))
	for _, c := range courseRows {
		b.Courses = append(b.Courses, types.GraphCourse{
			ID:         c.ID,
			Title:      c.Title,
			Category:   c.Category,
			Duration:   c.Duration,
			Difficulty: types.ToDifficulty(c.Level),
		})
		courseIDs[c.ID] = true
	}

	for _, m := range skillMaps {
		if !courseIDs[m.CourseID] {
			// Mapping for an unpublished course: not part of this build.
			continue
		}
		if !skillIDs[m.SkillID] {
			deps.Log.Warn("skipping mapping against missing skill", "course", m.CourseID, "skill", m.SkillID)
			out.SkippedMappings++
			continue
		}
		level := m.Level
		if level <= 0 {
			level = 1
		}
		b.Teaches = append(b.Teaches, graph.Edge{From: m.CourseID, To: m.SkillID, Level: level})
	}
	for _, m := range prereqMaps {
		if !courseIDs[m.CourseID] {
			continue
		}
		if !courseIDs[m.PrerequisiteID] {
			deps.Log.Warn("skipping prerequisite outside this build", "course", m.CourseID, "prerequisite", m.PrerequisiteID)
			out.SkippedMappings++
			continue
		}
		b.Requires = append(b.Requires, graph.Edge{From: m.CourseID, To: m.PrerequisiteID})
	}

	// Hierarchy rows reference skills by name and may mention skills the
	// catalog doesn't carry yet; those pairs are skipped, not fatal.
	for _, h := range deps.Hierarchy {
		fromID, okFrom := skillIDByName[h.From]
		toID, okTo := skillIDByName[h.To]
		if !okFrom || !okTo {
			deps.Log.Warn("skipping hierarchy pair with unknown skill", "from", h.From, "to", h.To)
			out.SkippedHierarchy++
			continue
		}
		b.BuildsOn = append(b.BuildsOn, graph.Edge{From: fromID, To: toID})
	}

	if err := deps.Store.Rebuild(ctx, b); err != nil {
		return out, fmt.Errorf("graph_build: rebuild store: %w", err)
	}

	out.Skills = len(b.Skills)
	out.Courses = len(b.Courses)
	out.Teaches = len(b.Teaches)
	out.Requires = len(b.Requires)
	out.BuildsOn = len(b.BuildsOn)
	return out, nil
}
