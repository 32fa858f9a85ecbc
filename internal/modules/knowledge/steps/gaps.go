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

// Suggested-course and top-gap caps for the skill gap report.
const (
	maxSuggestedCourses = 5
	topGapSkills        = 5
)

type SkillGapDeps struct {
	Log      *logger.Logger
	Store    graph.Store
	Progress ProgressSource
}

// SkillGaps walks TEACHES edges backward from the user's held skills to the
// courses teaching them, then forward to skills those courses co-teach.
// Related skills the user lacks are gaps; one BUILDS_ON hop decides whether
// each gap is startable now or blocked behind further prerequisites.
func SkillGaps(ctx context.Context, deps SkillGapDeps, userID uuid.UUID) (*types.SkillGapReport, error) {
	if deps.Log == nil || deps.Store == nil || deps.Progress == nil {
		return nil, fmt.Errorf("skill_gaps: missing deps")
	}

	held, err := deps.Progress.HeldSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("skill_gaps: fetch held skills: %w", err)
	}
	heldSet := make(map[string]bool, len(held))
	for _, s := range held {
		heldSet[s.ID] = true
	}

	type agg struct {
		skill   types.GraphSkill
		courses map[string]bool
	}
	related := map[string]*agg{}
	var order []string

	for _, hs := range held {
		courses, err := deps.Store.CoursesTeaching(ctx, hs.ID)
		if err != nil {
			return nil, fmt.Errorf("skill_gaps: courses teaching %s: %w", hs.ID, err)
		}
		for _, c := range courses {
			taught, err := deps.Store.TaughtSkills(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			for _, rs := range taught {
				if heldSet[rs.ID] {
					continue
				}
				a, ok := related[rs.ID]
				if !ok {
					a = &agg{skill: rs, courses: map[string]bool{}}
					related[rs.ID] = a
					order = append(order, rs.ID)
				}
				a.courses[c.ID] = true
			}
		}
	}

	gaps := make([]types.SkillGap, 0, len(order))
	for _, id := range order {
		a := related[id]
		prereqs, err := deps.Store.SkillPrerequisites(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("skill_gaps: prerequisites of %s: %w", id, err)
		}
		hasAll := true
		for _, p := range prereqs {
			if !heldSet[p.ID] {
				hasAll = false
				break
			}
		}
		if prereqs == nil {
			prereqs = []types.GraphSkill{}
		}
		gaps = append(gaps, types.SkillGap{
			Skill:               a.skill,
			Importance:          len(a.courses),
			Prerequisites:       prereqs,
			UserHasPrerequisite: hasAll,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].Importance != gaps[j].Importance {
			return gaps[i].Importance > gaps[j].Importance
		}
		return gaps[i].Skill.ID < gaps[j].Skill.ID
	})

	report := &types.SkillGapReport{
		IdentifiedGaps:   []types.SkillGap{},
		FutureGaps:       []types.SkillGap{},
		SuggestedCourses: []types.GraphCourse{},
	}
	for _, g := range gaps {
		if g.UserHasPrerequisite {
			report.IdentifiedGaps = append(report.IdentifiedGaps, g)
		} else {
			report.FutureGaps = append(report.FutureGaps, g)
		}
	}

	// Immediate suggestions: courses teaching the most central gap skills.
	seen := map[string]bool{}
	for i := 0; i < len(gaps) && i < topGapSkills; i++ {
		courses, err := deps.Store.CoursesTeaching(ctx, gaps[i].Skill.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range courses {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			report.SuggestedCourses = append(report.SuggestedCourses, c)
			if len(report.SuggestedCourses) >= maxSuggestedCourses {
				return report, nil
			}
		}
	}
	return report, nil
}
