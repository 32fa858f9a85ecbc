package steps

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type CareerPathDeps struct {
	Log      *logger.Logger
	Store    graph.Store
	Progress ProgressSource
	Roles    RoleSource
}

var milestoneThresholds = []struct {
	Progress int
	Name     string
}{
	{25, "Foundation Complete"},
	{50, "Intermediate Level"},
	{75, "Advanced Practitioner"},
}

const finalMilestoneName = "Career Ready"

// CareerPath selects a course sequence covering the target role's missing
// skills via greedy maximum-coverage set cover. Greedy is the intended
// algorithm: each pick is locally best, the overall plan is an approximation
// of minimum cover, and skills no course teaches are reported, not dropped.
func CareerPath(ctx context.Context, deps CareerPathDeps, userID uuid.UUID, targetRole string) (*types.CareerPlan, error) {
	if deps.Log == nil || deps.Store == nil || deps.Progress == nil || deps.Roles == nil {
		return nil, fmt.Errorf("career_path: missing deps")
	}

	plan := &types.CareerPlan{
		TargetRole: targetRole,
		Plan:       []types.CareerPlanCourse{},
		Milestones: []types.Milestone{},
	}

	required, ok := deps.Roles.RequiredSkills(targetRole)
	if !ok {
		plan.UnknownRole = true
		return plan, nil
	}
	plan.RequiredSkills = len(required)

	var (
		progress *types.UserProgress
		held     []types.GraphSkill
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		progress, err = deps.Progress.UserProgress(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		held, err = deps.Progress.HeldSkills(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("career_path: fetch progress: %w", err)
	}
	plan.CurrentSkills = len(held)

	heldNames := make(map[string]bool, len(held))
	for _, s := range held {
		heldNames[s.Name] = true
	}

	var missing []string
	for _, name := range required {
		if !heldNames[name] {
			missing = append(missing, name)
		}
	}
	plan.SkillGapCount = len(missing)

	// Resolve skill names against the graph; names the catalog doesn't carry
	// can never be covered by a course and go straight to the uncovered list.
	skillByName := map[string]types.GraphSkill{}
	allSkills, err := deps.Store.Skills(ctx)
	if err != nil {
		return nil, fmt.Errorf("career_path: list skills: %w", err)
	}
	for _, s := range allSkills {
		skillByName[s.Name] = s
	}

	completed := progress.CompletedSet()

	type candidate struct {
		course types.GraphCourse
		taught map[string]bool // missing-skill names this course teaches
	}
	var candidates []*candidate
	candidateSeen := map[string]bool{}
	for _, name := range missing {
		skill, ok := skillByName[name]
		if !ok {
			continue
		}
		courses, err := deps.Store.CoursesTeaching(ctx, skill.ID)
		if err != nil {
			return nil, fmt.Errorf("career_path: courses teaching %s: %w", skill.ID, err)
		}
		for _, c := range courses {
			if candidateSeen[c.ID] {
				continue
			}
			candidateSeen[c.ID] = true

			prereqs, err := deps.Store.Prerequisites(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			if !allCompleted(prereqs, completed) {
				continue
			}

			taughtSkills, err := deps.Store.TaughtSkills(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			taughtNames := map[string]bool{}
			for _, ts := range taughtSkills {
				taughtNames[ts.Name] = true
			}
			cand := &candidate{course: c, taught: map[string]bool{}}
			for _, m := range missing {
				if taughtNames[m] {
					cand.taught[m] = true
				}
			}
			if len(cand.taught) > 0 {
				candidates = append(candidates, cand)
			}
		}
	}

	remaining := make(map[string]bool, len(missing))
	for _, name := range missing {
		remaining[name] = true
	}

	for len(remaining) > 0 && len(candidates) > 0 {
		bestIdx, bestCoverage := -1, 0
		for i, cand := range candidates {
			coverage := 0
			for name := range cand.taught {
				if remaining[name] {
					coverage++
				}
			}
			better := coverage > bestCoverage ||
				(coverage == bestCoverage && coverage > 0 && cand.course.ID < candidates[bestIdx].course.ID)
			if better {
				bestIdx, bestCoverage = i, coverage
			}
		}
		if bestIdx < 0 || bestCoverage == 0 {
			break
		}

		chosen := candidates[bestIdx]
		var covered []string
		for _, name := range missing {
			if chosen.taught[name] && remaining[name] {
				covered = append(covered, name)
				delete(remaining, name)
			}
		}
		plan.Plan = append(plan.Plan, types.CareerPlanCourse{
			Course:       chosen.course,
			SkillsTaught: covered,
		})
		plan.EstimatedDuration += chosen.course.Duration
		candidates = append(candidates[:bestIdx], candidates[bestIdx+1:]...)
	}

	if len(remaining) > 0 {
		for _, name := range missing {
			if remaining[name] {
				plan.UncoveredSkills = append(plan.UncoveredSkills, name)
			}
		}
		sort.Strings(plan.UncoveredSkills)
	}

	plan.Milestones = buildMilestones(plan.Plan, len(required), len(remaining))
	return plan, nil
}

// buildMilestones walks the plan in order accumulating covered skills and
// emits each threshold the first time cumulative coverage crosses it, then a
// closing 100% marker. The closing marker is best-effort when some required
// skills stayed uncovered.
func buildMilestones(plan []types.CareerPlanCourse, totalSkills, uncovered int) []types.Milestone {
	milestones := []types.Milestone{}
	next := 0
	acquired := 0
	for i, pc := range plan {
		acquired += len(pc.SkillsTaught)
		if totalSkills == 0 {
			continue
		}
		progress := acquired * 100 / totalSkills
		for next < len(milestoneThresholds) && progress >= milestoneThresholds[next].Progress {
			milestones = append(milestones, types.Milestone{
				Name:        milestoneThresholds[next].Name,
				AfterCourse: i + 1,
				Progress:    milestoneThresholds[next].Progress,
			})
			next++
		}
	}
	milestones = append(milestones, types.Milestone{
		Name:        finalMilestoneName,
		AfterCourse: len(plan),
		Progress:    100,
		BestEffort:  uncovered > 0,
	})
	return milestones
}
