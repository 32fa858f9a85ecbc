package steps

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/learnpath-backend/internal/data/graph"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

const (
	skillOverlapWeight = 0.3
	newSkillWeight     = 0.5

	// Estimated study pace used for completion dates.
	studyHoursPerDay = 2

	// Fan-out bound for attaching learning paths to the surviving
	// recommendations.
	pathAttachConcurrency = 8
)

type RecommendDeps struct {
	Log      *logger.Logger
	Store    graph.Store
	Progress ProgressSource
	Now      func() time.Time
}

type RecommendInput struct {
	UserID uuid.UUID
	Limit  int
}

// Recommend ranks courses whose prerequisites the user has already
// completed. Scoring is rule-based and deterministic: the skill facts and
// difficulty gap behind every score ride along in the result.
func Recommend(ctx context.Context, deps RecommendDeps, in RecommendInput) ([]types.Recommendation, error) {
	if deps.Log == nil || deps.Store == nil || deps.Progress == nil {
		return nil, fmt.Errorf("recommend: missing deps")
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 5
	}

	progress, err := deps.Progress.UserProgress(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("recommend: fetch progress: %w", err)
	}
	completed := progress.CompletedSet()

	learned := map[string]bool{}
	for id := range completed {
		skills, err := deps.Store.TaughtSkills(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("recommend: learned skills: %w", err)
		}
		for _, s := range skills {
			learned[s.ID] = true
		}
	}

	courses, err := deps.Store.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("recommend: list courses: %w", err)
	}

	var recs []types.Recommendation
	for _, c := range courses {
		if completed[c.ID] {
			continue
		}
		prereqs, err := deps.Store.Prerequisites(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if !allCompleted(prereqs, completed) {
			continue
		}

		taught, err := deps.Store.TaughtSkills(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		overlap, fresh := 0, 0
		for _, s := range taught {
			if learned[s.ID] {
				overlap++
			} else {
				fresh++
			}
		}

		gap := c.Difficulty - progress.CurrentLevel
		if gap < 0 {
			gap = -gap
		}
		skillScore := float64(overlap)*skillOverlapWeight + float64(fresh)*newSkillWeight
		recs = append(recs, types.Recommendation{
			Course:        c,
			Score:         skillScore * difficultyScore(gap),
			Reason:        types.ReasonKnowledgeProgression,
			SkillOverlap:  overlap,
			NewSkills:     fresh,
			DifficultyGap: gap,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Course.ID < recs[j].Course.ID
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}

	// Each surviving recommendation gets its path concurrently; goroutines
	// write disjoint indexes.
	pg, pctx := errgroup.WithContext(ctx)
	pg.SetLimit(pathAttachConcurrency)
	for i := range recs {
		pg.Go(func() error {
			path, err := buildLearningPath(pctx, deps.Store, completed, recs[i].Course.ID)
			if err != nil {
				return fmt.Errorf("recommend: attach path: %w", err)
			}
			recs[i].LearningPath = path
			recs[i].EstimatedCompletion = estimateCompletion(now(), path.TotalDuration)
			return nil
		})
	}
	if err := pg.Wait(); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []types.Recommendation{}
	}
	return recs, nil
}

// difficultyScore is a discrete lookup, not an interpolation: matching the
// user's level scores full marks, a gap of three or more tiers nearly kills
// the candidate.
func difficultyScore(gap int) float64 {
	switch gap {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	default:
		return 0.2
	}
}

func estimateCompletion(from time.Time, totalMinutes int) time.Time {
	hours := float64(totalMinutes) / 60.0
	days := int(math.Ceil(hours / studyHoursPerDay))
	return from.AddDate(0, 0, days)
}

func allCompleted(courseIDs []string, completed map[string]bool) bool {
	for _, id := range courseIDs {
		if !completed[id] {
			return false
		}
	}
	return true
}
