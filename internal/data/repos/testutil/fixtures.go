package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, id, name string) *types.Skill {
	tb.Helper()
	s := &types.Skill{
		ID:       id,
		Name:     name,
		Category: "programming",
		Level:    1,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return s
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, id, title, level string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:          id,
		Title:       title,
		Category:    "programming",
		Duration:    120,
		Level:       level,
		IsPublished: true,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCourseSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, skillID string) *types.CourseSkill {
	tb.Helper()
	cs := &types.CourseSkill{CourseID: courseID, SkillID: skillID, Level: 1}
	if err := tx.WithContext(ctx).Create(cs).Error; err != nil {
		tb.Fatalf("seed course skill: %v", err)
	}
	return cs
}

func SeedPrerequisite(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, prereqID string) *types.CoursePrerequisite {
	tb.Helper()
	cp := &types.CoursePrerequisite{CourseID: courseID, PrerequisiteID: prereqID}
	if err := tx.WithContext(ctx).Create(cp).Error; err != nil {
		tb.Fatalf("seed prerequisite: %v", err)
	}
	return cp
}

func SeedCompletion(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseID string) *types.Enrollment {
	tb.Helper()
	now := time.Now().UTC()
	e := &types.Enrollment{
		ID:          uuid.New(),
		UserID:      userID,
		CourseID:    courseID,
		EnrolledAt:  now.Add(-24 * time.Hour),
		CompletedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed completion: %v", err)
	}
	return e
}

func SeedUserSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, skillID string) *types.UserSkill {
	tb.Helper()
	us := &types.UserSkill{UserID: userID, SkillID: skillID, ProficiencyLevel: 1}
	if err := tx.WithContext(ctx).Create(us).Error; err != nil {
		tb.Fatalf("seed user skill: %v", err)
	}
	return us
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, level int) *types.LearningProfile {
	tb.Helper()
	p := &types.LearningProfile{UserID: userID, Level: level}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}
