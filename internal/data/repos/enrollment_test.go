package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
)

func TestEnrollmentRepoGetCompletedByUserID(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewEnrollmentRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	otherID := uuid.New()
	testutil.SeedCourse(t, ctx, tx, "crs-done", "Done", types.CourseLevelBeginner)
	testutil.SeedCourse(t, ctx, tx, "crs-open", "Open", types.CourseLevelBeginner)
	testutil.SeedCompletion(t, ctx, tx, userID, "crs-done")
	testutil.SeedCompletion(t, ctx, tx, otherID, "crs-open")

	open := &types.Enrollment{
		ID:         uuid.New(),
		UserID:     userID,
		CourseID:   "crs-open",
		EnrolledAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(open).Error; err != nil {
		t.Fatalf("seed open enrollment: %v", err)
	}

	rows, err := repo.GetCompletedByUserID(rc, userID)
	if err != nil {
		t.Fatalf("get completed: %v", err)
	}
	if len(rows) != 1 || rows[0].CourseID != "crs-done" {
		t.Fatalf("completed enrollments = %+v", rows)
	}
	if rows[0].Course == nil || rows[0].Course.Title != "Done" {
		t.Fatalf("course not preloaded: %+v", rows[0].Course)
	}
}

func TestLearningProfileRepoMissingProfile(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewLearningProfileRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	profile, err := repo.GetByUserID(rc, uuid.New())
	if err != nil {
		t.Fatalf("get missing profile: %v", err)
	}
	if profile != nil {
		t.Fatalf("profile = %+v, want nil", profile)
	}
}

func TestLearningProfileRepoUpsert(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewLearningProfileRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	if err := repo.Upsert(rc, &types.LearningProfile{UserID: userID, Level: 2}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(rc, &types.LearningProfile{UserID: userID, Level: 3}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	profile, err := repo.GetByUserID(rc, userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile == nil || profile.Level != 3 {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestUserSkillRepoGetByUserID(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewUserSkillRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	userID := uuid.New()
	testutil.SeedSkill(t, ctx, tx, "skl-b", "skill-b")
	testutil.SeedSkill(t, ctx, tx, "skl-a2", "skill-a2")
	testutil.SeedUserSkill(t, ctx, tx, userID, "skl-b")
	testutil.SeedUserSkill(t, ctx, tx, userID, "skl-a2")

	rows, err := repo.GetByUserID(rc, userID)
	if err != nil {
		t.Fatalf("get user skills: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("user skills = %+v", rows)
	}
	if rows[0].SkillID != "skl-a2" || rows[1].SkillID != "skl-b" {
		t.Fatalf("skills out of order: %s, %s", rows[0].SkillID, rows[1].SkillID)
	}
	if rows[0].Skill == nil || rows[0].Skill.Name != "skill-a2" {
		t.Fatalf("skill not preloaded: %+v", rows[0].Skill)
	}
}
