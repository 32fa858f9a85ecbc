package repos

import (
	"context"
	"testing"

	"github.com/yungbote/learnpath-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
)

func TestCourseRepoGetAllPublished(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedCourse(t, ctx, tx, "crs-pub", "Published", types.CourseLevelBeginner)
	draft := &types.Course{
		ID:          "crs-draft",
		Title:       "Draft",
		Category:    "programming",
		Duration:    60,
		Level:       types.CourseLevelAdvanced,
		IsPublished: false,
	}
	if err := tx.WithContext(ctx).Create(draft).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	rows, err := repo.GetAllPublished(rc)
	if err != nil {
		t.Fatalf("get all published: %v", err)
	}
	for _, c := range rows {
		if !c.IsPublished {
			t.Fatalf("unpublished course returned: %+v", c)
		}
		if c.ID == "crs-draft" {
			t.Fatal("draft course returned")
		}
	}
}

func TestCourseRepoMappings(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedSkill(t, ctx, tx, "skl-a", "skill-a")
	testutil.SeedCourse(t, ctx, tx, "crs-a", "Course A", types.CourseLevelBeginner)
	testutil.SeedCourse(t, ctx, tx, "crs-b", "Course B", types.CourseLevelIntermediate)
	testutil.SeedCourseSkill(t, ctx, tx, "crs-a", "skl-a")
	testutil.SeedPrerequisite(t, ctx, tx, "crs-b", "crs-a")

	skills, err := repo.GetSkillMappings(rc)
	if err != nil {
		t.Fatalf("skill mappings: %v", err)
	}
	found := false
	for _, m := range skills {
		if m.CourseID == "crs-a" && m.SkillID == "skl-a" {
			found = true
		}
	}
	if !found {
		t.Fatalf("seeded mapping missing from %+v", skills)
	}

	prereqs, err := repo.GetPrerequisiteMappings(rc)
	if err != nil {
		t.Fatalf("prerequisite mappings: %v", err)
	}
	found = false
	for _, m := range prereqs {
		if m.CourseID == "crs-b" && m.PrerequisiteID == "crs-a" {
			found = true
		}
	}
	if !found {
		t.Fatalf("seeded prerequisite missing from %+v", prereqs)
	}
}

func TestCourseRepoUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCourseRepo(tx, testutil.Logger(t))
	rc := dbctx.Context{Ctx: ctx, Tx: tx}

	rows := []*types.Course{{
		ID:          "crs-up",
		Title:       "First Title",
		Category:    "programming",
		Duration:    60,
		Level:       types.CourseLevelBeginner,
		IsPublished: true,
	}}
	if err := repo.Upsert(rc, rows); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	rows[0].Title = "Second Title"
	if err := repo.Upsert(rc, rows); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var got types.Course
	if err := tx.WithContext(ctx).Where("id = ?", "crs-up").First(&got).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title != "Second Title" {
		t.Fatalf("title = %q", got.Title)
	}
}
