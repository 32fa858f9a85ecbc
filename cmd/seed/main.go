package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/learnpath-backend/internal/data/db"
	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// seed loads a catalog snapshot into postgres so a fresh environment has
// something to build a graph from. Rows are upserted, so rerunning against
// an existing database is safe.

type seedFile struct {
	Skills []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Level    int    `yaml:"level"`
	} `yaml:"skills"`
	Courses []struct {
		ID          string `yaml:"id"`
		Title       string `yaml:"title"`
		Category    string `yaml:"category"`
		Duration    int    `yaml:"duration"`
		Level       string `yaml:"level"`
		IsPublished *bool  `yaml:"is_published"`
		Teaches     []struct {
			Skill string `yaml:"skill"`
			Level int    `yaml:"level"`
		} `yaml:"teaches"`
		Prerequisites []string `yaml:"prerequisites"`
	} `yaml:"courses"`
}

func main() {
	path := flag.String("file", "configs/catalog.seed.yaml", "catalog seed file")
	flag.Parse()

	logg, err := logger.New(envutil.String("LOG_MODE", "dev"))
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logg.Sync()

	if err := run(logg, *path); err != nil {
		logg.Fatal("seed failed", "error", err)
	}
}

func run(logg *logger.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	pg, err := db.NewPostgresService(logg)
	if err != nil {
		return err
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	skillRepo := repos.NewSkillRepo(pg.DB(), logg)
	courseRepo := repos.NewCourseRepo(pg.DB(), logg)
	rc := dbctx.Context{Ctx: context.Background()}

	skills := make([]*types.Skill, 0, len(seed.Skills))
	for _, s := range seed.Skills {
		level := s.Level
		if level <= 0 {
			level = 1
		}
		skills = append(skills, &types.Skill{
			ID:       s.ID,
			Name:     s.Name,
			Category: s.Category,
			Level:    level,
		})
	}
	if err := skillRepo.Upsert(rc, skills); err != nil {
		return fmt.Errorf("upsert skills: %w", err)
	}

	var (
		courses  []*types.Course
		mappings []*types.CourseSkill
		prereqs  []*types.CoursePrerequisite
	)
	for _, c := range seed.Courses {
		published := true
		if c.IsPublished != nil {
			published = *c.IsPublished
		}
		level := c.Level
		if level == "" {
			level = types.CourseLevelIntermediate
		}
		courses = append(courses, &types.Course{
			ID:          c.ID,
			Title:       c.Title,
			Category:    c.Category,
			Duration:    c.Duration,
			Level:       level,
			IsPublished: published,
		})
		for _, t := range c.Teaches {
			tl := t.Level
			if tl <= 0 {
				tl = 1
			}
			mappings = append(mappings, &types.CourseSkill{
				CourseID: c.ID,
				SkillID:  t.Skill,
				Level:    tl,
			})
		}
		for _, p := range c.Prerequisites {
			prereqs = append(prereqs, &types.CoursePrerequisite{
				CourseID:       c.ID,
				PrerequisiteID: p,
			})
		}
	}
	if err := courseRepo.Upsert(rc, courses); err != nil {
		return fmt.Errorf("upsert courses: %w", err)
	}
	if err := courseRepo.UpsertSkillMappings(rc, mappings); err != nil {
		return fmt.Errorf("upsert course skills: %w", err)
	}
	if err := courseRepo.UpsertPrerequisiteMappings(rc, prereqs); err != nil {
		return fmt.Errorf("upsert prerequisites: %w", err)
	}

	logg.Info("catalog seeded",
		"skills", len(skills),
		"courses", len(courses),
		"teaches", len(mappings),
		"prerequisites", len(prereqs),
	)
	return nil
}
