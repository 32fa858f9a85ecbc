package repos

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type CourseRepo interface {
	GetAllPublished(rc dbctx.Context) ([]*types.Course, error)
	GetSkillMappings(rc dbctx.Context) ([]*types.CourseSkill, error)
	GetPrerequisiteMappings(rc dbctx.Context) ([]*types.CoursePrerequisite, error)
	Upsert(rc dbctx.Context, courses []*types.Course) error
	UpsertSkillMappings(rc dbctx.Context, rows []*types.CourseSkill) error
	UpsertPrerequisiteMappings(rc dbctx.Context, rows []*types.CoursePrerequisite) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) handle(rc dbctx.Context) *gorm.DB {
	if rc.Tx != nil {
		return rc.Tx.WithContext(rc.Ctx)
	}
	return r.db.WithContext(rc.Ctx)
}

func (r *courseRepo) GetAllPublished(rc dbctx.Context) ([]*types.Course, error) {
	var rows []*types.Course
	if err := r.handle(rc).
		Where("is_published = ?", true).
		Order("created_at, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetSkillMappings(rc dbctx.Context) ([]*types.CourseSkill, error) {
	var rows []*types.CourseSkill
	if err := r.handle(rc).Order("course_id, skill_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetPrerequisiteMappings(rc dbctx.Context) ([]*types.CoursePrerequisite, error) {
	var rows []*types.CoursePrerequisite
	if err := r.handle(rc).Order("course_id, prerequisite_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) Upsert(rc dbctx.Context, courses []*types.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&courses).Error
}

func (r *courseRepo) UpsertSkillMappings(rc dbctx.Context, rows []*types.CourseSkill) error {
	if len(rows) == 0 {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "skill_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}

func (r *courseRepo) UpsertPrerequisiteMappings(rc dbctx.Context, rows []*types.CoursePrerequisite) error {
	if len(rows) == 0 {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "prerequisite_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
