package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	GetCompletedByUserID(rc dbctx.Context, userID uuid.UUID) ([]*types.Enrollment, error)
	Upsert(rc dbctx.Context, rows []*types.Enrollment) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) handle(rc dbctx.Context) *gorm.DB {
	if rc.Tx != nil {
		return rc.Tx.WithContext(rc.Ctx)
	}
	return r.db.WithContext(rc.Ctx)
}

func (r *enrollmentRepo) GetCompletedByUserID(rc dbctx.Context, userID uuid.UUID) ([]*types.Enrollment, error) {
	var rows []*types.Enrollment
	if err := r.handle(rc).
		Preload("Course").
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at, course_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepo) Upsert(rc dbctx.Context, rows []*types.Enrollment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}
