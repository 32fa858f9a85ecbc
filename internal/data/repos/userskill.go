package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type UserSkillRepo interface {
	GetByUserID(rc dbctx.Context, userID uuid.UUID) ([]*types.UserSkill, error)
	Upsert(rc dbctx.Context, rows []*types.UserSkill) error
}

type userSkillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSkillRepo(db *gorm.DB, baseLog *logger.Logger) UserSkillRepo {
	return &userSkillRepo{db: db, log: baseLog.With("repo", "UserSkillRepo")}
}

func (r *userSkillRepo) handle(rc dbctx.Context) *gorm.DB {
	if rc.Tx != nil {
		return rc.Tx.WithContext(rc.Ctx)
	}
	return r.db.WithContext(rc.Ctx)
}

func (r *userSkillRepo) GetByUserID(rc dbctx.Context, userID uuid.UUID) ([]*types.UserSkill, error) {
	var rows []*types.UserSkill
	if err := r.handle(rc).
		Preload("Skill").
		Where("user_id = ?", userID).
		Order("skill_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userSkillRepo) Upsert(rc dbctx.Context, rows []*types.UserSkill) error {
	if len(rows) == 0 {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}
