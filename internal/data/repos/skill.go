package repos

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type SkillRepo interface {
	GetAll(rc dbctx.Context) ([]*types.Skill, error)
	Upsert(rc dbctx.Context, skills []*types.Skill) error
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	return &skillRepo{db: db, log: baseLog.With("repo", "SkillRepo")}
}

func (r *skillRepo) handle(rc dbctx.Context) *gorm.DB {
	if rc.Tx != nil {
		return rc.Tx.WithContext(rc.Ctx)
	}
	return r.db.WithContext(rc.Ctx)
}

func (r *skillRepo) GetAll(rc dbctx.Context) ([]*types.Skill, error) {
	var rows []*types.Skill
	if err := r.handle(rc).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillRepo) Upsert(rc dbctx.Context, skills []*types.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&skills).Error
}
