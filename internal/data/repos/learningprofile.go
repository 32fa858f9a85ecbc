package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/platform/dbctx"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type LearningProfileRepo interface {
	// GetByUserID returns nil without error when the user has no profile yet;
	// callers fall back to level 1.
	GetByUserID(rc dbctx.Context, userID uuid.UUID) (*types.LearningProfile, error)
	Upsert(rc dbctx.Context, profile *types.LearningProfile) error
}

type learningProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningProfileRepo(db *gorm.DB, baseLog *logger.Logger) LearningProfileRepo {
	return &learningProfileRepo{db: db, log: baseLog.With("repo", "LearningProfileRepo")}
}

func (r *learningProfileRepo) handle(rc dbctx.Context) *gorm.DB {
	if rc.Tx != nil {
		return rc.Tx.WithContext(rc.Ctx)
	}
	return r.db.WithContext(rc.Ctx)
}

func (r *learningProfileRepo) GetByUserID(rc dbctx.Context, userID uuid.UUID) (*types.LearningProfile, error) {
	var row types.LearningProfile
	err := r.handle(rc).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *learningProfileRepo) Upsert(rc dbctx.Context, profile *types.LearningProfile) error {
	if profile == nil {
		return nil
	}
	return r.handle(rc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
}
