package db

import (
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalog (read replica of course-service data)
		&types.Skill{},
		&types.Course{},
		&types.CourseSkill{},
		&types.CoursePrerequisite{},

		// Progress (read replica of progress-service data)
		&types.Enrollment{},
		&types.UserSkill{},
		&types.LearningProfile{},
	)
}
