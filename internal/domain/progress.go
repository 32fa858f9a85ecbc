package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is progress-service data: one row per user/course pair, with
// CompletedAt set once the course is finished.
type Enrollment struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_user_course,unique,priority:1" json:"user_id"`
	CourseID    string         `gorm:"not null;index:idx_enrollment_user_course,unique,priority:2" json:"course_id"`
	Course      *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	EnrolledAt  time.Time      `gorm:"not null;default:now()" json:"enrolled_at"`
	CompletedAt *time.Time     `gorm:"column:completed_at;index" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }

// UserSkill records a skill the user holds, written by the progress service
// when courses complete.
type UserSkill struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SkillID          string    `gorm:"primaryKey" json:"skill_id"`
	Skill            *Skill    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SkillID;references:ID" json:"skill,omitempty"`
	ProficiencyLevel int       `gorm:"column:proficiency_level;not null;default:1" json:"proficiency_level"`
	AcquiredAt       time.Time `gorm:"not null;default:now()" json:"acquired_at"`
}

func (UserSkill) TableName() string { return "user_skill" }

// LearningProfile carries the user's current overall level (1..4), matched
// against course difficulty when scoring.
type LearningProfile struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Level     int            `gorm:"column:level;not null;default:1" json:"level"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningProfile) TableName() string { return "learning_profile" }

// UserProgress is the per-request projection of progress data the engine
// works from. It is assembled fresh on every call and never persisted in the
// graph.
type UserProgress struct {
	CompletedCourseIDs []string  `json:"completed_course_ids"`
	CurrentLevel       int       `json:"current_level"`
	CompletedCourses   []*Course `json:"completed_courses,omitempty"`
}

func (p *UserProgress) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedCourseIDs))
	for _, id := range p.CompletedCourseIDs {
		set[id] = true
	}
	return set
}
