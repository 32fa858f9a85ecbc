package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Catalog rows are owned by the course service; this backend only reads them
// and projects them into the knowledge graph. IDs are catalog-assigned slugs,
// stable across rebuilds.

type Skill struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category  string         `gorm:"column:category;index" json:"category"`
	Level     int            `gorm:"column:level;not null;default:1" json:"level"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Skill) TableName() string { return "skill" }

// Course difficulty tiers as stored by the catalog. ToDifficulty folds
// unrecognized values to intermediate so unannotated rows stay ingestible.
const (
	CourseLevelBeginner     = "BEGINNER"
	CourseLevelIntermediate = "INTERMEDIATE"
	CourseLevelAdvanced     = "ADVANCED"
	CourseLevelExpert       = "EXPERT"
)

func ToDifficulty(level string) int {
	switch level {
	case CourseLevelBeginner:
		return 1
	case CourseLevelIntermediate:
		return 2
	case CourseLevelAdvanced:
		return 3
	case CourseLevelExpert:
		return 4
	default:
		return 2
	}
}

type Course struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Category    string         `gorm:"column:category;index" json:"category"`
	Duration    int            `gorm:"column:duration;not null;default:0" json:"duration"` // minutes
	Level       string         `gorm:"column:level;not null;default:'INTERMEDIATE'" json:"level"`
	IsPublished bool           `gorm:"column:is_published;not null;default:true;index" json:"is_published"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

// CourseSkill maps a course to a skill it teaches, with the proficiency
// level the course takes the learner to (TEACHES edge source data).
type CourseSkill struct {
	CourseID  string    `gorm:"primaryKey" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	SkillID   string    `gorm:"primaryKey" json:"skill_id"`
	Skill     *Skill    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SkillID;references:ID" json:"skill,omitempty"`
	Level     int       `gorm:"column:level;not null;default:1" json:"level"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CourseSkill) TableName() string { return "course_skill" }

// CoursePrerequisite maps a course to a course it requires (REQUIRES edge
// source data). Cycles are not ruled out here; graph traversal bounds depth.
type CoursePrerequisite struct {
	CourseID       string    `gorm:"primaryKey" json:"course_id"`
	Course         *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	PrerequisiteID string    `gorm:"primaryKey" json:"prerequisite_id"`
	Prerequisite   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:PrerequisiteID;references:ID" json:"prerequisite,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CoursePrerequisite) TableName() string { return "course_prerequisite" }
