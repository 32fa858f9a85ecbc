package domain

import "time"

// Engine result types. These are computed views over the knowledge graph,
// returned as-is by the HTTP layer.

// ReasonKnowledgeProgression is the only recommendation reason the rule-based
// scorer emits; every recommendation carries the graph facts behind it.
const ReasonKnowledgeProgression = "knowledge-progression"

type Recommendation struct {
	Course              GraphCourse   `json:"course"`
	Score               float64       `json:"score"`
	Reason              string        `json:"reason"`
	SkillOverlap        int           `json:"skill_overlap"`
	NewSkills           int           `json:"new_skills"`
	DifficultyGap       int           `json:"difficulty_gap"`
	LearningPath        *LearningPath `json:"learning_path,omitempty"`
	EstimatedCompletion time.Time     `json:"estimated_completion"`
}

type LearningPath struct {
	Courses               []GraphCourse `json:"courses"`
	TotalDuration         int           `json:"total_duration"` // minutes
	SkillsCovered         []string      `json:"skills_covered"`
	DifficultyProgression []int         `json:"difficulty_progression"`
	TargetFound           bool          `json:"target_found"`
}

type SkillGap struct {
	Skill               GraphSkill   `json:"skill"`
	Importance          int          `json:"importance"`
	Prerequisites       []GraphSkill `json:"prerequisites"`
	UserHasPrerequisite bool         `json:"user_has_prerequisites"`
}

type SkillGapReport struct {
	IdentifiedGaps   []SkillGap    `json:"identified_gaps"`
	FutureGaps       []SkillGap    `json:"future_gaps"`
	SuggestedCourses []GraphCourse `json:"suggested_courses"`
}

type CareerPlanCourse struct {
	Course       GraphCourse `json:"course"`
	SkillsTaught []string    `json:"skills_taught"` // missing-skill names this course covers
}

type Milestone struct {
	Name        string `json:"name"`
	AfterCourse int    `json:"after_course"` // 1-based index into the plan
	Progress    int    `json:"progress"`     // threshold percentage
	BestEffort  bool   `json:"best_effort,omitempty"`
}

type CareerPlan struct {
	TargetRole        string             `json:"target_role"`
	UnknownRole       bool               `json:"unknown_role"`
	CurrentSkills     int                `json:"current_skills"`
	RequiredSkills    int                `json:"required_skills"`
	SkillGapCount     int                `json:"skill_gap_count"`
	EstimatedDuration int                `json:"estimated_duration"` // minutes
	Plan              []CareerPlanCourse `json:"plan"`
	UncoveredSkills   []string           `json:"uncovered_skills,omitempty"`
	Milestones        []Milestone        `json:"milestones"`
}

// GraphSkill and GraphCourse are the node projections served back out of the
// graph store; they mirror the catalog rows minus persistence concerns.
type GraphSkill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int    `json:"level"`
}

type GraphCourse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Duration   int    `json:"duration"` // minutes
	Difficulty int    `json:"difficulty"`
}
