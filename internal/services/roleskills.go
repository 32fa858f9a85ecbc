package services

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

// RoleSkillService serves the role -> required skill names table. The table
// is data, not code: it loads from a yaml file so roles can be added without
// touching the engine.
type RoleSkillService interface {
	RequiredSkills(role string) ([]string, bool)
	Roles() []string
	Reload() error
}

type roleSkillsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

type roleSkillService struct {
	log  *logger.Logger
	path string

	mu    sync.RWMutex
	roles map[string][]string
}

func NewRoleSkillService(baseLog *logger.Logger, path string) (RoleSkillService, error) {
	s := &roleSkillService{
		log:  baseLog.With("service", "RoleSkillService"),
		path: path,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *roleSkillService) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("role skills: read %s: %w", s.path, err)
	}
	var parsed roleSkillsFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("role skills: parse %s: %w", s.path, err)
	}
	if parsed.Roles == nil {
		parsed.Roles = map[string][]string{}
	}

	s.mu.Lock()
	s.roles = parsed.Roles
	s.mu.Unlock()

	s.log.Info("role skill map loaded", "path", s.path, "roles", len(parsed.Roles))
	return nil
}

func (s *roleSkillService) RequiredSkills(role string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	skills, ok := s.roles[role]
	if !ok {
		return nil, false
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out, true
}

func (s *roleSkillService) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.roles))
	for role := range s.roles {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}
