package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/learnpath-backend/internal/modules/knowledge/steps"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

type skillHierarchyFile struct {
	BuildsOn []steps.HierarchyPair `yaml:"builds_on"`
}

// LoadSkillHierarchy reads the static BUILDS_ON seed table. A missing file
// is a warning, not a failure: the graph simply builds without a skill
// hierarchy, the same way unknown pairs are skipped during the build.
func LoadSkillHierarchy(baseLog *logger.Logger, path string) ([]steps.HierarchyPair, error) {
	log := baseLog.With("service", "SkillHierarchy")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("skill hierarchy file missing, building without BUILDS_ON edges", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("skill hierarchy: read %s: %w", path, err)
	}

	var parsed skillHierarchyFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("skill hierarchy: parse %s: %w", path, err)
	}
	log.Info("skill hierarchy loaded", "path", path, "pairs", len(parsed.BuildsOn))
	return parsed.BuildsOn, nil
}
