package app

import (
	"strings"
	"time"

	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
)

type Config struct {
	Addr           string
	LogMode        string
	AllowOrigins   []string
	RolesPath      string
	HierarchyPath  string
	RequestTimeout time.Duration
}

func LoadConfig() Config {
	origins := strings.Split(envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Addr:           envutil.String("SERVER_ADDR", ":8080"),
		LogMode:        envutil.String("LOG_MODE", "prod"),
		AllowOrigins:   origins,
		RolesPath:      envutil.String("ROLE_SKILLS_PATH", "configs/roles.yaml"),
		HierarchyPath:  envutil.String("SKILL_HIERARCHY_PATH", "configs/skill_hierarchy.yaml"),
		RequestTimeout: envutil.Duration("REQUEST_TIMEOUT", 30*time.Second),
	}
}
