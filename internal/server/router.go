package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/handlers"
	"github.com/yungbote/learnpath-backend/internal/middleware"
)

type RouterConfig struct {
	KnowledgeHandler *handlers.KnowledgeHandler
	AllowOrigins     []string
	RequestTimeout   time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(middleware.RequestDeadline(cfg.RequestTimeout))
	{
		api.POST("/graph/rebuild", cfg.KnowledgeHandler.RebuildGraph)

		users := api.Group("/users/:userId")
		users.GET("/recommendations", cfg.KnowledgeHandler.RecommendNext)
		users.GET("/learning-path/:courseId", cfg.KnowledgeHandler.GenerateLearningPath)
		users.GET("/skill-gaps", cfg.KnowledgeHandler.FindSkillGaps)
		users.GET("/career-path/:role", cfg.KnowledgeHandler.AnalyzeCareerPath)
	}

	return router
}
