package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/data/db"
	"github.com/yungbote/learnpath-backend/internal/data/graph"
	"github.com/yungbote/learnpath-backend/internal/data/repos"
	"github.com/yungbote/learnpath-backend/internal/handlers"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/platform/neo4jdb"
	"github.com/yungbote/learnpath-backend/internal/server"
	"github.com/yungbote/learnpath-backend/internal/services"
)

// App wires the whole service together: postgres catalog, the graph store
// (neo4j when configured, in-memory otherwise), the redis recommendation
// cache, and the HTTP surface.
type App struct {
	Config Config
	Log    *logger.Logger
	Router *gin.Engine

	pg       *db.PostgresService
	neo      *neo4jdb.Client
	recCache *services.RecommendationCache
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		return nil, err
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	neo, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return nil, err
	}
	var store graph.Store
	if neo != nil {
		log.Info("using neo4j graph store", "database", neo.Database)
		store = graph.NewNeo4jStore(neo.Driver, neo.Database, log)
	} else {
		log.Info("NEO4J_URI unset, using in-memory graph store")
		store = graph.NewMemoryStore(log)
	}

	skillRepo := repos.NewSkillRepo(pg.DB(), log)
	courseRepo := repos.NewCourseRepo(pg.DB(), log)
	enrollmentRepo := repos.NewEnrollmentRepo(pg.DB(), log)
	userSkillRepo := repos.NewUserSkillRepo(pg.DB(), log)
	profileRepo := repos.NewLearningProfileRepo(pg.DB(), log)

	roles, err := services.NewRoleSkillService(log, cfg.RolesPath)
	if err != nil {
		return nil, err
	}
	hierarchy, err := services.LoadSkillHierarchy(log, cfg.HierarchyPath)
	if err != nil {
		return nil, err
	}

	recCache := services.NewRecommendationCacheFromEnv(log)
	progress := services.NewProgressService(log, enrollmentRepo, profileRepo, userSkillRepo)
	knowledge := services.NewKnowledgeGraphService(
		log, store, skillRepo, courseRepo, progress, roles, hierarchy, recCache,
	)

	router := server.NewRouter(server.RouterConfig{
		KnowledgeHandler: handlers.NewKnowledgeHandler(log, knowledge),
		AllowOrigins:     cfg.AllowOrigins,
		RequestTimeout:   cfg.RequestTimeout,
	})

	return &App{
		Config:   cfg,
		Log:      log,
		Router:   router,
		pg:       pg,
		neo:      neo,
		recCache: recCache,
	}, nil
}

func (a *App) Run() error {
	a.Log.Info("listening", "addr", a.Config.Addr)
	return a.Router.Run(a.Config.Addr)
}

func (a *App) Close(ctx context.Context) {
	if err := a.recCache.Close(); err != nil {
		a.Log.Warn("closing redis", "error", err)
	}
	if err := a.neo.Close(ctx); err != nil {
		a.Log.Warn("closing neo4j", "error", err)
	}
	a.Log.Sync()
}
